package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuteataxx/arbiter/pkg/engine"
	"github.com/cuteataxx/arbiter/pkg/roster"
)

func engineRef(id, name, path string, args []string) engine.Ref {
	return engine.Ref{ID: id, Name: name, Path: path, Args: args}
}

// Engines lists the engines currently registered in the roster.
func Engines() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "engines",
		Short: "Lists the registered engines",
		Args:  cobra.ExactArgs(0),

		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := roster.Load()
			if err != nil {
				return err
			}

			list := r.List()
			if len(list) == 0 {
				fmt.Println("\x1b[31mNo engines registered.\x1b[0m")
				return nil
			}

			fmt.Println("\x1b[32mRegistered Engines\x1b[0m:")
			for _, ref := range list {
				name := fmt.Sprintf("\x1b[34m%s\x1b[0m:", ref.ID)
				fmt.Printf("- %-20s %s\n", name, ref.Path)
			}
			return nil
		},
	}

	cmd.AddCommand(EnginesAdd())
	cmd.AddCommand(EnginesRemove())
	return cmd
}

// EnginesAdd registers a new engine under an ID.
func EnginesAdd() *cobra.Command {
	var name string
	var args []string

	cmd := &cobra.Command{
		Use:   "add id path",
		Short: "Registers an engine binary under an id",
		Args:  cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			r, err := roster.Load()
			if err != nil {
				return err
			}

			id, path := cmdArgs[0], cmdArgs[1]
			if name == "" {
				name = id
			}

			return r.Put(engineRef(id, name, path, args))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the id)")
	cmd.Flags().StringSliceVar(&args, "arg", nil, "Extra command-line argument, repeatable")
	return cmd
}

// EnginesRemove unregisters an engine by ID.
func EnginesRemove() *cobra.Command {
	return &cobra.Command{
		Use:   "remove id",
		Short: "Unregisters an engine",
		Args:  cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := roster.Load()
			if err != nil {
				return err
			}
			return r.Remove(args[0])
		},
	}
}
