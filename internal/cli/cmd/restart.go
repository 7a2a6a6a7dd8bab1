package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuteataxx/arbiter/pkg/tournament"
)

// Restart inspects a previously saved checkpoint without resuming play,
// so a user can check how far a paused tournament got.
func Restart() *cobra.Command {
	return &cobra.Command{
		Use:   "restart checkpoint-file",
		Short: "Shows the state saved in a tournament checkpoint",
		Args:  cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			checkpoint, err := tournament.LoadCheckpoint(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("next game id: %d\n", checkpoint.Generator.NextID)
			fmt.Printf("pairs recorded:  %d\n", len(checkpoint.Pairs))
			fmt.Printf("engines tallied: %d\n", len(checkpoint.Totals))
			return nil
		},
	}
}
