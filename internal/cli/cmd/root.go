package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Root assembles the top-level "cuteataxx" command and its subcommands.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:  "cuteataxx",
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flag("trace").Changed {
				logrus.SetLevel(logrus.TraceLevel)
			}
		},
	}

	root.PersistentFlags().BoolP("help", "h", false, "Show help information")
	root.PersistentFlags().BoolP("version", "v", false, "Show cuteataxx's version")
	root.PersistentFlags().BoolP("trace", "t", false, "Show trace-level log output")

	versionStr := "v0.0.0\n"
	root.SetVersionTemplate(versionStr)
	root.Version = versionStr

	root.AddCommand(Run())
	root.AddCommand(Engines())
	root.AddCommand(Restart())

	return root
}
