package cmd

import (
	"fmt"
	"os"

	"git-refspec/lib/command"

	"github.com/spf13/cobra"
)

var remoteCmd = &cobra.Command{
	Use:   "remote [add <name> <url> | remove <name> | show <name>]",
	Short: "Manage remotes and their refspecs",
	Long:  ``,
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		stdout := cmd.OutOrStdout()
		stderr := cmd.ErrOrStderr()
		dir, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(stderr, err)
			os.Exit(1)
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		tracked, _ := cmd.Flags().GetStringSlice("track")
		gitDir, _ := cmd.Flags().GetString("git-dir")
		options := command.RemoteOption{
			Verbose: verbose,
			Tracked: tracked,
			GitDir:  gitDir,
		}

		rm, err := command.NewRemote(dir, args, options, stdout, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "fatal: %s\n", err)
			os.Exit(128)
		}
		os.Exit(rm.Run())
	},
}

func init() {
	rootCmd.AddCommand(remoteCmd)

	remoteCmd.Flags().BoolP("verbose", "v", false, "Show remote URLs")
	remoteCmd.Flags().StringSliceP("track", "t", []string{}, "Branch to track (can specify multiple)")
}
