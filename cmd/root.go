package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "refmatch",
	Short: "Resolve refspecs against references",
	Long: `refmatch shows which references a fetch or push would map, and where to,
given the refspecs configured for a remote or passed on the command line.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(cmd.ErrOrStderr())
		log.SetLevel(log.WarnLevel)
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Log matching decisions to stderr")
	rootCmd.PersistentFlags().String("git-dir", "", "Path to the repository's .git directory")
}
