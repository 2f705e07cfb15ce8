package cmd

import (
	"fmt"
	"os"

	"git-refspec/lib/command"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var matchCmd = &cobra.Command{
	Use:   "match [<remote>]",
	Short: "Show the ref mappings a fetch or push would apply",
	Long: `Match the remote's refspecs, or the ones given with --spec, against a
list of references. Fetches read the remote side from an ls-remote style
listing (--refs); pushes and --local use this repository's own refs.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		stdout := cmd.OutOrStdout()
		stderr := cmd.ErrOrStderr()
		dir, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(stderr, err)
			os.Exit(1)
		}

		push, _ := cmd.Flags().GetBool("push")
		specs, _ := cmd.Flags().GetStringArray("spec")
		refs, _ := cmd.Flags().GetString("refs")
		local, _ := cmd.Flags().GetBool("local")
		showSpec, _ := cmd.Flags().GetBool("show-spec")
		dump, _ := cmd.Flags().GetBool("dump")
		noColor, _ := cmd.Flags().GetBool("no-color")
		gitDir, _ := cmd.Flags().GetString("git-dir")

		options := command.MatchOption{
			Push:     push,
			Specs:    specs,
			RefsFile: refs,
			Local:    local,
			ShowSpec: showSpec,
			Dump:     dump,
			GitDir:   gitDir,
			Color:    !noColor && term.IsTerminal(int(os.Stdout.Fd())),
		}

		match, err := command.NewMatch(dir, args, options, cmd.InOrStdin(), stdout, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "fatal: %s\n", err)
			os.Exit(128)
		}
		os.Exit(match.Run())
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().Bool("push", false, "Use push refspecs and match this repository's refs")
	matchCmd.Flags().StringArrayP("spec", "s", []string{}, "Refspec to use instead of the configured ones (repeatable)")
	matchCmd.Flags().StringP("refs", "r", "", "File with the advertised refs, or - for stdin")
	matchCmd.Flags().Bool("local", false, "Match this repository's refs instead of an advertised listing")
	matchCmd.Flags().Bool("show-spec", false, "Show the refspec that produced each mapping")
	matchCmd.Flags().Bool("dump", false, "Print the refs that would be matched in ls-remote form")
	matchCmd.Flags().Bool("no-color", false, "Disable colored output")
}
