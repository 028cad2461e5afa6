package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vcm [msgFileOrText] [errorLogPath]",
		Short: "Validate commit messages against the conventional format",
		Long: `vcm checks commit messages for a "<type>(<scope>): <subject>" header,
an allowed type, a bounded header length and a well-formed body.

Without arguments it validates .git/COMMIT_EDITMSG, which makes it usable
directly as a commit-msg hook. A file name is resolved against the git
directory (for instance GITGUI_EDITMSG); anything else is validated as the
message text itself.

Rejected messages are appended to .git/logs/incorrect-commit-msgs and kept
in .git/COMMIT_EDITMSG_ERR so that "vcm --recover" can pre-fill the editor
from a prepare-commit-msg hook on the next attempt.

The exit code is the number of invalid messages.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          RunValidate,
	}

	rootCmd.Flags().String("from", "", "Validate every commit in <ref>..HEAD instead of a single message")
	rootCmd.Flags().Bool("recover", false, "Pre-fill the commit message with the last rejected one (prepare-commit-msg hook)")
	rootCmd.Flags().String("config", "", "Rule file (default: .vcmrc.yml, .vcmrc.yaml or .vcmrc in the work tree)")
	rootCmd.PersistentFlags().String("log", "", "Log level: debug, info, warn, error (env "+LogLevelEnv+")")

	return rootCmd
}
