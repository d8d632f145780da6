package cli

import (
	"os"

	"github.com/packrat-dev/packrat/internal/branding"
	"github.com/packrat-dev/packrat/internal/store"
	"github.com/packrat-dev/packrat/internal/updater"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` talks to hex-compatible package registries: it manages the
local registry settings, credentials, and the persisted configuration
other commands resolve at run time.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Skip the banner for commands that manage their own state.
		if cmd.Name() == "version" {
			return
		}

		// Non-blocking banner from the cached version check.
		home, err := store.Dir()
		if err != nil {
			return
		}
		u := updater.New(buildVersion)
		u.CheckAndPrintBanner(os.Stderr, home)
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
