package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/packrat-dev/packrat/internal/branding"
	"github.com/packrat-dev/packrat/internal/config"
	"github.com/packrat-dev/packrat/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the local configuration",
	Long:  `Run diagnostic checks on the packrat home directory and persisted configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor(cmd.OutOrStdout())
	},
}

func runDoctor(w io.Writer) error {
	home, err := store.Dir()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Home directory:")
	checkDir(w, home)

	s := store.OpenAt(home)
	fmt.Fprintln(w, "Config file:")
	entries, readErr := s.Read()
	switch {
	case readErr != nil:
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", s.Path(), readErr)
		return nil
	case entries == nil:
		fmt.Fprintf(w, "  [MISS] %s does not exist yet\n", s.Path())
		fmt.Fprintf(w, "         Run '%s config KEY VALUE' to create it\n", branding.CLIName())
		return nil
	default:
		fmt.Fprintf(w, "  [ OK ] %s (%d entries)\n", s.Path(), len(entries))
	}

	fmt.Fprintln(w, "Schema:")
	result, err := config.ValidateSnapshot(entries)
	if err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	if result.Valid {
		fmt.Fprintln(w, "  [ OK ] All known keys have usable values")
	} else {
		for _, issue := range result.Issues {
			fmt.Fprintf(w, "  [FAIL] %s: %s\n", issue.Path, issue.Message)
		}
	}

	fmt.Fprintln(w, "Environment overrides:")
	printEnvOverrides(w)
	return nil
}

// checkDir reports existence and permissions of the home directory.
func checkDir(w io.Writer, path string) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist yet\n", path)
		return
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return
	}
	if !info.IsDir() {
		fmt.Fprintf(w, "  [FAIL] %s is not a directory\n", path)
		return
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		fmt.Fprintf(w, "  [WARN] %s has permissions %o; expected %o\n", path, perm, store.DirPermSecure)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", path)
}

// printEnvOverrides lists which writable keys are currently shadowed by
// environment variables. The values themselves are not printed since
// api_key would be among them.
func printEnvOverrides(w io.Writer) {
	active := false
	for _, key := range validKeys {
		envName := branding.EnvVar(key)
		if _, ok := os.LookupEnv(envName); ok {
			fmt.Fprintf(w, "  [ OK ] %s overrides %s\n", envName, key)
			active = true
		}
	}
	if !active {
		fmt.Fprintln(w, "  [ OK ] None active")
	}
}
