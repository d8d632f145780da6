package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/packrat-dev/packrat/internal/branding"
	"github.com/packrat-dev/packrat/internal/store"
	"github.com/spf13/cobra"
)

// validKeys is the closed set of keys writable through `config KEY VALUE`.
// Other keys may exist in the store (internal markers, hand-edited extras)
// and can still be read or listed, but never written here.
var validKeys = []string{
	"api_key",
	"api_url",
	"offline",
	"unsafe_https",
	"unsafe_registry",
	"http_proxy",
	"https_proxy",
	"http_concurrency",
	"http_timeout",
}

// reservedPrefix marks internal store entries. Keys with this prefix are
// hidden from listings and rejected as command arguments before any store
// access.
const reservedPrefix = "$"

// configStore is the slice of the store the config command needs.
type configStore interface {
	Read() ([]store.Entry, error)
	Update([]store.Entry) error
	Remove([]string) error
}

var configDelete bool

var errConfigUsage = errors.New("usage: " + branding.CLIName() + " config [--delete] KEY [VALUE]")

func init() {
	configCmd.Flags().BoolVar(&configDelete, "delete", false, "Delete the given key")
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [KEY] [VALUE]",
	Short: "Read, write, and delete registry settings",
	Long: `Read and write ` + branding.DisplayName() + ` configuration stored in ` + branding.HomeDir() + `/` + store.ConfigFile + `.

With no arguments, lists all settings. With KEY, prints that setting.
With KEY and VALUE, writes the setting. With KEY and --delete, removes it.

Writable keys: ` + strings.Join(validKeys, ", ") + `

Several keys are overridden by environment variables at use time
(e.g. ` + branding.EnvVar("API_URL") + `); this command only manipulates the persisted values.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 2 {
			return errConfigUsage
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open()
		if err != nil {
			return err
		}
		return runConfig(cmd.OutOrStdout(), s, args, configDelete)
	},
}

// runConfig dispatches one invocation to exactly one of list, read, set, or
// delete. Validation always precedes store access: a rejected key never
// reaches the store.
func runConfig(w io.Writer, s configStore, args []string, del bool) error {
	if len(args) > 0 && strings.HasPrefix(args[0], reservedPrefix) {
		return fmt.Errorf("invalid key name %s", args[0])
	}

	switch {
	case len(args) == 0 && !del:
		return listConfig(w, s)
	case len(args) == 1 && del:
		return deleteConfig(s, args[0])
	case len(args) == 1:
		return readConfig(w, s, args[0])
	case len(args) == 2 && !del:
		return setConfig(w, s, args[0], args[1])
	default:
		// --delete with zero or two positional args.
		return errConfigUsage
	}
}

// filterVisible strips reserved entries from a snapshot: every key whose
// textual form starts with the reserved prefix, plus encrypted_key. List
// and read share this single helper so they can never diverge.
func filterVisible(entries []store.Entry) []store.Entry {
	visible := make([]store.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Key, reservedPrefix) || e.Key == store.KeyEncrypted {
			continue
		}
		visible = append(visible, e)
	}
	return visible
}

func listConfig(w io.Writer, s configStore) error {
	entries, err := s.Read()
	if err != nil {
		return err
	}
	for _, e := range filterVisible(entries) {
		fmt.Fprintf(w, "%s: %s\n", e.Key, e.Value.Pretty())
	}
	return nil
}

func readConfig(w io.Writer, s configStore, key string) error {
	entries, err := s.Read()
	if err != nil {
		return err
	}
	for _, e := range filterVisible(entries) {
		if e.Key == key {
			fmt.Fprintln(w, e.Value.Pretty())
			return nil
		}
	}
	return fmt.Errorf("config does not contain key %s", key)
}

func setConfig(w io.Writer, s configStore, key, value string) error {
	if !isValidKey(key) {
		return fmt.Errorf("invalid key %s (valid keys: %s)", key, strings.Join(validKeys, ", "))
	}
	if err := s.Update([]store.Entry{{Key: key, Value: store.StringValue(value)}}); err != nil {
		return fmt.Errorf("writing config key %s: %w", key, err)
	}
	fmt.Fprintf(w, "Set %s = %s\n", key, value)
	return nil
}

func deleteConfig(s configStore, key string) error {
	if err := s.Remove([]string{key}); err != nil {
		return fmt.Errorf("deleting config key %s: %w", key, err)
	}
	return nil
}

func isValidKey(key string) bool {
	for _, k := range validKeys {
		if k == key {
			return true
		}
	}
	return false
}
