package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/packrat-dev/packrat/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	authKeyFlag string
	authRemove  bool
)

func init() {
	authCmd.Flags().StringVar(&authKeyFlag, "key", "", "API key (prompted for when omitted)")
	authCmd.Flags().BoolVar(&authRemove, "remove", false, "Remove stored credentials")
	rootCmd.AddCommand(authCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Store the registry API key encrypted at rest",
	Long: `Store the registry API key in the persisted configuration.

The key is encrypted with a local passphrase and kept under the internal
encrypted_key entry; any plaintext api_key entry is removed. Commands that
need the key decrypt it on demand.

Examples:
  packrat auth                   Prompt for key and passphrase
  packrat auth --key <key>       Take the key from the flag
  echo $KEY | packrat auth       Pipe the key from stdin
  packrat auth --remove          Forget stored credentials`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open()
		if err != nil {
			return err
		}

		if authRemove {
			if err := s.Remove([]string{store.KeyAPIKey, store.KeyEncrypted}); err != nil {
				return fmt.Errorf("removing credentials: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed stored credentials")
			return nil
		}

		apiKey := strings.TrimSpace(authKeyFlag)
		if apiKey == "" {
			apiKey, err = readSecret("Registry API key: ")
			if err != nil {
				return err
			}
		}
		if apiKey == "" {
			return errors.New("API key cannot be empty")
		}

		passphrase, err := readSecret("Local passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := readSecret("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return errors.New("passphrases do not match")
		}

		if err := storeEncryptedKey(s, apiKey, passphrase); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Stored encrypted API key")
		return nil
	},
}

// storeEncryptedKey writes the encrypted key and drops any plaintext one so
// the store never holds both forms.
func storeEncryptedKey(s configStore, apiKey, passphrase string) error {
	blob, err := store.EncryptAPIKey(apiKey, passphrase)
	if err != nil {
		return fmt.Errorf("encrypting API key: %w", err)
	}
	if err := s.Update([]store.Entry{{Key: store.KeyEncrypted, Value: store.StringValue(blob)}}); err != nil {
		return fmt.Errorf("storing encrypted key: %w", err)
	}
	if err := s.Remove([]string{store.KeyAPIKey}); err != nil {
		return fmt.Errorf("removing plaintext key: %w", err)
	}
	return nil
}

// readSecret reads a line without echo when stdin is a terminal, and falls
// back to plain line reading when input is piped.
func readSecret(prompt string) (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, prompt)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
