package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sezginpak/lifestyles/ai/aiclient"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the API credential",
	}
	cmd.AddCommand(newKeySetCmd())
	return cmd
}

func newKeySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Store the API key in the OS keyring",
		Long: `Reads the API key from stdin and stores it in the OS keyring. Set
LIFESTYLES_CREDENTIAL_SOURCE=keyring to use it. The key is never written to
any configuration file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), "API key: ")
			reader := bufio.NewReader(cmd.InOrStdin())
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return err
			}
			key := strings.TrimSpace(line)
			if key == "" {
				return fmt.Errorf("empty key")
			}

			if err := aiclient.StoreKeyringCredential(p, key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "key stored in keyring as %s/%s\n", p.KeyringService, p.KeyringUser)
			return nil
		},
	}
}
