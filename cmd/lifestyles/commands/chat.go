package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sezginpak/lifestyles/ai/usage"
	"github.com/sezginpak/lifestyles/store"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <question>",
		Short: "Ask the assistant a question about your life",
		Long: `Ask the assistant a question. The context sent with the question is
built from the data categories you allowed with 'lifestyles privacy'.

Examples:
  lifestyles chat "how has my mood been this week?"
  lifestyles chat --friend Ayşe "what should we do together?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runChat,
	}
	cmd.Flags().String("friend", "", "focus the conversation on one friend by name")
	cmd.Flags().Bool("premium", false, "use the premium tier (no daily message quota)")
	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	question := strings.Join(args, " ")
	tier := usage.TierFree
	if premium, _ := cmd.Flags().GetBool("premium"); premium {
		tier = usage.TierPremium
	}

	var target *store.Friend
	if name, _ := cmd.Flags().GetString("friend"); name != "" {
		target, err = findFriend(cmd, a, name)
		if err != nil {
			return err
		}
	}

	answer, err := a.chat.Ask(cmd.Context(), question, target, nil, tier)
	if err != nil {
		return fmt.Errorf("%s", userMessage(err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}

func findFriend(cmd *cobra.Command, a *app, name string) (*store.Friend, error) {
	friends, err := a.data.ListFriends(cmd.Context())
	if err != nil {
		return nil, err
	}
	for _, f := range friends {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("friend %q %w", name, errNotFound)
}
