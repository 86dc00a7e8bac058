package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sezginpak/lifestyles/store"
)

func newFactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "facts",
		Short: "Manage what the assistant has learned about you",
	}
	cmd.AddCommand(newFactsListCmd(), newFactsForgetCmd())
	return cmd
}

func newFactsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List learned facts",
		Args:  cobra.NoArgs,
		RunE:  runFactsList,
	}
	cmd.Flags().Bool("all", false, "include deactivated facts")
	return cmd
}

func runFactsList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	all, _ := cmd.Flags().GetBool("all")
	facts, err := a.data.ListKnowledgeFacts(cmd.Context(), &store.FindKnowledgeFact{OnlyActive: !all})
	if err != nil {
		return err
	}
	if len(facts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no learned facts yet")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, f := range facts {
		state := ""
		if !f.IsActive {
			state = " (inactive)"
		}
		fmt.Fprintf(out, "%s  [%s] %s: %s  confidence %.2f%s\n",
			f.ID, f.Category, f.Key, f.Value, f.Confidence, state)
	}
	return nil
}

func newFactsForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget <fact-id>",
		Short: "Deactivate a learned fact",
		Args:  cobra.ExactArgs(1),
		RunE:  runFactsForget,
	}
}

func runFactsForget(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	inactive := false
	if err := a.data.UpdateKnowledgeFact(cmd.Context(), &store.UpdateKnowledgeFact{
		ID:       args[0],
		IsActive: &inactive,
	}); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "fact deactivated")
	return nil
}
