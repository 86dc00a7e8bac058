package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInsightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insight",
		Short: "Show the proactive insight for the current time of day",
		Long: `Shows the daily insight for the current time-of-day band (morning,
afternoon, evening, night). The insight is generated once per band per day
and cached; use --refresh to force regeneration.`,
		Args: cobra.NoArgs,
		RunE: runInsight,
	}
	cmd.Flags().Bool("refresh", false, "discard the cached insight and regenerate")
	return cmd
}

func runInsight(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
		if err := a.insight.Invalidate(cmd.Context()); err != nil {
			return err
		}
	}

	text, err := a.insight.Insight(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s", userMessage(err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
