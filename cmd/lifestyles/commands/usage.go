package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUsageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show token usage, estimated cost and rate limit state",
		Args:  cobra.NoArgs,
		RunE:  runUsage,
	}
	cmd.Flags().Bool("reset", false, "reset the cumulative usage counters")
	return cmd
}

func runUsage(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	ctx := cmd.Context()

	if reset, _ := cmd.Flags().GetBool("reset"); reset {
		a.tracker.Reset(ctx)
		fmt.Fprintln(cmd.OutOrStdout(), "usage counters reset")
		return nil
	}

	c := a.tracker.Counters(ctx)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Model:          %s\n", a.profile.Describe())
	fmt.Fprintf(out, "Requests:       %d\n", c.TotalRequests)
	fmt.Fprintf(out, "Input tokens:   %d\n", c.TotalInputTokens)
	fmt.Fprintf(out, "Output tokens:  %d\n", c.TotalOutputTokens)
	fmt.Fprintf(out, "Estimated cost: $%.4f\n", a.tracker.EstimatedCost(ctx))
	fmt.Fprintf(out, "Requests today: %d (last hour: %d, daily quota left: %d)\n",
		a.limiter.RequestsToday(ctx), a.limiter.RequestsThisHour(ctx), a.limiter.RemainingDailyQuota(ctx))
	return nil
}
