package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sezginpak/lifestyles/ai/privacy"
)

func newPrivacyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "privacy",
		Short: "Control what data the assistant may see",
	}
	cmd.AddCommand(
		newPrivacyStatusCmd(),
		newPrivacyConsentCmd(),
		newPrivacyRevokeCmd(),
		newPrivacyShareCmd(),
		newPrivacyFeatureCmd(),
	)
	return cmd
}

func newPrivacyStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current privacy settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			s := a.gate.Settings()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "AI consent:       %v\n", s.HasGivenAIConsent)
			fmt.Fprintf(out, "Context mode:     %s\n", s.ContextMode)
			fmt.Fprintf(out, "Share friends:    %v\n", s.ShareFriendsData)
			fmt.Fprintf(out, "Share goals:      %v\n", s.ShareGoalsAndHabits)
			fmt.Fprintf(out, "Share mood:       %v\n", s.ShareMoodData)
			fmt.Fprintf(out, "Share location:   %v\n", s.ShareLocationData)
			fmt.Fprintf(out, "Chat enabled:     %v\n", s.AIChatEnabled)
			fmt.Fprintf(out, "Daily insight:    %v\n", s.MorningInsightEnabled)
			fmt.Fprintf(out, "Learning enabled: %v\n", s.LearningEnabled)
			if u := s.LastRequestDataUsage; u != nil {
				fmt.Fprintf(out, "Last request shared %d items at %s\n",
					u.TotalItems(), u.Timestamp.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newPrivacyConsentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consent",
		Short: "Give consent for AI features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.gate.GiveConsent(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "AI consent given")
			return nil
		},
	}
}

func newPrivacyRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke",
		Short: "Revoke AI consent and disable all AI features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.gate.RevokeConsent(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "AI consent revoked, all AI features disabled")
			return nil
		},
	}
}

var shareCategories = map[string]privacy.Category{
	"friends":  privacy.CategoryFriends,
	"goals":    privacy.CategoryGoals,
	"mood":     privacy.CategoryMood,
	"location": privacy.CategoryLocation,
	"journal":  privacy.CategoryJournal,
}

func newPrivacyShareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share <friends|goals|mood|location|journal|all> <on|off>",
		Short: "Toggle sharing of one data category, or all at once",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseOnOff(args[1])
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if args[0] == "all" {
				if enabled {
					err = a.gate.EnableAll(cmd.Context())
				} else {
					err = a.gate.DisableAll(cmd.Context())
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sharing for all categories set to %v\n", enabled)
				return nil
			}

			category, ok := shareCategories[args[0]]
			if !ok {
				return errors.Errorf("unknown category: %s", args[0])
			}
			if err := a.gate.SetSharing(cmd.Context(), category, enabled); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sharing for %s set to %v\n", args[0], enabled)
			return nil
		},
	}
}

var featureNames = map[string]privacy.Feature{
	"chat":     privacy.FeatureChat,
	"insight":  privacy.FeatureMorningInsight,
	"learning": privacy.FeatureLearning,
}

func newPrivacyFeatureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feature <chat|insight|learning> <on|off>",
		Short: "Toggle one AI feature",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			feature, ok := featureNames[args[0]]
			if !ok {
				return errors.Errorf("unknown feature: %s", args[0])
			}
			enabled, err := parseOnOff(args[1])
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.gate.SetFeature(cmd.Context(), feature, enabled); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "feature %s set to %v\n", args[0], enabled)
			return nil
		},
	}
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, errors.Errorf("expected on or off, got %q", s)
	}
}
