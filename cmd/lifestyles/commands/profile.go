package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sezginpak/lifestyles/store"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your profile",
	}
	cmd.AddCommand(newProfileShowCmd(), newProfileSetCmd())
	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			p, err := a.data.GetUserProfile(cmd.Context())
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no profile set; use 'lifestyles profile set'")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s, %d, %s, %s\n", p.Name, p.Age, p.Occupation, p.City)
			return nil
		},
	}
}

func newProfileSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set profile fields",
		Args:  cobra.NoArgs,
		RunE:  runProfileSet,
	}
	cmd.Flags().String("name", "", "your name")
	cmd.Flags().Int("age", 0, "your age")
	cmd.Flags().String("occupation", "", "your occupation")
	cmd.Flags().String("city", "", "your city")
	return cmd
}

func runProfileSet(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	current, err := a.data.GetUserProfile(cmd.Context())
	if err != nil {
		return err
	}
	if current == nil {
		current = &store.UserProfile{}
	}
	if v, _ := cmd.Flags().GetString("name"); v != "" {
		current.Name = v
	}
	if v, _ := cmd.Flags().GetInt("age"); v > 0 {
		current.Age = v
	}
	if v, _ := cmd.Flags().GetString("occupation"); v != "" {
		current.Occupation = v
	}
	if v, _ := cmd.Flags().GetString("city"); v != "" {
		current.City = v
	}
	if err := a.data.SetUserProfile(cmd.Context(), current); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "profile updated")
	return nil
}
