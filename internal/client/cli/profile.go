package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aislescan/aislescan/internal/core/domain"
	"github.com/aislescan/aislescan/internal/core/ports"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and edit your dietary profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current profile",
	RunE:  runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	Long: `Update one or more profile fields. Only the flags you pass change;
list flags replace the whole list. Pass an empty value to clear a field.

Examples:
  aislescan profile set --allergies peanuts,shellfish
  aislescan profile set --goal losing_weight
  aislescan profile set --restrictions vegan --allergies ""`,
	RunE: runProfileSet,
}

func init() {
	profileSetCmd.Flags().String("allergies", "", "comma-separated allergies")
	profileSetCmd.Flags().String("goal", "", "dietary goal: losing_weight, gaining_weight, building_body, maintaining")
	profileSetCmd.Flags().String("restrictions", "", "comma-separated dietary restrictions")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func printProfile(p domain.Profile) {
	goal := string(p.Goal)
	if goal == "" {
		goal = "(none)"
	}
	fmt.Printf("Goal:         %s\n", goal)
	fmt.Printf("Allergies:    %s\n", joinOrNone(p.Allergies))
	fmt.Printf("Restrictions: %s\n", joinOrNone(p.DietaryRestrictions))
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	appl, err := getApp(cmd.Context())
	if err != nil {
		return err
	}

	if err := appl.Profiles.Reload(cmd.Context()); err != nil {
		return err
	}
	profile := appl.Profiles.Get()

	if jsonOut {
		return printJSON(profile)
	}
	printProfile(profile)
	return nil
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	appl, err := getApp(cmd.Context())
	if err != nil {
		return err
	}

	var update ports.ProfileUpdate
	if cmd.Flags().Changed("allergies") {
		raw, _ := cmd.Flags().GetString("allergies")
		list := splitList(raw)
		update.Allergies = &list
	}
	if cmd.Flags().Changed("goal") {
		raw, _ := cmd.Flags().GetString("goal")
		goal := domain.Goal(raw)
		if !goal.Valid() {
			return fmt.Errorf("unknown goal %q", raw)
		}
		update.Goal = &goal
	}
	if cmd.Flags().Changed("restrictions") {
		raw, _ := cmd.Flags().GetString("restrictions")
		list := splitList(raw)
		update.DietaryRestrictions = &list
	}
	if update.Allergies == nil && update.Goal == nil && update.DietaryRestrictions == nil {
		return fmt.Errorf("nothing to update, pass --allergies, --goal, or --restrictions")
	}

	// Load current state first so the merged profile pushed to the
	// backend preserves untouched fields.
	if err := appl.Profiles.Reload(cmd.Context()); err != nil {
		return err
	}
	if err := appl.Profiles.Update(cmd.Context(), update); err != nil {
		return err
	}

	profile := appl.Profiles.Get()
	if jsonOut {
		return printJSON(profile)
	}
	fmt.Println("Profile updated")
	printProfile(profile)
	return nil
}
