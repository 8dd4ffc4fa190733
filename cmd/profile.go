package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mzavel/fasting-cli/internal/domain"
)

var (
	profileName         string
	profileHeight       float64
	profileTargetWeight float64
	profileTimezone     string
)

// profileCmd represents the profile command group
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		profile, err := app.health.Profile(ctx)
		if err != nil {
			return err
		}
		printProfile(profile)
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		// Start from the stored profile so unset flags keep their value.
		profile, err := app.health.Profile(ctx)
		if err != nil || profile == nil {
			profile = &domain.Profile{}
		}
		if cmd.Flags().Changed("name") {
			profile.Name = profileName
		}
		if cmd.Flags().Changed("height") {
			profile.HeightCm = profileHeight
		}
		if cmd.Flags().Changed("target-weight") {
			profile.TargetWeightKg = profileTargetWeight
		}
		if cmd.Flags().Changed("timezone") {
			profile.Timezone = profileTimezone
		}

		updated, err := app.health.UpdateProfile(ctx, profile)
		if err != nil {
			return err
		}

		fmt.Println("✅ Profile updated.")
		printProfile(updated)
		reportQueued(ctx)
		return nil
	},
}

func printProfile(profile *domain.Profile) {
	if profile == nil {
		fmt.Println("No profile set. Use \"fasting profile set\".")
		return
	}
	fmt.Printf("Name:          %s\n", profile.Name)
	if profile.HeightCm > 0 {
		fmt.Printf("Height:        %.0f cm\n", profile.HeightCm)
	}
	if profile.TargetWeightKg > 0 {
		fmt.Printf("Target weight: %.1f kg\n", profile.TargetWeightKg)
	}
	if profile.Timezone != "" {
		fmt.Printf("Timezone:      %s\n", profile.Timezone)
	}
}

func init() {
	profileSetCmd.Flags().StringVar(&profileName, "name", "", "Display name")
	profileSetCmd.Flags().Float64Var(&profileHeight, "height", 0, "Height in centimetres")
	profileSetCmd.Flags().Float64Var(&profileTargetWeight, "target-weight", 0, "Target weight in kilograms")
	profileSetCmd.Flags().StringVar(&profileTimezone, "timezone", "", "IANA timezone, e.g. Europe/Prague")

	profileCmd.AddCommand(profileSetCmd)
}
