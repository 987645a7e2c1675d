package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/activebook/fitbot/data"
	"github.com/activebook/fitbot/service"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileRemoveCmd)
	profileCmd.AddCommand(profilePathCmd)
	profileRemoveCmd.Flags().BoolP("force", "f", false, "Skip confirmation")
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or reset your fitness profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return profileShowCmd.RunE(cmd, args)
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your fitness profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := requireProfile()
		if err != nil {
			return err
		}
		printProfile(p)
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:     "rm",
	Aliases: []string{"reset"},
	Short:   "Delete your profile and start over",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := data.NewProfileStore()
		if !store.Exists() {
			fmt.Println("No profile to remove.")
			return nil
		}
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			ok, err := confirm("Delete your profile?", "Logged progress and meals are kept.", false)
			if err != nil || !ok {
				fmt.Println("Operation cancelled.")
				return nil
			}
		}
		if err := store.Delete(); err != nil {
			return err
		}
		fmt.Println("Profile removed. Run 'fitbot onboard' to create a new one.")
		return nil
	},
}

var profilePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the location of the profile file",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(data.NewProfileStore().GetPath())
	},
}

func printProfile(p *data.UserProfile) {
	fmt.Println(sectionColor("Your Profile"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  %s\t%s\n", keyColor("Name"), p.Name)
	fmt.Fprintf(w, "  %s\t%d\n", keyColor("Age"), p.Age)
	fmt.Fprintf(w, "  %s\t%s\n", keyColor("Goal"), service.LabelFor(service.GoalOptions, p.Goal))
	fmt.Fprintf(w, "  %s\t%s\n", keyColor("Level"), difficultyColor(p.FitnessLevel))
	fmt.Fprintf(w, "  %s\t%d minutes\n", keyColor("Workout time"), p.Minutes)
	fmt.Fprintf(w, "  %s\t%s\n", keyColor("Equipment"), joinOrNone(p.Equipment))
	fmt.Fprintf(w, "  %s\t%s\n", keyColor("Restrictions"), joinOrNone(p.Restrictions))
	fmt.Fprintf(w, "  %s\t%s\n", keyColor("Diet"), joinOrNone(p.DietaryPreferences))
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  %s\t%s\n", keyColor("Member since"), p.CreatedAt.Format("Jan 2, 2006"))
	}
	w.Flush()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return grayColor("none")
	}
	return strings.Join(items, ", ")
}
