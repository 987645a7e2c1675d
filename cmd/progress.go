package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/activebook/fitbot/data"
	"github.com/activebook/fitbot/service"
	"github.com/spf13/cobra"
)

var progressAdd struct {
	date     string
	weight   string
	bodyFat  string
	workout  bool
	calories int
	duration int
	notes    string
	chest    float64
	waist    float64
	hips     float64
	arms     float64
	thighs   float64
}

var progressLimit int

func init() {
	rootCmd.AddCommand(progressCmd)
	progressCmd.AddCommand(progressOverviewCmd)
	progressCmd.AddCommand(progressAddCmd)
	progressCmd.AddCommand(progressHistoryCmd)
	progressCmd.AddCommand(progressAchievementsCmd)

	f := progressAddCmd.Flags()
	f.StringVar(&progressAdd.date, "date", "", "Date as YYYY-MM-DD (default today)")
	f.StringVarP(&progressAdd.weight, "weight", "w", "", "Body weight in lbs")
	f.StringVar(&progressAdd.bodyFat, "body-fat", "", "Body fat percentage")
	f.BoolVar(&progressAdd.workout, "workout", false, "A workout was completed")
	f.IntVar(&progressAdd.calories, "calories", 0, "Calories burned")
	f.IntVar(&progressAdd.duration, "duration", 0, "Workout minutes")
	f.StringVar(&progressAdd.notes, "notes", "", "Free-form notes")
	f.Float64Var(&progressAdd.chest, "chest", 0, "Chest in inches")
	f.Float64Var(&progressAdd.waist, "waist", 0, "Waist in inches")
	f.Float64Var(&progressAdd.hips, "hips", 0, "Hips in inches")
	f.Float64Var(&progressAdd.arms, "arms", 0, "Arms in inches")
	f.Float64Var(&progressAdd.thighs, "thighs", 0, "Thighs in inches")

	progressHistoryCmd.Flags().IntVarP(&progressLimit, "limit", "n", 10, "Number of most recent entries to show (0 for all)")
}

var progressCmd = &cobra.Command{
	Use:     "progress",
	Aliases: []string{"pr"},
	Short:   "Track weight, workouts and achievements",
	RunE: func(cmd *cobra.Command, args []string) error {
		return progressOverviewCmd.RunE(cmd, args)
	},
}

func progressTracker() *service.ProgressTracker {
	return service.NewProgressTracker(data.NewProgressStore())
}

var progressOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Summary of your progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}
		stats, _, err := progressTracker().Stats()
		if err != nil {
			return err
		}

		fmt.Println(sectionColor("Progress Overview"))
		if stats.Entries == 0 {
			fmt.Println("  No entries yet. Log one with 'fitbot progress add'.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  %s\t%s\n", keyColor("Weight change"), formatWeightChange(stats.WeightChange, p))
		fmt.Fprintf(w, "  %s\t%s\n", keyColor("Current weight"), formatOptional(stats.LatestWeight, "%.1f lbs"))
		fmt.Fprintf(w, "  %s\t%s\n", keyColor("Body fat"), formatOptional(stats.LatestBodyFat, "%.1f%%"))
		fmt.Fprintf(w, "  %s\t%d\n", keyColor("Workouts"), stats.TotalWorkouts)
		fmt.Fprintf(w, "  %s\t%d kcal\n", keyColor("Calories burned"), stats.TotalCalories)
		fmt.Fprintf(w, "  %s\t%.0f min\n", keyColor("Avg duration"), stats.AvgDuration)
		fmt.Fprintf(w, "  %s\t%d (best %d)\n", keyColor("Streak"), stats.CurrentStreak, stats.LongestStreak)
		fmt.Fprintf(w, "  %s\t%s to %s\n", keyColor("Tracking"), stats.FirstEntryDate, stats.LastEntryDate)
		w.Flush()

		if p != nil {
			fmt.Printf("\n  Goal: %s\n  %s\n", service.LabelFor(service.GoalOptions, p.Goal), progressBar(service.GoalProgress(p.Goal, stats), 30))
		}
		return nil
	},
}

// formatWeightChange is green when the change moves towards the goal.
func formatWeightChange(change float64, p *data.UserProfile) string {
	s := fmt.Sprintf("%+.1f lbs", change)
	if p == nil || change == 0 {
		return s
	}
	switch {
	case p.Goal == "weight-loss" && change < 0, p.Goal == "muscle-gain" && change > 0:
		return greenColor(s)
	case p.Goal == "weight-loss", p.Goal == "muscle-gain":
		return yellowColor(s)
	}
	return s
}

func formatOptional(v *float64, format string) string {
	if v == nil {
		return grayColor("-")
	}
	return fmt.Sprintf(format, *v)
}

var progressAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a progress entry",
	Long: `Log a day of progress. Every value is optional.

  fitbot progress add --weight 172.5 --workout --calories 320 --duration 40`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := optionalFloat("weight", progressAdd.weight)
		if err != nil {
			return err
		}
		bodyFat, err := optionalFloat("body-fat", progressAdd.bodyFat)
		if err != nil {
			return err
		}
		entry := data.ProgressEntry{
			Date:             progressAdd.date,
			Weight:           weight,
			BodyFat:          bodyFat,
			WorkoutCompleted: progressAdd.workout,
			CaloriesBurned:   progressAdd.calories,
			Duration:         progressAdd.duration,
			Notes:            progressAdd.notes,
		}
		m := data.Measurements{
			Chest:  progressAdd.chest,
			Waist:  progressAdd.waist,
			Hips:   progressAdd.hips,
			Arms:   progressAdd.arms,
			Thighs: progressAdd.thighs,
		}
		if m != (data.Measurements{}) {
			entry.Measurements = &m
		}

		saved, err := progressTracker().Add(entry)
		if err != nil {
			return err
		}
		fmt.Printf("%sLogged progress for %s.%s\n", data.StatusSuccessColor, saved.Date, data.ResetSeq)
		return nil
	},
}

var progressHistoryCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"log"},
	Short:   "List logged entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := progressTracker().Entries()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No entries yet.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tWEIGHT\tBODY FAT\tWORKOUT\tKCAL\tMIN\tNOTES")
		shown := 0
		for i := len(entries) - 1; i >= 0; i-- {
			if progressLimit > 0 && shown == progressLimit {
				break
			}
			e := entries[i]
			workout := "-"
			if e.WorkoutCompleted {
				workout = "✔"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n", e.Date,
				formatOptional(e.Weight, "%.1f"), formatOptional(e.BodyFat, "%.1f%%"),
				workout, e.CaloriesBurned, e.Duration, orDash(e.Notes))
			shown++
		}
		return w.Flush()
	},
}

var progressAchievementsCmd = &cobra.Command{
	Use:     "achievements",
	Aliases: []string{"badges"},
	Short:   "Show unlocked and upcoming achievements",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, _, err := progressTracker().Stats()
		if err != nil {
			return err
		}
		fmt.Println(sectionColor("Achievements"))
		for _, a := range service.Achievements(stats) {
			mark := grayColor("○")
			title := a.Title
			if a.Unlocked() {
				mark = highlightColor("★")
				title = highlightColor(a.Title)
			}
			fmt.Printf("  %s %s  %s\n", mark, title, grayColor(a.Description))
			fmt.Printf("    %s  %d/%d\n", progressBar(a.Percent(), 20), min(a.Current, a.Target), a.Target)
		}
		return nil
	},
}
