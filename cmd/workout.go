package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/activebook/fitbot/data"
	"github.com/activebook/fitbot/internal/ui"
	"github.com/activebook/fitbot/service"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var workoutNoRest bool

func init() {
	rootCmd.AddCommand(workoutCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutShowCmd)
	workoutCmd.AddCommand(workoutStartCmd)
	workoutStartCmd.Flags().BoolVar(&workoutNoRest, "no-rest", false, "Skip the rest countdown between exercises")
}

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"wo"},
	Short:   "Browse and run workouts generated for your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return workoutListCmd.RunE(cmd, args)
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your recommended workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := requireProfile()
		if err != nil {
			return err
		}
		workouts := service.GenerateWorkouts(p)
		fmt.Printf("%s  %s\n\n", sectionColor("Your Workouts"), grayColor(fmt.Sprintf("personalized for %s", service.LabelFor(service.GoalOptions, p.Goal))))
		for _, w := range workouts {
			fmt.Printf("%s  %s\n", highlightColor(w.Name), grayColor("["+w.ID+"]"))
			fmt.Printf("  %s\n", w.Description)
			fmt.Printf("  %d min  ~%d kcal  %s  %s\n\n", w.Minutes, w.CaloriesBurned, difficultyColor(w.Difficulty), strings.ToUpper(string(w.Type)))
		}
		fmt.Printf("Start one with %sfitbot workout start <id>%s\n", data.KeyColor, data.ResetSeq)
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the exercises of a workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := findWorkout(args[0])
		if err != nil {
			return err
		}
		printWorkout(w)
		return nil
	},
}

var workoutStartCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Run a workout one exercise at a time",
	Long: `Guide you through a workout: mark each exercise complete, take the
programmed rest, and log the session to your progress when you finish.
Press Ctrl+C during a rest to end the workout early.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.IsInteractive() {
			return fmt.Errorf("workout sessions need an interactive terminal")
		}
		w, err := findWorkout(args[0])
		if err != nil {
			return err
		}
		session, err := service.StartWorkout(w)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		if err := runSession(ctx, session); err != nil {
			return err
		}
		return finishSession(session)
	},
}

func findWorkout(id string) (service.Workout, error) {
	p, err := requireProfile()
	if err != nil {
		return service.Workout{}, err
	}
	return service.FindWorkout(service.GenerateWorkouts(p), id)
}

func printWorkout(w service.Workout) {
	fmt.Printf("%s  %s\n", highlightColor(w.Name), difficultyColor(w.Difficulty))
	fmt.Printf("%s\n", w.Description)
	fmt.Printf("%d min  ~%d kcal  Equipment: %s\n\n", w.Minutes, w.CaloriesBurned, strings.Join(w.Equipment, ", "))
	for i, ex := range w.Exercises {
		printExercise(i+1, len(w.Exercises), ex)
	}
}

func printExercise(n, total int, ex service.Exercise) {
	fmt.Printf("%s %s\n", keyColor(fmt.Sprintf("%d/%d", n, total)), sectionColor(ex.Name))
	fmt.Printf("    %d sets x %s, rest %ds\n", ex.Sets, ex.Reps, ex.RestSeconds)
	fmt.Printf("    %s\n", ex.Instructions)
	fmt.Printf("    %s\n\n", grayColor("Targets: "+strings.Join(ex.TargetMuscles, ", ")))
}

// runSession walks the session until it completes, the user ends it, or ctx is done.
func runSession(ctx context.Context, s *service.WorkoutSession) error {
	w := s.Workout()
	fmt.Printf("%s Let's go!\n\n", highlightColor(w.Name))
	for s.Active() {
		ex := s.Current()
		printExercise(s.Index()+1, len(w.Exercises), ex)

		done := true
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Finished %s?", ex.Name)).
			Affirmative("Complete").
			Negative("End workout").
			Value(&done).
			Run()
		if errors.Is(err, huh.ErrUserAborted) || (err == nil && !done) {
			s.End()
			break
		}
		if err != nil {
			return err
		}

		rest, finished := s.Complete()
		fmt.Printf("%s %s  %s\n", greenColor("✔"), ex.Name, progressBar(float64(s.Progress()), 20))
		if finished {
			break
		}
		if workoutNoRest || rest <= 0 {
			continue
		}
		if !restCountdown(ctx, rest, s.Current().Name) {
			s.End()
			break
		}
	}
	return nil
}

// restCountdown shows the remaining rest. It returns false if ctx ended first.
func restCountdown(ctx context.Context, rest time.Duration, upNext string) bool {
	indicator := ui.GetIndicator()
	label := func(left time.Duration) string {
		return fmt.Sprintf("Rest %s  up next: %s", formatClock(left), upNext)
	}
	indicator.Start(label(rest))
	defer indicator.Stop()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	deadline := time.Now().Add(rest)
	for {
		select {
		case <-ctx.Done():
			return false
		case now := <-ticker.C:
			left := deadline.Sub(now)
			if left <= 0 {
				return true
			}
			indicator.Update(label(left))
		}
	}
}

func finishSession(s *service.WorkoutSession) error {
	w := s.Workout()
	fmt.Println()
	if s.CompletedCount() == len(w.Exercises) {
		fmt.Printf("%s Workout complete! %s\n", highlightColor("🎉"), w.Name)
	} else {
		fmt.Printf("Workout ended after %d of %d exercises.\n", s.CompletedCount(), len(w.Exercises))
	}
	fmt.Printf("Time: %s\n", formatClock(s.Elapsed()))
	if s.CompletedCount() == 0 {
		return nil
	}

	entry := s.ProgressEntry(time.Now())
	ok, err := confirm("Log this session to your progress?",
		fmt.Sprintf("%d min, ~%d kcal", entry.Duration, entry.CaloriesBurned), true)
	if err != nil || !ok {
		return nil
	}
	if _, err := service.NewProgressTracker(data.NewProgressStore()).Add(entry); err != nil {
		return err
	}
	fmt.Printf("%sSession logged.%s\n", data.StatusSuccessColor, data.ResetSeq)
	return nil
}
