// File: cmd/root.go
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/activebook/fitbot/data"
	"github.com/activebook/fitbot/internal/ui"
	"github.com/activebook/fitbot/service"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string // --config overrides the default config file
	debugMode bool   // --debug overrides log.level

	logger = service.GetLogger()

	rootCmd = &cobra.Command{
		Use:   "fitbot",
		Short: "Your AI fitness companion in the terminal",
		Long: `fitbot plans workouts, tracks nutrition and progress, and chats with a
fitness coach whose replies stream in as they are written.

Run 'fitbot onboard' first so every screen can adapt to your goal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showDashboard()
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := data.EnsureConfigDir(); err != nil {
		service.Warnf("Could not create config directory '%s': %v", data.GetConfigDir(), err)
	}
	if err := rootCmd.Execute(); err != nil {
		service.Errorf("%v", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default is %s)", data.GetConfigFilePath()))
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Enable debug logging (overrides config file level)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	service.InitLogger()
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = data.GetConfigFilePath()
	}
	store := data.NewConfigStore()
	if err := store.SetConfigFile(path); err != nil {
		service.Errorf("Error reading config file (%s): %v", path, err)
	}
	setupLogging(store)

	if err := data.LoadTheme(store.GetTheme()); err != nil {
		service.Warnf("%v, using %s", err, data.DefaultThemeName)
		data.LoadTheme(data.DefaultThemeName)
	}
}

func setupLogging(store *data.ConfigStore) {
	if debugMode {
		logger.SetLevel(log.DebugLevel)
	} else {
		service.SetLogLevel(store.GetLogLevel())
	}
	service.Debugf("Logger initialized: level=%s config=%s", logger.GetLevel(), store.ConfigFileUsed())
}

// loadProfile returns the saved profile, or nil when onboarding never ran.
func loadProfile() (*data.UserProfile, error) {
	p, err := data.NewProfileStore().Load()
	if errors.Is(err, data.ErrNoProfile) {
		return nil, nil
	}
	return p, err
}

// requireProfile is loadProfile for commands that cannot work without one.
func requireProfile() (*data.UserProfile, error) {
	p, err := data.NewProfileStore().Load()
	if err != nil {
		return nil, err
	}
	return p, nil
}

// showDashboard is the home screen: a short summary of every tracker.
func showDashboard() error {
	if logo := ui.GetLogo(data.AssistantHex, data.UserHex, 0.5); logo != "" {
		fmt.Print(logo)
	}
	p, err := loadProfile()
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Println("Welcome to FitBot! Let's get to know you first:")
		fmt.Printf("  %sfitbot onboard%s\n", data.KeyColor, data.ResetSeq)
		return nil
	}

	fmt.Printf("Welcome back, %s%s%s!\n\n", data.HighlightColor, p.Name, data.ResetSeq)

	workouts := service.GenerateWorkouts(p)
	if len(workouts) > 0 {
		w := workouts[0]
		fmt.Printf("%sToday's Workout%s  %s, %d min, ~%d kcal\n", data.SectionColor, data.ResetSeq, w.Name, w.Minutes, w.CaloriesBurned)
	}

	goals := service.CalculateGoals(p)
	if day, err := service.NewNutritionTracker(data.NewMealStore()).Today(); err == nil {
		totals := service.Totals(day.Meals)
		fmt.Printf("%sNutrition%s        %.0f / %d kcal, %d / %d glasses of water\n",
			data.SectionColor, data.ResetSeq, totals.Calories, goals.Calories, day.Water, goals.Water)
	} else {
		service.Warnf("Failed to load meal log: %v", err)
	}

	if stats, _, err := service.NewProgressTracker(data.NewProgressStore()).Stats(); err == nil {
		fmt.Printf("%sProgress%s         %d workouts, goal %s\n",
			data.SectionColor, data.ResetSeq, stats.TotalWorkouts, progressBar(service.GoalProgress(p.Goal, stats), 20))
	} else {
		service.Warnf("Failed to load progress: %v", err)
	}

	fmt.Println()
	fmt.Printf("Chat with your coach: %sfitbot chat%s\n", data.KeyColor, data.ResetSeq)
	return nil
}
