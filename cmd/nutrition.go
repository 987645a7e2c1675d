package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/activebook/fitbot/data"
	"github.com/activebook/fitbot/service"
	"github.com/spf13/cobra"
)

var (
	nutritionServings float64
	nutritionMeal     string
)

func init() {
	rootCmd.AddCommand(nutritionCmd)
	nutritionCmd.AddCommand(nutritionTodayCmd)
	nutritionCmd.AddCommand(nutritionAddCmd)
	nutritionCmd.AddCommand(nutritionRemoveCmd)
	nutritionCmd.AddCommand(nutritionFoodsCmd)
	nutritionCmd.AddCommand(nutritionGoalsCmd)
	nutritionCmd.AddCommand(nutritionIdeasCmd)
	nutritionCmd.AddCommand(nutritionWeeklyCmd)
	nutritionCmd.AddCommand(nutritionWaterCmd)

	nutritionAddCmd.Flags().Float64VarP(&nutritionServings, "servings", "n", 1, "Number of servings")
	nutritionAddCmd.Flags().StringVarP(&nutritionMeal, "meal", "m", string(data.MealSnack), "Meal: breakfast, lunch, dinner, snack")
}

var nutritionCmd = &cobra.Command{
	Use:     "nutrition",
	Aliases: []string{"food", "nu"},
	Short:   "Track meals, macros and water",
	RunE: func(cmd *cobra.Command, args []string) error {
		return nutritionTodayCmd.RunE(cmd, args)
	},
}

func nutritionTracker() *service.NutritionTracker {
	return service.NewNutritionTracker(data.NewMealStore())
}

var nutritionTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's meals against your goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}
		day, err := nutritionTracker().Today()
		if err != nil {
			return err
		}
		goals := service.CalculateGoals(p)
		totals := service.Totals(day.Meals)

		fmt.Println(sectionColor("Today's Nutrition"))
		printMacro("Calories", totals.Calories, float64(goals.Calories), "kcal")
		printMacro("Protein", totals.Protein, float64(goals.Protein), "g")
		printMacro("Carbs", totals.Carbs, float64(goals.Carbs), "g")
		printMacro("Fat", totals.Fat, float64(goals.Fat), "g")
		fmt.Printf("  %-9s %s  %d/%d glasses\n", "Water", waterGlasses(day.Water, goals.Water), day.Water, goals.Water)

		remaining := goals.Remaining(totals)
		if remaining.Calories >= 0 {
			fmt.Printf("\n  %s kcal left today\n", greenColor(fmt.Sprintf("%.0f", remaining.Calories)))
		} else {
			fmt.Printf("\n  %s kcal over your goal\n", redColor(fmt.Sprintf("%.0f", -remaining.Calories)))
		}

		if dist := service.Distribution(totals); totals.Calories > 0 {
			sum := dist.Protein + dist.Carbs + dist.Fat
			fmt.Printf("  %s\n", grayColor(fmt.Sprintf("Split: protein %.0f%%  carbs %.0f%%  fat %.0f%%",
				dist.Protein/sum*100, dist.Carbs/sum*100, dist.Fat/sum*100)))
		}

		for _, mt := range data.MealTypes {
			meals := service.MealsByType(day.Meals, mt)
			fmt.Printf("\n%s\n", highlightColor(mealTitle(mt)))
			if len(meals) == 0 {
				fmt.Printf("  %s\n", grayColor("nothing logged"))
				continue
			}
			for _, m := range meals {
				fmt.Printf("  %-18s x%-4s %5.0f kcal  P %.1fg  C %.1fg  F %.1fg  %s\n",
					m.FoodName, strconv.FormatFloat(m.Servings, 'f', -1, 64), m.Calories, m.Protein, m.Carbs, m.Fat, grayColor(shortID(m.ID)))
			}
		}
		return nil
	},
}

func printMacro(name string, value, goal float64, unit string) {
	pct := 0.0
	if goal > 0 {
		pct = value / goal * 100
	}
	fmt.Printf("  %-9s %s  %s\n", name, progressBar(pct, 20),
		ratioColor(value, goal)(fmt.Sprintf("%.0f/%.0f %s", value, goal, unit)))
}

func mealTitle(mt data.MealType) string {
	s := string(mt)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func waterGlasses(n, goal int) string {
	return strings.Repeat("💧", n) + grayColor(strings.Repeat("·", max(0, goal-n)))
}

var nutritionAddCmd = &cobra.Command{
	Use:   "add <food>",
	Short: "Log a food by ID or name",
	Long: `Log servings of a food to today's meals. Foods can be given by ID, exact
name or any unambiguous part of the name; see 'fitbot nutrition foods'.

  fitbot nutrition add salmon --servings 1.5 --meal dinner`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		food, err := service.ResolveFood(strings.Join(args, " "))
		if err != nil {
			return err
		}
		mealType, err := data.ParseMealType(strings.ToLower(nutritionMeal))
		if err != nil {
			return err
		}
		entry, err := nutritionTracker().AddFood(food, nutritionServings, mealType)
		if err != nil {
			return err
		}
		fmt.Printf("%sLogged%s %s x%s to %s: %.0f kcal, %.1fg protein\n", data.StatusSuccessColor, data.ResetSeq,
			entry.FoodName, strconv.FormatFloat(entry.Servings, 'f', -1, 64), entry.MealType, entry.Calories, entry.Protein)
		return nil
	},
}

var nutritionRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a meal logged today",
	Long:  "Remove a meal by the ID (or its first characters) shown in 'fitbot nutrition today'.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker := nutritionTracker()
		day, err := tracker.Today()
		if err != nil {
			return err
		}
		var matches []data.MealEntry
		for _, m := range day.Meals {
			if strings.HasPrefix(m.ID, args[0]) {
				matches = append(matches, m)
			}
		}
		switch len(matches) {
		case 0:
			return fmt.Errorf("no meal with id '%s' logged today", args[0])
		case 1:
		default:
			return fmt.Errorf("'%s' matches %d meals, use more characters", args[0], len(matches))
		}
		if err := tracker.RemoveMeal(matches[0].ID); err != nil {
			return err
		}
		fmt.Printf("Removed %s from %s.\n", matches[0].FoodName, matches[0].MealType)
		return nil
	},
}

var nutritionFoodsCmd = &cobra.Command{
	Use:   "foods [query]",
	Short: "Search the food database",
	RunE: func(cmd *cobra.Command, args []string) error {
		foods := service.SearchFoods(strings.Join(args, " "))
		if len(foods) == 0 {
			fmt.Println("No foods found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFOOD\tSERVING\tKCAL\tPROTEIN\tCARBS\tFAT")
		for _, f := range foods {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%.1fg\t%.1fg\t%.1fg\n", f.ID, f.Name, f.Serving, f.Calories, f.Protein, f.Carbs, f.Fat)
		}
		return w.Flush()
	},
}

var nutritionGoalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show your daily nutrition targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}
		g := service.CalculateGoals(p)
		fmt.Println(sectionColor("Daily Goals"))
		fmt.Printf("  Calories  %d kcal\n", g.Calories)
		fmt.Printf("  Protein   %dg\n", g.Protein)
		fmt.Printf("  Carbs     %dg\n", g.Carbs)
		fmt.Printf("  Fat       %dg\n", g.Fat)
		fmt.Printf("  Water     %d glasses\n", g.Water)
		if p == nil {
			fmt.Printf("\n%s\n", grayColor("Defaults shown; run 'fitbot onboard' to tailor them to your goal."))
		}
		return nil
	},
}

var nutritionIdeasCmd = &cobra.Command{
	Use:     "ideas",
	Aliases: []string{"suggest"},
	Short:   "Meal ideas for your goal and diet",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}
		fmt.Println(sectionColor("Meal Ideas"))
		for _, s := range service.Suggestions(p) {
			fmt.Printf("  %s  %s\n", highlightColor(s.Name), grayColor(fmt.Sprintf("%d kcal, %dg protein", s.Calories, s.Protein)))
			fmt.Printf("    %s\n", strings.Join(s.Foods, ", "))
		}
		return nil
	},
}

var nutritionWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Calories and water over the last seven days",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}
		days, err := nutritionTracker().Weekly()
		if err != nil {
			return err
		}
		goals := service.CalculateGoals(p)
		fmt.Println(sectionColor("This Week"))
		for _, d := range days {
			pct := d.Totals.Calories / float64(goals.Calories) * 100
			fmt.Printf("  %s %s  %s  %s\n", d.Day, grayColor(d.Date[5:]), progressBar(pct, 20),
				ratioColor(d.Totals.Calories, float64(goals.Calories))(fmt.Sprintf("%5.0f kcal", d.Totals.Calories)))
		}
		return nil
	},
}

var nutritionWaterCmd = &cobra.Command{
	Use:   "water [+n|-n]",
	Short: "Log glasses of water (default +1)",
	Args:  cobra.MaximumNArgs(1),
	// "-1" must reach the command as an argument.
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
			return cmd.Help()
		}
		delta := 1
		if len(args) == 1 {
			if err := validateInt(args[0]); err != nil {
				return fmt.Errorf("glasses %w", err)
			}
			delta, _ = strconv.Atoi(strings.TrimSpace(args[0]))
		}
		glasses, err := nutritionTracker().AddWater(delta)
		if err != nil {
			return err
		}
		fmt.Printf("Water: %s  %d/%d glasses\n", waterGlasses(glasses, service.WaterGoalGlasses), glasses, service.WaterGoalGlasses)
		return nil
	},
}
