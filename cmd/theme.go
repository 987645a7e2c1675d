package cmd

import (
	"fmt"

	"github.com/activebook/fitbot/data"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeSwitchCmd)
	themeCmd.AddCommand(themePreviewCmd)
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Manage and switch themes",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Current Theme: %s\n", data.CurrentThemeName)
	},
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available themes",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range data.ListThemes() {
			if name == data.CurrentThemeName {
				fmt.Printf("%s* %s%s\n", data.SwitchOnColor, name, data.ResetSeq)
			} else {
				fmt.Println(name)
			}
		}
	},
}

var themeSwitchCmd = &cobra.Command{
	Use:     "switch <name>",
	Aliases: []string{"sw"},
	Short:   "Switch to a different theme",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := data.LoadTheme(name); err != nil {
			return err
		}
		if err := data.SaveThemeConfig(name); err != nil {
			fmt.Printf("%sWarning: Failed to save theme config: %v%s\n", data.StatusWarnColor, err, data.ResetSeq)
		}
		fmt.Printf("%sSuccessfully switched to theme: %s%s\n", data.StatusSuccessColor, name, data.ResetSeq)
		return nil
	},
}

var themePreviewCmd = &cobra.Command{
	Use:   "preview <name>",
	Short: "Preview a theme without saving",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := data.LoadTheme(name); err != nil {
			return err
		}
		fmt.Printf("Previewing Theme: %s\n", name)
		fmt.Println("--- Sample Output ---")
		fmt.Printf("%sYou: What should I eat after a workout?%s\n", data.RoleUserColor, data.ResetSeq)
		fmt.Printf("%sFitBot: Protein and carbs within two hours. Try Greek yogurt with a banana!%s\n", data.RoleAssistantColor, data.ResetSeq)
		fmt.Printf("Levels: %s %s %s\n", difficultyColor("beginner"), difficultyColor("intermediate"), difficultyColor("advanced"))
		fmt.Printf("Goal:   %s\n", progressBar(65, 20))
		fmt.Printf("%sSuccess: Workout logged.%s\n", data.StatusSuccessColor, data.ResetSeq)
		fmt.Printf("%sError: %s%s\n", data.StatusErrorColor, "Sorry, I'm having trouble connecting right now.", data.ResetSeq)
		return nil
	},
}
