package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/activebook/fitbot/data"
	"github.com/activebook/fitbot/internal/ui"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var convoMessageLength int

func init() {
	rootCmd.AddCommand(convoCmd)
	convoCmd.AddCommand(convoListCmd)
	convoCmd.AddCommand(convoShowCmd)
	convoCmd.AddCommand(convoRemoveCmd)
	convoRemoveCmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")
	convoShowCmd.Flags().IntVarP(&convoMessageLength, "length", "l", 0, "Truncate each message to this many characters (0 for full text)")
}

// convoCmd represents the convo command
var convoCmd = &cobra.Command{
	Use:     "convo",
	Aliases: []string{"cv", "conversation"},
	Short:   "Manage saved chats",
	Long:    `Commands to list, remove, and show chats saved with 'fitbot chat --save'.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return convoListCmd.RunE(cmd, args)
	},
}

var convoListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved chats, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := data.NewConversationStore().List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No conversations found.")
			return nil
		}
		fmt.Println("Saved conversations:")
		for i, name := range names {
			fmt.Printf("  - [%d] %s\n", i+1, name)
		}
		return nil
	},
}

// resolveConvoNames turns a name, 1-based index, range (2-5) or glob into names.
func resolveConvoNames(pattern string, names []string) ([]string, error) {
	if i, err := strconv.Atoi(pattern); err == nil {
		if i < 1 || i > len(names) {
			return nil, fmt.Errorf("index %d out of range (1-%d)", i, len(names))
		}
		return []string{names[i-1]}, nil
	}

	if parts := strings.Split(strings.ReplaceAll(pattern, " ", ""), "-"); len(parts) == 2 {
		start, err1 := strconv.Atoi(parts[0])
		end, err2 := strconv.Atoi(parts[1])
		if err1 == nil && err2 == nil {
			if start < 1 || end > len(names) || start > end {
				return nil, fmt.Errorf("range %d-%d out of range (1-%d)", start, end, len(names))
			}
			return append([]string(nil), names[start-1:end]...), nil
		}
	}

	var matches []string
	for _, name := range names {
		ok, err := filepath.Match(pattern, name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pattern: %w", err)
		}
		if ok {
			matches = append(matches, name)
		}
	}
	return matches, nil
}

var convoShowCmd = &cobra.Command{
	Use:   "show <name|index>",
	Short: "Print a saved chat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := data.NewConversationStore()
		names, err := store.List()
		if err != nil {
			return err
		}
		name := args[0]
		if !store.Exists(name) {
			matches, err := resolveConvoNames(name, names)
			if err != nil {
				return err
			}
			if len(matches) != 1 {
				return fmt.Errorf("conversation '%s' not found", name)
			}
			name = matches[0]
		}

		t, err := store.Load(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s\n\n", sectionColor(t.Name), grayColor("saved "+t.SavedAt.Format("Jan 2 15:04")))
		md := ui.NewMarkdownRenderer(ui.WrapWidth(), false)
		for _, turn := range t.Turns {
			content := turn.Content
			if convoMessageLength > 0 && len([]rune(content)) > convoMessageLength {
				content = string([]rune(content)[:convoMessageLength]) + "..."
			}
			stamp := grayColor(turn.CreatedAt.Format(timeLayout))
			switch {
			case turn.Role == "user":
				fmt.Printf("%sYou%s %s\n%s\n\n", data.RoleUserColor, data.ResetSeq, stamp, content)
			case turn.Failed:
				fmt.Printf("%sFitBot%s %s\n%s%s%s\n\n", data.RoleAssistantColor, data.ResetSeq, stamp, data.StatusErrorColor, content, data.ResetSeq)
			default:
				fmt.Printf("%sFitBot%s %s\n%s\n\n", data.RoleAssistantColor, data.ResetSeq, stamp, ui.RenderMarkdown(md, content))
			}
		}
		return nil
	},
}

var convoRemoveCmd = &cobra.Command{
	Use:     "remove [name|index|range|pattern]",
	Aliases: []string{"rm"},
	Short:   "Remove saved chats",
	Long: `Remove a saved chat by name or index, a range of them, or every chat
matching a wildcard pattern. Without arguments, pick them from a list.

Examples:
fitbot convo rm leg-day
fitbot convo rm 2
fitbot convo rm 3-5 --force
fitbot convo rm "week*"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := data.NewConversationStore()
		names, err := store.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No conversations found.")
			return nil
		}

		var matches []string
		if len(args) == 0 {
			var options []huh.Option[string]
			for _, n := range names {
				options = append(options, huh.NewOption(n, n))
			}
			err := huh.NewMultiSelect[string]().
				Title("Select Conversations to Remove").
				Options(options...).
				Value(&matches).
				Run()
			if err != nil || len(matches) == 0 {
				fmt.Println("Operation cancelled.")
				return nil
			}
		} else if store.Exists(args[0]) {
			matches = []string{args[0]}
		} else if matches, err = resolveConvoNames(args[0], names); err != nil {
			return err
		}

		if len(matches) == 0 {
			fmt.Printf("No conversations found matching '%s'.\n", args[0])
			return nil
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Println("The following conversations will be removed:")
			for _, m := range matches {
				fmt.Printf("  - %s\n", m)
			}
			ok, err := confirm(fmt.Sprintf("Remove %d conversation(s)?", len(matches)), "This cannot be undone.", false)
			if err != nil || !ok {
				fmt.Println("Operation cancelled.")
				return nil
			}
		}

		for _, m := range matches {
			if err := store.Delete(m); err != nil {
				fmt.Printf("Failed to remove '%s': %v\n", m, err)
			} else {
				fmt.Printf("Conversation '%s' removed successfully.\n", m)
			}
		}
		return nil
	},
}
