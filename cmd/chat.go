package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/activebook/fitbot/data"
	"github.com/activebook/fitbot/internal/ui"
	"github.com/activebook/fitbot/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	chatEndpoint string
	chatSave     string
	chatResume   string
)

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatEndpoint, "endpoint", "e", "", "Reply service URL (overrides chat.endpoint)")
	chatCmd.Flags().StringVarP(&chatSave, "save", "s", "", "Save the conversation under this name when the chat ends")
	chatCmd.Flags().StringVarP(&chatResume, "resume", "r", "", "Continue a saved conversation")
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with your AI fitness coach",
	Long: `Open the coach chat. Replies stream in as they are written; the input is
disabled until the current reply finishes.

Before your first message, press 1-3 to send one of the quick questions.
Start the reply service with 'fitbot serve' or point --endpoint at your own.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.IsInteractive() {
			return fmt.Errorf("chat needs an interactive terminal, use 'fitbot ask' instead")
		}

		settings := data.NewConfigStore().GetChatSettings()
		if chatEndpoint != "" {
			settings.Endpoint = chatEndpoint
		}

		convo, err := openConversation()
		if err != nil {
			return err
		}
		name := chatSave
		if name == "" {
			name = chatResume
		}

		restoreLogs, err := quietLogs()
		if err != nil {
			return err
		}
		defer restoreLogs()

		transport := service.NewHTTPTransport(settings.Endpoint, settings.HeaderTimeout)
		assembler := service.NewAssembler(convo, transport, nil)
		model := NewChatModel(cmd.Context(), assembler, settings.Endpoint)
		defer model.Close()

		service.Debugf("Chat started against %s", settings.Endpoint)
		if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		model.Close()

		if name != "" {
			return saveConversation(convo, name)
		}
		return nil
	},
}

// openConversation resumes a saved chat or starts a fresh one with the greeting.
func openConversation() (*service.Conversation, error) {
	if chatResume != "" {
		t, err := data.NewConversationStore().Load(chatResume)
		if err != nil {
			return nil, err
		}
		return service.Restore(t)
	}
	p, err := loadProfile()
	if err != nil {
		service.Warnf("Failed to load profile: %v", err)
	}
	return service.NewChat(p), nil
}

func saveConversation(convo *service.Conversation, name string) error {
	store := data.NewConversationStore()
	if err := store.Save(convo.Transcript(name)); err != nil {
		return fmt.Errorf("failed to save conversation '%s': %w", name, err)
	}
	fmt.Printf("Conversation saved as '%s'.\n", name)
	return nil
}

// quietLogs keeps log lines from tearing the full-screen view. With --debug
// they go to a file in the config directory instead.
func quietLogs() (func(), error) {
	if !debugMode {
		service.SetLogOutput(io.Discard)
		return func() { service.SetLogOutput(os.Stderr) }, nil
	}
	path := filepath.Join(data.GetConfigDir(), "chat-debug.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	service.SetLogOutput(f)
	fmt.Fprintf(f, "--- chat %s ---\n", time.Now().Format(time.RFC3339))
	return func() {
		service.SetLogOutput(os.Stderr)
		f.Close()
		fmt.Printf("Debug log written to %s\n", path)
	}, nil
}
