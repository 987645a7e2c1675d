package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// TranscriptTurn is one saved chat message.
type TranscriptTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Failed    bool      `json:"failed,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Transcript is a saved chat session.
type Transcript struct {
	Name    string           `json:"name"`
	SavedAt time.Time        `json:"saved_at"`
	Turns   []TranscriptTurn `json:"turns"`
}

// ConversationStore provides file operations for saved chat transcripts.
type ConversationStore struct {
	dir string
}

// NewConversationStore creates a new ConversationStore with the default directory.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		dir: GetConvoDirPath(),
	}
}

// NewConversationStoreAt creates a ConversationStore rooted at dir.
func NewConversationStoreAt(dir string) *ConversationStore {
	return &ConversationStore{dir: dir}
}

// GetDir returns the conversation directory path.
func (c *ConversationStore) GetDir() string {
	return c.dir
}

// EnsureDir creates the conversation directory if it doesn't exist.
func (c *ConversationStore) EnsureDir() error {
	return os.MkdirAll(c.dir, 0755)
}

// List returns all transcript names (without extension), sorted by modification time (newest first).
func (c *ConversationStore) List() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read conversation directory: %w", err)
	}

	type fileInfo struct {
		name    string
		modTime int64
	}

	var files []fileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, fileInfo{
			name:    strings.TrimSuffix(entry.Name(), ".json"),
			modTime: info.ModTime().UnixNano(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime > files[j].modTime
	})

	result := make([]string, len(files))
	for i, f := range files {
		result[i] = f.name
	}
	return result, nil
}

// Load reads a transcript by name.
func (c *ConversationStore) Load(name string) (*Transcript, error) {
	raw, err := os.ReadFile(c.getPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("conversation '%s' not found", name)
		}
		return nil, fmt.Errorf("failed to read conversation: %w", err)
	}
	var t Transcript
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("invalid JSON format in conversation '%s': %w", name, err)
	}
	return &t, nil
}

// Save writes a transcript under its name.
func (c *ConversationStore) Save(t *Transcript) error {
	if t == nil || strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("transcript needs a name")
	}
	if err := c.EnsureDir(); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	return os.WriteFile(c.getPath(t.Name), raw, 0644)
}

// Delete removes a transcript file.
func (c *ConversationStore) Delete(name string) error {
	err := os.Remove(c.getPath(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// Exists checks if a transcript exists.
func (c *ConversationStore) Exists(name string) bool {
	_, err := os.Stat(c.getPath(name))
	return err == nil
}

func (c *ConversationStore) getPath(name string) string {
	safeName := sanitizeFileName(name)
	if !strings.HasSuffix(safeName, ".json") {
		safeName = safeName + ".json"
	}
	return filepath.Join(c.dir, safeName)
}

// sanitizeFileName removes or replaces characters that are not safe for file names.
func sanitizeFileName(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
