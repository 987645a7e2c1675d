package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
)

// compactStyleJSON strips glamour's block margins so notes fit inside forms.
const compactStyleJSON = `{
  "document": {"margin": 0},
  "paragraph": {"margin": 0},
  "heading": {"margin": 0},
  "h1": {"margin": 0},
  "h2": {"margin": 0},
  "h3": {"margin": 0},
  "list": {"margin": 0},
  "code_block": {"margin": 0}
}`

// NewMarkdownRenderer builds a glamour renderer wrapped to width.
// compact drops block margins.
func NewMarkdownRenderer(width int, compact bool) *glamour.TermRenderer {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	}
	if compact {
		opts = append(opts, glamour.WithStylesFromJSONBytes([]byte(compactStyleJSON)))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		r, _ = glamour.NewTermRenderer(glamour.WithAutoStyle())
	}
	return r
}

// RenderMarkdown renders md, returning it unchanged if rendering fails.
func RenderMarkdown(r *glamour.TermRenderer, md string) string {
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// GetHuhKeyMap makes enter submit text fields and disables the external editor.
func GetHuhKeyMap() *huh.KeyMap {
	keyMap := huh.NewDefaultKeyMap()
	keyMap.Text.Submit = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit"))
	keyMap.Text.NewLine.SetHelp("ctrl+j", "new line")
	keyMap.Text.Editor = key.NewBinding(key.WithDisabled())
	return keyMap
}

// GetNewLineKeyBinding returns a key binding for inserting a newline
func GetNewLineKeyBinding() key.Binding {
	return key.NewBinding(key.WithKeys("ctrl+j"), key.WithHelp("ctrl+j", "insert newline"))
}

// onCursorUpdate re-evaluates a dynamic note whenever the hovered option changes.
type onCursorUpdate struct {
	Field interface{ Hovered() (string, bool) }
}

func (u onCursorUpdate) Hash() (uint64, error) {
	val, ok := u.Field.Hovered()
	if !ok {
		return 0, nil
	}
	h := uint64(0)
	for _, c := range val {
		h = h*31 + uint64(c)
	}
	return h, nil
}

func clampHeight(lines, min, max int) int {
	h := lines + 2
	if h < min {
		return min
	}
	if h > max {
		return max
	}
	return h
}

// GetStaticHuhNote renders description as markdown inside a note.
func GetStaticHuhNote(title string, description string) *huh.Note {
	renderer := NewMarkdownRenderer(WrapWidth(), true)
	note := huh.NewNote()
	if strings.TrimSpace(title) != "" {
		note = note.Title(title)
	}
	rendered := RenderMarkdown(renderer, description)
	note.Description(rendered)
	note.Height(clampHeight(strings.Count(rendered, "\n")+1, 5, 20))
	return note
}

// GetDynamicHuhNote describes whatever option of ms is hovered.
func GetDynamicHuhNote(title string, ms *huh.MultiSelect[string], descFunc func(string) string) *huh.Note {
	renderer := NewMarkdownRenderer(WrapWidth(), true)
	note := huh.NewNote()
	if strings.TrimSpace(title) != "" {
		note = note.Title(title)
	}
	note.DescriptionFunc(func() string {
		hovered, _ := ms.Hovered()
		rendered := RenderMarkdown(renderer, descFunc(hovered))
		note.Height(clampHeight(strings.Count(rendered, "\n")+1, 5, 15))
		return rendered
	}, onCursorUpdate{ms})
	return note
}
