package data

import (
	"fmt"
	"sort"

	"github.com/muesli/termenv"
	goghthemes "github.com/willyv3/gogh-themes"
)

const (
	DefaultThemeName string = "Dracula"

	// Formatting Utilities
	BoldSeq      string = "\033[1m"
	UnderlineSeq string = "\033[4m"
	ResetSeq     string = "\033[0m"
)

var (
	// Current Theme Name
	CurrentThemeName string = DefaultThemeName
	CurrentTheme     goghthemes.Theme

	// --- Semantic Color Variables (Exported) ---

	// Roles
	RoleUserColor      string
	RoleAssistantColor string

	// Status
	StatusErrorColor   string
	StatusSuccessColor string
	StatusWarnColor    string
	StatusInfoColor    string

	// Difficulty badges
	BeginnerColor     string
	IntermediateColor string
	AdvancedColor     string

	// UI & Interactive
	SwitchOnColor     string
	TaskCompleteColor string
	SectionColor      string
	KeyColor          string
	HighlightColor    string
	LabelColor        string
	DetailColor       string

	// Hex Codes (for lipgloss or other UI libs)
	UserHex       string
	AssistantHex  string
	BorderHex     string
	SectionHex    string
	KeyHex        string
	LabelHex      string
	DetailHex     string
	SpinnerHex    string
	BackgroundHex string
	ErrorHex      string
	BarFullHex    string
	BarEmptyHex   string
)

// init initializes the default theme.
func init() {
	// Config is not loaded yet when init() runs; cmd reloads the configured theme later.
	LoadTheme(DefaultThemeName)
}

// LoadTheme loads a theme by name from gogh-themes and updates all color variables.
func LoadTheme(name string) error {
	if name == "" {
		name = DefaultThemeName
	}

	theme, ok := goghthemes.Get(name)
	if !ok {
		return fmt.Errorf("theme '%s' not found", name)
	}

	CurrentThemeName = name
	CurrentTheme = theme
	applyTheme(theme)
	return nil
}

// applyTheme maps the Gogh theme colors to our semantic variables.
func applyTheme(t goghthemes.Theme) {
	p := termenv.ColorProfile()

	// Helper to convert hex to ANSI sequence
	toAnsi := func(hex string) string {
		if hex == "" {
			return ""
		}
		c := p.Color(hex)
		return fmt.Sprintf("%s%sm", termenv.CSI, c.Sequence(false))
	}

	// 1. Roles
	RoleUserColor = toAnsi(t.Green)
	RoleAssistantColor = toAnsi(t.Blue)

	// 2. Status
	StatusErrorColor = toAnsi(t.Red)
	StatusSuccessColor = toAnsi(t.Green)
	StatusWarnColor = toAnsi(t.Yellow)
	StatusInfoColor = toAnsi(t.Blue)

	// 3. Difficulty (traffic light, as on the workout cards)
	BeginnerColor = toAnsi(t.Green)
	IntermediateColor = toAnsi(t.Yellow)
	AdvancedColor = toAnsi(t.Red)

	// 4. UI
	SwitchOnColor = toAnsi(t.BrightGreen)
	TaskCompleteColor = toAnsi(t.BrightGreen)
	SectionColor = toAnsi(t.BrightCyan)
	KeyColor = toAnsi(t.BrightMagenta)
	HighlightColor = toAnsi(t.BrightGreen)
	LabelColor = toAnsi(t.Foreground)
	DetailColor = toAnsi(t.BrightBlack)

	// 5. Hex Codes
	UserHex = t.Green
	AssistantHex = t.Blue
	BorderHex = t.Foreground
	SectionHex = t.BrightCyan
	KeyHex = t.BrightMagenta
	LabelHex = t.Foreground
	DetailHex = t.BrightBlack
	SpinnerHex = t.BrightMagenta
	BackgroundHex = t.Background
	ErrorHex = t.Red
	BarFullHex = t.Green
	BarEmptyHex = t.BrightBlack
}

// ListThemes returns a sorted list of all available theme names.
func ListThemes() []string {
	names := goghthemes.Names()
	sort.Strings(names)
	return names
}

// SaveThemeConfig persists the theme selection to the configuration file.
func SaveThemeConfig(name string) error {
	return NewConfigStore().Set(KeyTheme, name)
}
