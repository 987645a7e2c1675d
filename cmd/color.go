package cmd

import (
	"fmt"
	"strings"

	"github.com/activebook/fitbot/data"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
)

var (
	// Functional colors using SprintFunc
	highlightColor func(a ...interface{}) string
	sectionColor   func(a ...interface{}) string
	keyColor       func(a ...interface{}) string

	// Helper colors
	greenColor  func(a ...interface{}) string
	yellowColor func(a ...interface{}) string
	redColor    func(a ...interface{}) string
	grayColor   func(a ...interface{}) string
)

func init() {
	setupColors()
}

func setupColors() {
	p := termenv.ColorProfile()

	style := func(color string, bold bool) func(a ...interface{}) string {
		return func(a ...interface{}) string {
			s := termenv.String(fmt.Sprint(a...)).Foreground(p.Color(color))
			if bold {
				s = s.Bold()
			}
			return s.String()
		}
	}

	if p == termenv.TrueColor {
		highlightColor = style("#00FF7F", true)
		sectionColor = style("#00CED1", true)
		keyColor = style("#FF69B4", true)
		greenColor = style("#00FF00", false)
		yellowColor = style("#FFD700", false)
		redColor = style("#FF6347", false)
		grayColor = style("#808080", false)
		return
	}

	// Fallback to fatih/color for consistent basic/256 output
	if p >= termenv.ANSI256 {
		highlightColor = color.New(color.FgHiGreen, color.Bold).SprintFunc()
		sectionColor = color.New(color.FgHiCyan, color.Bold).SprintFunc()
		keyColor = color.New(color.FgHiMagenta, color.Bold).SprintFunc()
	} else {
		highlightColor = color.New(color.FgGreen, color.Bold).SprintFunc()
		sectionColor = color.New(color.FgCyan, color.Bold).SprintFunc()
		keyColor = color.New(color.FgMagenta, color.Bold).SprintFunc()
	}
	greenColor = color.New(color.FgGreen).SprintFunc()
	yellowColor = color.New(color.FgYellow).SprintFunc()
	redColor = color.New(color.FgRed).SprintFunc()
	grayColor = color.New(color.FgHiBlack).SprintFunc()
}

// difficultyColor colors a fitness level the way the theme does.
func difficultyColor(level string) string {
	c := data.AdvancedColor
	switch level {
	case "beginner":
		c = data.BeginnerColor
	case "intermediate":
		c = data.IntermediateColor
	}
	return c + level + data.ResetSeq
}

// progressBar renders pct (0..100) as a bar of width cells with a trailing percentage.
func progressBar(pct float64, width int) string {
	pct = max(0, min(pct, 100))
	full := int(pct / 100 * float64(width))
	p := termenv.ColorProfile()
	bar := termenv.String(strings.Repeat("█", full)).Foreground(p.Color(data.BarFullHex)).String() +
		termenv.String(strings.Repeat("░", width-full)).Foreground(p.Color(data.BarEmptyHex)).String()
	return fmt.Sprintf("%s %3.0f%%", bar, pct)
}

// ratioColor is green under 90% of target, yellow up to 100%, red beyond.
func ratioColor(value, target float64) func(a ...interface{}) string {
	if target <= 0 {
		return grayColor
	}
	switch r := value / target; {
	case r > 1:
		return redColor
	case r >= 0.9:
		return yellowColor
	default:
		return greenColor
	}
}
