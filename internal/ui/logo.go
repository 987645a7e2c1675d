package ui

import (
	"fmt"
	"strings"

	"github.com/superstarryeyes/bit/ansifonts"
)

const (
	LogoFont = "8bitfortress"
	LogoText = "FITBOT"
)

func renderLogo(textColor, gradientColor string, scale float64) ([]string, error) {
	font, err := ansifonts.LoadFont(LogoFont)
	if err != nil {
		return nil, fmt.Errorf("failed to load logo font: %w", err)
	}
	options := ansifonts.RenderOptions{
		CharSpacing:       2,
		WordSpacing:       2,
		LineSpacing:       1,
		TextColor:         textColor,
		GradientColor:     gradientColor,
		UseGradient:       true,
		GradientDirection: ansifonts.LeftRight,
		Alignment:         ansifonts.LeftAlign,
		ScaleFactor:       scale,
		ShadowStyle:       ansifonts.MediumShade,
	}
	return ansifonts.RenderTextWithOptions(LogoText, font, options), nil
}

// GetLogo returns the banner, or "" if the font is unavailable.
func GetLogo(textColor string, gradientColor string, scale float64) string {
	lines, err := renderLogo(textColor, gradientColor, scale)
	if err != nil {
		return ""
	}
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line + "\n")
	}
	return sb.String()
}
