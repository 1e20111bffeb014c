package colorscheme

import (
	"os"
	"strconv"
	"strings"
)

const (
	detectorNameGTK = "GTK_THEME"
	priorityGTK     = 20

	detectorNameColorFGBG = "COLORFGBG"
	priorityColorFGBG     = 10

	detectorNameFixed = "fixed"
	priorityFixed     = 100
)

// GTKThemeDetector detects the color scheme from the GTK_THEME
// environment variable. Useful when users explicitly set their theme
// via environment.
type GTKThemeDetector struct{}

func (GTKThemeDetector) Name() string  { return detectorNameGTK }
func (GTKThemeDetector) Priority() int { return priorityGTK }

func (GTKThemeDetector) Available() bool {
	return os.Getenv("GTK_THEME") != ""
}

// Detect checks if GTK_THEME contains "dark" (case-insensitive).
func (GTKThemeDetector) Detect() (prefersDark, ok bool) {
	gtkTheme := os.Getenv("GTK_THEME")
	if gtkTheme == "" {
		return false, false
	}
	return strings.Contains(strings.ToLower(gtkTheme), "dark"), true
}

// ColorFGBGDetector infers the scheme from the COLORFGBG variable set
// by several terminal emulators: the last field is the background
// color index, and low indices are dark backgrounds.
type ColorFGBGDetector struct{}

func (ColorFGBGDetector) Name() string  { return detectorNameColorFGBG }
func (ColorFGBGDetector) Priority() int { return priorityColorFGBG }

func (ColorFGBGDetector) Available() bool {
	return os.Getenv("COLORFGBG") != ""
}

func (ColorFGBGDetector) Detect() (prefersDark, ok bool) {
	parts := strings.Split(os.Getenv("COLORFGBG"), ";")
	if len(parts) < 2 {
		return false, false
	}
	bg, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return false, false
	}
	return bg <= 6, true
}

// FixedDetector always reports a configured preference. It backs the
// config-level scheme override and test setups.
type FixedDetector struct {
	Dark bool
}

func (FixedDetector) Name() string  { return detectorNameFixed }
func (FixedDetector) Priority() int { return priorityFixed }

func (FixedDetector) Available() bool { return true }

func (f FixedDetector) Detect() (prefersDark, ok bool) { return f.Dark, true }
