package styles

import (
	"image/color"
	"os"

	"charm.land/lipgloss/v2"

	"github.com/repops/repops/internal/config"
)

// Theme defines the color palette for UI components
type Theme struct {
	Primary color.Color // table headers, progress bar start
	Accent  color.Color // progress bar end
	Success color.Color // succeeded steps
	Error   color.Color // failed steps
	Muted   color.Color // steps that never ran
	Normal  color.Color // standard text
	Warning color.Color // warnings
}

// themeFamily groups light and dark variants of a theme
type themeFamily struct {
	Light *Theme // nil if no light variant
	Dark  *Theme // nil if no dark variant
}

// Preset themes
var (
	// DefaultTheme is the default color scheme (dark only)
	DefaultTheme = Theme{
		Primary: lipgloss.Color("62"),  // cyan/teal
		Accent:  lipgloss.Color("212"), // pink/magenta
		Success: lipgloss.Color("82"),  // green
		Error:   lipgloss.Color("196"), // red
		Muted:   lipgloss.Color("240"), // dark gray
		Normal:  lipgloss.Color("252"), // light gray
		Warning: lipgloss.Color("214"), // orange
	}

	// DraculaTheme is based on the Dracula color scheme (dark only)
	DraculaTheme = Theme{
		Primary: lipgloss.Color("#bd93f9"), // purple
		Accent:  lipgloss.Color("#ff79c6"), // pink
		Success: lipgloss.Color("#50fa7b"), // green
		Error:   lipgloss.Color("#ff5555"), // red
		Muted:   lipgloss.Color("#6272a4"), // comment
		Normal:  lipgloss.Color("#f8f8f2"), // foreground
		Warning: lipgloss.Color("#ffb86c"), // orange
	}

	// NordTheme is based on the Nord color scheme (dark)
	NordTheme = Theme{
		Primary: lipgloss.Color("#88c0d0"), // nord8
		Accent:  lipgloss.Color("#b48ead"), // nord15
		Success: lipgloss.Color("#a3be8c"), // nord14
		Error:   lipgloss.Color("#bf616a"), // nord11
		Muted:   lipgloss.Color("#4c566a"), // nord3
		Normal:  lipgloss.Color("#eceff4"), // nord6
		Warning: lipgloss.Color("#ebcb8b"), // nord13
	}

	// NordLightTheme is based on the Nord color scheme (light)
	NordLightTheme = Theme{
		Primary: lipgloss.Color("#5e81ac"), // nord10
		Accent:  lipgloss.Color("#b48ead"), // nord15
		Success: lipgloss.Color("#a3be8c"), // nord14
		Error:   lipgloss.Color("#bf616a"), // nord11
		Muted:   lipgloss.Color("#9a9a9a"), // gray
		Normal:  lipgloss.Color("#2e3440"), // nord0
		Warning: lipgloss.Color("#d08770"), // nord12
	}

	// NoneTheme renders without any colors (uses terminal defaults)
	// Formatting (bold/underline) is preserved
	NoneTheme = Theme{
		Primary: lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Muted:   lipgloss.NoColor{},
		Normal:  lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
	}
)

// themeFamilies maps theme family names to their light/dark variants.
// Keys match config.ValidThemeNames.
var themeFamilies = map[string]themeFamily{
	"none":    {Light: &NoneTheme, Dark: &NoneTheme},
	"default": {Dark: &DefaultTheme},
	"dracula": {Dark: &DraculaTheme},
	"nord":    {Light: &NordLightTheme, Dark: &NordTheme},
}

// currentTheme holds the active theme
var currentTheme = DefaultTheme

// Current returns the current theme
func Current() Theme {
	return currentTheme
}

// Init initializes the theme from settings.
// Call this after loading settings and before displaying any UI.
// Names and modes were validated when the settings were loaded.
func Init(cfg config.ThemeConfig) {
	currentTheme = selectTheme(cfg, func() bool {
		return lipgloss.HasDarkBackground(os.Stdin, os.Stderr)
	})
	applyTheme(currentTheme)
	SetNerdfont(cfg.Nerdfont)
}

// selectTheme picks the variant for cfg. isDark is only consulted in auto
// mode.
func selectTheme(cfg config.ThemeConfig, isDark func() bool) Theme {
	family, ok := themeFamilies[cfg.Name]
	if !ok {
		family = themeFamilies["default"]
	}

	var theme *Theme
	switch cfg.Mode {
	case "light":
		theme = family.Light
	case "dark":
		theme = family.Dark
	default:
		if isDark() {
			theme = family.Dark
		} else {
			theme = family.Light
		}
	}

	// Fall back if the requested variant doesn't exist
	if theme == nil {
		if family.Dark != nil {
			theme = family.Dark
		} else {
			theme = family.Light
		}
	}
	return *theme
}

// applyTheme updates all global style variables to use the given theme
func applyTheme(t Theme) {
	Primary = t.Primary
	Accent = t.Accent
	Success = t.Success
	Error = t.Error
	Muted = t.Muted
	Normal = t.Normal
	Warning = t.Warning

	PrimaryStyle = lipgloss.NewStyle().Foreground(t.Primary)
	SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	ErrorStyle = lipgloss.NewStyle().Foreground(t.Error)
	MutedStyle = lipgloss.NewStyle().Foreground(t.Muted)
	NormalStyle = lipgloss.NewStyle().Foreground(t.Normal)
	WarningStyle = lipgloss.NewStyle().Foreground(t.Warning)
}
