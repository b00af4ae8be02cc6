package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Accent     = lipgloss.Color("#38BDF8")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Yellow     = lipgloss.Color("#F59E0B")
	Red        = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Accent)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Yellow)
)

// Tab styles for the view switcher
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(SlateLight).
			Bold(true).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(DimGray).
				Padding(0, 1)
)

// Health indicator characters (unstyled)
const (
	HealthChar  = "●"
	SyncingChar = "◐"
	WarnChar    = "▲"
)

// Pre-rendered health indicators
var (
	HealthGreenDot  = lipgloss.NewStyle().Foreground(Green).Render(HealthChar)
	HealthYellowDot = lipgloss.NewStyle().Foreground(Yellow).Render(HealthChar)
	HealthRedDot    = lipgloss.NewStyle().Foreground(Red).Render(HealthChar)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Accent)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Progress bar styles
var (
	ProgressFullStyle = lipgloss.NewStyle().
				Foreground(Accent)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(DimGray)
)

// Filter styles
var (
	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Accent).
				Bold(true)

	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(Accent).
				Bold(true)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Accent)

	SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
)

// Timeline load shading
var (
	LoadEmptyStyle = lipgloss.NewStyle().Foreground(DimGray)
	LoadLowStyle   = lipgloss.NewStyle().Foreground(Green)
	LoadHighStyle  = lipgloss.NewStyle().Foreground(Accent)
	LoadOverStyle  = lipgloss.NewStyle().Foreground(Red).Bold(true)
)

// Helper functions

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// Pad pads a string to the given width
func Pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return s + spaces(width-len(runes))
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// RenderProgressBar renders a progress bar
func RenderProgressBar(percent float64, width int) string {
	if width < 3 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}

	bar := ""
	for i := 0; i < filled; i++ {
		bar += ProgressFullStyle.Render("█")
	}
	for i := filled; i < width; i++ {
		bar += ProgressEmptyStyle.Render("░")
	}

	return bar
}
