// Package theme holds the colors and lipgloss styles of the interface.
// The palette is chosen by name from the display.theme setting.
package theme

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskgenius/internal/model"
)

// Palette assigns an adaptive color (dark terminal value, light terminal
// value) to every role used by the styles.
type Palette struct {
	Accent    lipgloss.AdaptiveColor // headers, selection, To Do
	Success   lipgloss.AdaptiveColor // Done, info notices
	Warning   lipgloss.AdaptiveColor // Medium priority, input labels
	Danger    lipgloss.AdaptiveColor // High priority, overdue, alerts
	Attention lipgloss.AdaptiveColor // Foreman, connectivity, alert comments
	Highlight lipgloss.AdaptiveColor // Owner
	Muted     lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Subtle    lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
}

// DefaultTheme is used when the setting is empty.
const DefaultTheme = "default"

var palettes = map[string]Palette{
	DefaultTheme: {
		Accent:    lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"},
		Success:   lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"},
		Warning:   lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"},
		Danger:    lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"},
		Attention: lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"},
		Highlight: lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"},
		Muted:     lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"},
		Text:      lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"},
		Subtle:    lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"},
		Border:    lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"},
	},
	// site is a warm palette readable in direct sunlight.
	"site": {
		Accent:    lipgloss.AdaptiveColor{Dark: "#F4A261", Light: "#9C4A00"},
		Success:   lipgloss.AdaptiveColor{Dark: "#2A9D8F", Light: "#1D6B61"},
		Warning:   lipgloss.AdaptiveColor{Dark: "#E9C46A", Light: "#8A6D00"},
		Danger:    lipgloss.AdaptiveColor{Dark: "#E76F51", Light: "#A4161A"},
		Attention: lipgloss.AdaptiveColor{Dark: "#F77F00", Light: "#B35C00"},
		Highlight: lipgloss.AdaptiveColor{Dark: "#E5989B", Light: "#7B2D26"},
		Muted:     lipgloss.AdaptiveColor{Dark: "#A8A29E", Light: "#57534E"},
		Text:      lipgloss.AdaptiveColor{Dark: "#FAFAF9", Light: "#1C1917"},
		Subtle:    lipgloss.AdaptiveColor{Dark: "#44403C", Light: "#D6D3D1"},
		Border:    lipgloss.AdaptiveColor{Dark: "#57534E", Light: "#A8A29E"},
	},
	// mono keeps to grays; state is carried by bold, italics and marks.
	"mono": {
		Accent:    lipgloss.AdaptiveColor{Dark: "#FFFFFF", Light: "#000000"},
		Success:   lipgloss.AdaptiveColor{Dark: "#BBBBBB", Light: "#444444"},
		Warning:   lipgloss.AdaptiveColor{Dark: "#DDDDDD", Light: "#222222"},
		Danger:    lipgloss.AdaptiveColor{Dark: "#FFFFFF", Light: "#000000"},
		Attention: lipgloss.AdaptiveColor{Dark: "#DDDDDD", Light: "#222222"},
		Highlight: lipgloss.AdaptiveColor{Dark: "#FFFFFF", Light: "#000000"},
		Muted:     lipgloss.AdaptiveColor{Dark: "#888888", Light: "#777777"},
		Text:      lipgloss.AdaptiveColor{Dark: "#EEEEEE", Light: "#111111"},
		Subtle:    lipgloss.AdaptiveColor{Dark: "#444444", Light: "#CCCCCC"},
		Border:    lipgloss.AdaptiveColor{Dark: "#666666", Light: "#999999"},
	},
}

// Colors of the active palette.
var (
	ColorAccent    lipgloss.AdaptiveColor
	ColorSuccess   lipgloss.AdaptiveColor
	ColorWarning   lipgloss.AdaptiveColor
	ColorDanger    lipgloss.AdaptiveColor
	ColorAttention lipgloss.AdaptiveColor
	ColorHighlight lipgloss.AdaptiveColor
	ColorMuted     lipgloss.AdaptiveColor
	ColorText      lipgloss.AdaptiveColor
	ColorSubtle    lipgloss.AdaptiveColor
	ColorBorder    lipgloss.AdaptiveColor
)

// Styles of the active palette, rebuilt by Apply.
var (
	// HeaderStyle is the top bar.
	HeaderStyle lipgloss.Style
	// StatusBarStyle is the bottom bar.
	StatusBarStyle lipgloss.Style
	// DetailPanelStyle wraps panels and overlays.
	DetailPanelStyle lipgloss.Style
	ListItemStyle    lipgloss.Style
	// SelectedItemStyle marks the focused list row.
	SelectedItemStyle lipgloss.Style
	// HelpStyle is for key hints.
	HelpStyle   lipgloss.Style
	BorderStyle lipgloss.Style
	// DimmedStyle renders completed tasks.
	DimmedStyle  lipgloss.Style
	OverdueStyle lipgloss.Style
	DueDateStyle lipgloss.Style
	// AlertCommentStyle marks comments flagged as alerts.
	AlertCommentStyle lipgloss.Style
)

func init() {
	if err := Apply(DefaultTheme); err != nil {
		panic(err)
	}
}

// Names returns the available palette names in sorted order.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Apply makes the named palette active. An empty name selects the default.
// An unknown name leaves the active palette unchanged.
func Apply(name string) error {
	if name == "" {
		name = DefaultTheme
	}
	p, ok := palettes[name]
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, Names())
	}

	ColorAccent = p.Accent
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorDanger = p.Danger
	ColorAttention = p.Attention
	ColorHighlight = p.Highlight
	ColorMuted = p.Muted
	ColorText = p.Text
	ColorSubtle = p.Subtle
	ColorBorder = p.Border

	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorText).Background(ColorAccent).Padding(0, 1)
	StatusBarStyle = lipgloss.NewStyle().Foreground(ColorText).Background(ColorSubtle).Padding(0, 1)
	DetailPanelStyle = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder()).BorderForeground(ColorBorder)
	ListItemStyle = lipgloss.NewStyle().PaddingLeft(2)
	SelectedItemStyle = lipgloss.NewStyle().
		PaddingLeft(1).
		Bold(true).
		Foreground(ColorAccent).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(ColorAccent)
	HelpStyle = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	BorderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorBorder)
	DimmedStyle = lipgloss.NewStyle().Foreground(ColorMuted).Strikethrough(true)
	OverdueStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
	DueDateStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	AlertCommentStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAttention)
	return nil
}

// StatusStyle returns a color-coded style for a task status label.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.StatusToDo:
		return base.Foreground(ColorAccent)
	case model.StatusDone:
		return base.Foreground(ColorSuccess)
	default:
		return base.Foreground(ColorMuted)
	}
}

// PriorityStyle returns a color-coded style for the given priority.
func PriorityStyle(p model.Priority) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch p {
	case model.PriorityHigh:
		return base.Foreground(ColorDanger)
	case model.PriorityMedium:
		return base.Foreground(ColorWarning)
	case model.PriorityLow:
		return base.Foreground(ColorAccent)
	default:
		return base.Foreground(ColorMuted)
	}
}

// RoleStyle colors a user role label.
func RoleStyle(role string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch role {
	case model.RoleOwner:
		return base.Foreground(ColorHighlight)
	case model.RoleForeman:
		return base.Foreground(ColorAttention)
	default:
		return base.Foreground(ColorMuted)
	}
}

// NoticeStyle returns the status bar style for a notice.
func NoticeStyle(kind model.NoticeKind) lipgloss.Style {
	switch kind {
	case model.NoticeAlert:
		return StatusBarStyle.Background(ColorDanger)
	case model.NoticeConnectivity:
		return StatusBarStyle.Background(ColorAttention)
	default:
		return StatusBarStyle.Background(ColorSuccess)
	}
}
