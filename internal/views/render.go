package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

type AppData struct {
	Theme         string
	Header        string
	Progress      string
	LeftPane      string
	RightPane     string
	Overlay       string
	StatusLine    string
	StatusIsError bool
	Footer        string
}

type palette struct {
	accent lipgloss.Color
	ok     lipgloss.Color
	err    lipgloss.Color
	muted  lipgloss.Color
	border lipgloss.Color
}

var palettes = map[string]palette{
	ThemeDark:  {accent: "12", ok: "10", err: "9", muted: "8", border: "240"},
	ThemeLight: {accent: "4", ok: "2", err: "1", muted: "244", border: "250"},
}

func paletteFor(theme string) palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[ThemeDark]
}

func RenderApp(data AppData) string {
	p := paletteFor(data.Theme)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	statusStyle := lipgloss.NewStyle().Foreground(p.ok)
	errorStyle := lipgloss.NewStyle().Foreground(p.err)
	panelStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(0, 1)
	footerStyle := lipgloss.NewStyle().Foreground(p.muted)

	left := panelStyle.Width(62).Render(data.LeftPane)
	right := panelStyle.Width(44).Render(data.RightPane)
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	header := headerStyle.Render(data.Header)
	if data.Progress != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", footerStyle.Render(data.Progress))
	}
	lines := []string{header, row}
	if data.Overlay != "" {
		lines = append(lines, panelStyle.BorderForeground(p.accent).Render(data.Overlay))
	}
	if data.StatusLine != "" {
		if data.StatusIsError {
			lines = append(lines, errorStyle.Render("error: "+data.StatusLine))
		} else {
			lines = append(lines, statusStyle.Render(data.StatusLine))
		}
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders task descriptions. Unknown themes use the dark style.
func RenderMarkdown(md, theme string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	style := ThemeDark
	if theme == ThemeLight {
		style = ThemeLight
	}
	out, err := glamour.Render(md, style)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
