package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"fleet-dashboard/internal/model"
)

const (
	colMarker = iota
	colName
	colStatus
	colConfig
)

// TableOptions tweak RenderTable for the interactive view. The zero value
// renders a plain table without a selection.
type TableOptions struct {
	// Selected is the 1-based row to highlight; 0 highlights none.
	Selected int
	Busy     string
	Width    int
}

// RenderTable draws the node rows. fleetctl status uses it directly; the
// watch model adds a selection and the spinner frame for busy rows.
func RenderTable(rows []model.NodeRow, theme Theme, opts TableOptions) string {
	busy := opts.Busy
	if busy == "" {
		busy = "…"
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		marker := " "
		if opts.Selected == i+1 {
			marker = "›"
		}
		status := theme.Glyph(row.Badge.Icon) + " " + row.Badge.Text
		if row.Badge.Busy {
			status = busy + " transitioning"
		}
		config := row.ConfigText
		if row.ConfigError != "" {
			config = "config unavailable"
		}
		cells[i] = []string{marker, row.Name, status, config}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.BorderColor)).
		Headers("", "NODE", "STATUS", "CONFIG").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1).Foreground(theme.NormalText)
			if row == table.HeaderRow {
				return style.Bold(true).Foreground(theme.HeaderForeground)
			}
			if row < 0 || row >= len(rows) {
				return style
			}
			if opts.Selected == row+1 {
				style = style.Background(theme.SelectedBackground).Foreground(theme.SelectedForeground)
			}
			switch col {
			case colStatus:
				return style.Foreground(theme.BadgeStyle(rows[row].Badge).GetForeground())
			case colConfig:
				if rows[row].ConfigError != "" {
					return style.Foreground(theme.FaintText).Italic(true)
				}
			}
			return style
		})
	if opts.Width > 0 {
		t = t.Width(opts.Width)
	}
	return t.Render()
}

// RenderOverall draws the fleet-wide state line.
func RenderOverall(overall model.OverallView, theme Theme) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.StateColor(overall.Color)).
		Render(theme.Glyph(overall.Icon) + " fleet " + overall.Name)
}

func plainTable(theme Theme, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.BorderColor)).
		Headers(headers...)
}

// RenderRouters draws the data router panel.
func RenderRouters(rows []model.RouterRow, theme Theme, width int) string {
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = []string{row.Name, theme.Glyph(row.Online.Icon), theme.Glyph(row.Clean.Icon)}
	}
	t := plainTable(theme, "DATA ROUTER", "ONLINE", "CLEAN").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1).Foreground(theme.NormalText)
			if row == table.HeaderRow {
				return style.Bold(true).Foreground(theme.HeaderForeground)
			}
			if row < 0 || row >= len(rows) {
				return style
			}
			switch col {
			case 1:
				return style.Foreground(theme.ClassColor(rows[row].Online.Class))
			case 2:
				return style.Foreground(theme.ClassColor(rows[row].Clean.Class))
			}
			return style
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}

// RenderLogs draws the recent log panel, newest first.
func RenderLogs(rows []model.LogRow, theme Theme, width int) string {
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = []string{row.Time.Local().Format("15:04:05"), row.Level, row.Logger, row.Message}
	}
	t := plainTable(theme, "TIME", "LEVEL", "LOGGER", "MESSAGE").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1).Foreground(theme.NormalText)
			if row == table.HeaderRow {
				return style.Bold(true).Foreground(theme.HeaderForeground)
			}
			if row < 0 || row >= len(rows) {
				return style
			}
			return style.Foreground(theme.ClassColor(rows[row].Class))
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}
