package tui

import (
	"github.com/charmbracelet/lipgloss"

	"fleet-dashboard/internal/model"
)

// Theme maps the display identifiers shared with the web page (Font
// Awesome icons, bg-* color classes) onto terminal glyphs and ANSI 256
// colors.
type Theme struct {
	NormalText         lipgloss.Color
	FaintText          lipgloss.Color
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color
	HeaderForeground   lipgloss.Color
	BorderColor        lipgloss.Color
	ErrorForeground    lipgloss.Color

	StateColors map[string]lipgloss.Color
	// ClassColors covers the indicator and log row classes.
	ClassColors map[string]lipgloss.Color
	Glyphs      map[string]string
}

var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	SelectedBackground: lipgloss.Color("237"),
	SelectedForeground: lipgloss.Color("255"),
	HeaderForeground:   lipgloss.Color("75"),
	BorderColor:        lipgloss.Color("240"),
	ErrorForeground:    lipgloss.Color("196"),

	StateColors: map[string]lipgloss.Color{
		model.StateIdle.Color():      lipgloss.Color("245"),
		model.StateDescribed.Color(): lipgloss.Color("39"),
		model.StatePrepared.Color():  lipgloss.Color("220"),
		model.StateReady.Color():     lipgloss.Color("42"),
		model.StateRunning.Color():   lipgloss.Color("33"),
		model.StateUnknown.Color():   lipgloss.Color("196"),
	},
	ClassColors: map[string]lipgloss.Color{
		model.GoodClass: lipgloss.Color("42"),
		model.BadClass:  lipgloss.Color("196"),
		"warning":       lipgloss.Color("214"),
		"danger":        lipgloss.Color("196"),
	},
	Glyphs: map[string]string{
		"fa-exclamation-triangle": "!",
		"fa-power-off":            "○",
		"fa-server":               "◇",
		"fa-link":                 "◆",
		"fa-check":                "✓",
		"fa-play":                 "▶",
		"fa-stop":                 "■",
		"fa-cog":                  "⚙",
		"fa-repeat":               "↺",
		model.FallbackActionIcon:  "?",
		model.GoodIcon:            "✓",
		model.BadIcon:             "✗",
	},
}

// StateColor falls back to the unknown color so every identifier renders.
func (t Theme) StateColor(id string) lipgloss.Color {
	if c, ok := t.StateColors[id]; ok {
		return c
	}
	return t.StateColors[model.StateUnknown.Color()]
}

// ClassColor returns the normal text color for unknown or empty classes.
func (t Theme) ClassColor(class string) lipgloss.Color {
	if c, ok := t.ClassColors[class]; ok {
		return c
	}
	return t.NormalText
}

func (t Theme) Glyph(icon string) string {
	if g, ok := t.Glyphs[icon]; ok {
		return g
	}
	return "?"
}

func (t Theme) BadgeStyle(b model.Badge) lipgloss.Style {
	if b.Busy {
		return lipgloss.NewStyle().Foreground(t.FaintText)
	}
	return lipgloss.NewStyle().Foreground(t.StateColor(b.Color))
}
