package tui

import (
	"codeberg.org/practicetestbulk/client/internal/pages"
	"codeberg.org/practicetestbulk/client/internal/usage"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorWhite     = lipgloss.Color("#FFFFFF")
	colorLightGray = lipgloss.Color("#CCCCCC")
	colorGray      = lipgloss.Color("#888888")
	colorDarkGray  = lipgloss.Color("#444444")
	colorPurple    = lipgloss.Color("#8524a6")
	colorGreen     = lipgloss.Color("#2fb36b")
	colorYellow    = lipgloss.Color("#e6b800")
	colorRed       = lipgloss.Color("#e0453a")
	colorBlue      = lipgloss.Color("#3a8ee0")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			MarginTop(1).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorLightGray).
			MarginBottom(1)

	menuKeyStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	menuDescStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			PaddingLeft(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorLightGray).
			Width(22)

	focusedLabelStyle = labelStyle.
				Foreground(colorWhite).
				Bold(true)

	choiceStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	choiceSelectedStyle = lipgloss.NewStyle().
				Foreground(colorWhite).
				Bold(true)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorGray).
			Padding(0, 1)

	bannerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderTop(false).
			BorderRight(false).
			BorderBottom(false).
			PaddingLeft(1)

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDarkGray).
			Italic(true).
			MarginTop(1)
)

const logo = `
 ___             _   _          _____       _     ___      _ _
| _ \_ _ __ _ __| |_(_)__ ___  |_   _|__ __| |_  | _ )_  _| | |__
|  _/ '_/ _' / _|  _| / _/ -_)   | |/ -_|_-<  _| | _ \ || | | / /
|_| |_| \__,_\__|\__|_\__\___|   |_|\___/__/\__| |___/\_,_|_|_\_\
`

func bandColor(b usage.Band) lipgloss.Color {
	switch b {
	case usage.BandError:
		return colorRed
	case usage.BandWarning:
		return colorYellow
	case usage.BandSuccess:
		return colorGreen
	default:
		return colorPurple
	}
}

func severityStyle(s pages.Severity) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch s {
	case pages.SeverityError:
		return base.Foreground(colorRed)
	case pages.SeverityWarning:
		return base.Foreground(colorYellow)
	case pages.SeveritySuccess:
		return base.Foreground(colorGreen)
	default:
		return base.Foreground(colorBlue)
	}
}
