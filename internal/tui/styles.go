package tui

import "github.com/charmbracelet/lipgloss"

// styles is rebuilt whenever the theme preference flips.
type styles struct {
	heroTitle     lipgloss.Style
	heroBox       lipgloss.Style
	tagline       lipgloss.Style
	greeting      lipgloss.Style
	sectionHeader lipgloss.Style
	helper        lipgloss.Style
	errorText     lipgloss.Style
	errorBox      lipgloss.Style
	panel         lipgloss.Style
	activePanel   lipgloss.Style
	banner        lipgloss.Style
	modeActive    lipgloss.Style
	modeIdle      lipgloss.Style
	tabActive     lipgloss.Style
	tabIdle       lipgloss.Style
	badge         lipgloss.Style
	blockNumber   lipgloss.Style
	body          lipgloss.Style
	questionText  lipgloss.Style
	cursor        lipgloss.Style
	optionIdle    lipgloss.Style
	optionSelect  lipgloss.Style
	optionCorrect lipgloss.Style
	optionWrong   lipgloss.Style
	optionMuted   lipgloss.Style
	outcomeTitle  lipgloss.Style
	outcomeBox    lipgloss.Style
	correctStat   lipgloss.Style
	wrongStat     lipgloss.Style
	barFilled     lipgloss.Style
	barEmpty      lipgloss.Style
	statusBar     lipgloss.Style
	key           lipgloss.Style
	keyDesc       lipgloss.Style
	legendBox     lipgloss.Style
	helpBox       lipgloss.Style
}

type palette struct {
	accent    lipgloss.Color
	ember     lipgloss.Color
	text      lipgloss.Color
	secondary lipgloss.Color
	muted     lipgloss.Color
	header    lipgloss.Color
	border    lipgloss.Color
	success   lipgloss.Color
	failure   lipgloss.Color
	highlight lipgloss.Color
	ink       lipgloss.Color
}

var (
	darkPalette = palette{
		accent:    lipgloss.Color("#ff8c00"),
		ember:     lipgloss.Color("#2b1400"),
		text:      lipgloss.Color("#fff4d0"),
		secondary: lipgloss.Color("#ffb347"),
		muted:     lipgloss.Color("244"),
		header:    lipgloss.Color("81"),
		border:    lipgloss.Color("#56526e"),
		success:   lipgloss.Color("#a3be8c"),
		failure:   lipgloss.Color("9"),
		highlight: lipgloss.Color("#8ecae6"),
		ink:       lipgloss.Color("#0f0f0f"),
	}
	lightPalette = palette{
		accent:    lipgloss.Color("#7f5af0"),
		ember:     lipgloss.Color("#f4f1ff"),
		text:      lipgloss.Color("#1f1d2b"),
		secondary: lipgloss.Color("#5a4fcf"),
		muted:     lipgloss.Color("242"),
		header:    lipgloss.Color("25"),
		border:    lipgloss.Color("#bde0fe"),
		success:   lipgloss.Color("28"),
		failure:   lipgloss.Color("160"),
		highlight: lipgloss.Color("#bde0fe"),
		ink:       lipgloss.Color("#0f0f0f"),
	}
)

func newStyles(dark bool) styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	return styles{
		heroTitle:     lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		heroBox:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.accent).Foreground(p.text).Background(p.ember).Padding(0, 2),
		tagline:       lipgloss.NewStyle().Foreground(p.secondary).Italic(true),
		greeting:      lipgloss.NewStyle().Foreground(p.secondary),
		sectionHeader: lipgloss.NewStyle().Bold(true).Foreground(p.header),
		helper:        lipgloss.NewStyle().Foreground(p.muted),
		errorText:     lipgloss.NewStyle().Foreground(p.failure),
		errorBox:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.failure).Foreground(p.failure).Padding(0, 1),
		panel:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(0, 1),
		activePanel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.accent).Padding(0, 1),
		banner:        lipgloss.NewStyle().Bold(true).Foreground(p.success),
		modeActive:    lipgloss.NewStyle().Bold(true).Foreground(p.ink).Background(p.accent).Padding(0, 1),
		modeIdle:      lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1),
		tabActive:     lipgloss.NewStyle().Bold(true).Foreground(p.ink).Background(p.highlight).Padding(0, 1),
		tabIdle:       lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1),
		badge:         lipgloss.NewStyle().Bold(true).Foreground(p.ink).Background(p.secondary).Padding(0, 1),
		blockNumber:   lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		body:          lipgloss.NewStyle().Foreground(p.text),
		questionText:  lipgloss.NewStyle().Bold(true).Foreground(p.text),
		cursor:        lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		optionIdle:    lipgloss.NewStyle().Foreground(p.text),
		optionSelect:  lipgloss.NewStyle().Bold(true).Foreground(p.ink).Background(p.highlight),
		optionCorrect: lipgloss.NewStyle().Bold(true).Foreground(p.success),
		optionWrong:   lipgloss.NewStyle().Bold(true).Foreground(p.failure).Strikethrough(true),
		optionMuted:   lipgloss.NewStyle().Foreground(p.muted),
		outcomeTitle:  lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		outcomeBox:    lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(p.accent).Padding(0, 2),
		correctStat:   lipgloss.NewStyle().Bold(true).Foreground(p.success),
		wrongStat:     lipgloss.NewStyle().Bold(true).Foreground(p.failure),
		barFilled:     lipgloss.NewStyle().Foreground(p.success),
		barEmpty:      lipgloss.NewStyle().Foreground(p.muted),
		statusBar:     lipgloss.NewStyle().Foreground(p.ink).Background(p.highlight).Padding(0, 1),
		key:           lipgloss.NewStyle().Bold(true).Foreground(p.ink).Background(lipgloss.Color("#ffd166")).Padding(0, 1),
		keyDesc:       lipgloss.NewStyle().Foreground(p.text),
		legendBox:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(0, 1),
		helpBox:       lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(0, 1),
	}
}
