package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/learnstudio/internal/transcript"
	"github.com/csheth/learnstudio/internal/workspace"
)

func (m *model) View() string {
	top := []string{m.heroView(), m.formView()}
	if msg := m.session.ErrorMessage(); msg != "" {
		top = append(top, m.styles.errorBox.Render(msg))
	}

	var bottom []string
	if m.infoMessage != "" {
		bottom = append(bottom, m.styles.helper.Render(m.infoMessage))
	}
	if m.helpVisible {
		bottom = append(bottom, m.keyLegendView(), m.helpView())
	}
	bottom = append(bottom, m.statusBarView())

	if m.session.Material() == nil {
		return joinNonEmpty(append(top, bottom...))
	}

	header := m.resultsHeader()
	chrome := lipgloss.Height(joinNonEmpty(top)) + lipgloss.Height(joinNonEmpty(bottom)) + lipgloss.Height(header) + 6
	m.viewport.Height = m.layout.viewportHeight(chrome)
	m.refreshViewportIfDirty()

	panel := m.styles.panel
	if m.focus == focusResults {
		panel = m.styles.activePanel
	}
	results := panel.Render(joinNonEmpty([]string{header, m.viewport.View()}))
	return joinNonEmpty(append(append(top, results), bottom...))
}

func (m *model) heroView() string {
	lines := []string{
		m.styles.heroTitle.Render(heroTitle),
		m.styles.tagline.Render(heroTagline),
	}
	hero := m.styles.heroBox.Render(strings.Join(lines, "\n"))
	state := m.session.App().Get()
	if state.User == nil {
		return hero
	}
	greeting := m.styles.greeting.Render(fmt.Sprintf("  Welcome back, %s (%s)", state.User.DisplayName(), state.User.Initial()))
	return lipgloss.JoinHorizontal(lipgloss.Center, hero, greeting)
}

func (m *model) formView() string {
	var b strings.Builder
	b.WriteString(m.modeSelector())
	b.WriteRune('\n')
	b.WriteRune('\n')

	switch m.session.Mode() {
	case workspace.ModeTranscript:
		b.WriteString(m.fieldLabel("Video Title (optional)", focusTitle))
		b.WriteRune('\n')
		b.WriteString(m.titleInput.View())
		b.WriteRune('\n')
		b.WriteString(m.fieldLabel("Transcript", focusTranscript))
		b.WriteRune('\n')
		b.WriteString(m.transcriptInput.View())
		b.WriteRune('\n')
		b.WriteString(m.styles.helper.Render(fmt.Sprintf("%d characters (minimum %d)", m.session.TranscriptLength(), workspace.MinTranscriptLength)))
	default:
		b.WriteString(m.fieldLabel("YouTube URL", focusURL))
		b.WriteRune('\n')
		b.WriteString(m.urlInput.View())
		if id := transcript.VideoID(m.urlInput.Value()); id != "" {
			b.WriteRune('\n')
			b.WriteString(m.styles.helper.Render("Video ID: " + id))
		}
	}
	b.WriteRune('\n')
	b.WriteRune('\n')

	switch {
	case m.session.Loading():
		b.WriteString(fmt.Sprintf("%s Processing...  %s", m.spinner.View(), m.styles.helper.Render(m.session.ProcessingStep())))
	case m.importing:
		b.WriteString(m.styles.sectionHeader.Render("Import transcript file"))
		b.WriteRune('\n')
		b.WriteString(m.importInput.View())
	default:
		b.WriteString(m.styles.helper.Render("ctrl+s generates learning materials • ctrl+o imports a transcript file"))
	}

	panel := m.styles.panel
	if m.focus != focusResults {
		panel = m.styles.activePanel
	}
	return panel.Render(b.String())
}

func (m *model) modeSelector() string {
	render := func(label string, mode workspace.InputMode) string {
		if m.session.Mode() == mode {
			return m.styles.modeActive.Render(label)
		}
		return m.styles.modeIdle.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		render("YouTube URL (ctrl+u)", workspace.ModeURL),
		" ",
		render("Transcript (ctrl+r)", workspace.ModeTranscript),
	)
}

func (m *model) fieldLabel(label string, target focusTarget) string {
	if m.focus == target && !m.importing {
		return m.styles.sectionHeader.Render(label)
	}
	return m.styles.helper.Render(label)
}

func (m *model) resultsHeader() string {
	return joinNonEmpty([]string{
		m.styles.banner.Render("✨ " + resultsBanner),
		m.tabBar(),
	})
}

func (m *model) tabBar() string {
	cells := make([]string, 0, len(workspace.Tabs))
	for idx, tab := range workspace.Tabs {
		label := fmt.Sprintf("%d %s", idx+1, tab.Label())
		cell := m.styles.tabIdle.Render(label)
		if tab == m.session.ActiveTab() {
			cell = m.styles.tabActive.Render(label)
		}
		if badge := m.session.TabBadge(tab); badge != "" {
			cell = lipgloss.JoinHorizontal(lipgloss.Top, cell, m.styles.badge.Render(badge))
		}
		cells = append(cells, cell)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m *model) statusBarView() string {
	stats := []string{fmt.Sprintf("Mode %s", modeLabel(m.session.Mode()))}
	if m.session.Material() != nil {
		stats = append(stats, fmt.Sprintf("View %s", m.session.ActiveTab().Label()))
		stats = append(stats, fmt.Sprintf("Quiz %s", m.session.QuizPhase()))
	}
	if state := m.session.App().Get(); state.DarkMode {
		stats = append(stats, "Dark")
	} else {
		stats = append(stats, "Light")
	}
	stats = append(stats, m.jobStatusBadges()...)
	stats = append(stats, "? help • esc quit")
	return m.styles.statusBar.Render(strings.Join(stats, "  •  "))
}

func (m *model) jobStatusBadges() []string {
	var running []string
	for _, snapshot := range m.jobStates {
		if snapshot.Status == jobStatusRunning {
			running = append(running, string(snapshot.Kind))
		}
	}
	sort.Strings(running)
	badges := make([]string, 0, len(running)+1)
	for _, kind := range running {
		badges = append(badges, kind+" running")
	}
	if last, ok := m.jobStates[m.lastJob]; ok && last.Status != jobStatusRunning {
		badges = append(badges, fmt.Sprintf("last %s %s (%s)", last.Kind, last.Status, last.Duration.Round(10*time.Millisecond)))
	}
	return badges
}

func modeLabel(mode workspace.InputMode) string {
	if mode == workspace.ModeTranscript {
		return "TRANSCRIPT"
	}
	return "URL"
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"tab", "Next field"},
		{"ctrl+s", "Generate"},
		{"ctrl+n", "Reset"},
		{"1-4 ←/→", "Switch view"},
		{"↑/↓", "Scroll or move"},
		{"a-z", "Pick option"},
		{"enter", "Submit quiz"},
		{"ctrl+t", "Theme"},
		{"ctrl+o", "Import file"},
	}
	rows := []string{m.styles.sectionHeader.Render("Navigation Cheatsheet")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := m.styles.key.Render(hint.Key)
			desc := m.styles.keyDesc.Render(" " + hint.Description + "  ")
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return m.styles.legendBox.Render(strings.Join(rows, "\n"))
}

func (m *model) helpView() string {
	lines := []string{
		m.styles.sectionHeader.Render("How it works"),
		m.styles.helper.Render("• paste a YouTube URL, or switch to transcript mode and paste at least 100 characters."),
		m.styles.helper.Render("• the quiz unlocks submission once every question has an answer; answers lock after submitting."),
		m.styles.helper.Render("• ctrl+n clears the workspace and cancels a pending request."),
	}
	return m.styles.helpBox.Render(strings.Join(lines, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}
