package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/learnstudio/internal/backend"
	"github.com/csheth/learnstudio/internal/workspace"
)

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	minViewportHeight         = 5
	progressBarWidth          = 30
)

type pageLayout struct {
	windowWidth      int
	windowHeight     int
	contentWidth     int
	transcriptHeight int
}

func newPageLayout() pageLayout {
	return pageLayout{
		windowWidth:      84,
		windowHeight:     32,
		contentWidth:     80,
		transcriptHeight: 6,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.contentWidth = innerWidth
	l.transcriptHeight = height / 5
	if l.transcriptHeight < 3 {
		l.transcriptHeight = 3
	}
	if l.transcriptHeight > 10 {
		l.transcriptHeight = 10
	}
}

// viewportHeight is whatever the window leaves after the surrounding chrome.
func (l pageLayout) viewportHeight(chrome int) int {
	h := l.windowHeight - chrome
	if h < minViewportHeight {
		h = minViewportHeight
	}
	return h
}

type tabView struct {
	content       string
	questionLines []int
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

func (m *model) buildTabContent() tabView {
	material := m.session.Material()
	if material == nil {
		return tabView{}
	}
	cb := &contentBuilder{}
	var questionLines []int
	switch m.session.ActiveTab() {
	case workspace.TabSummary:
		m.writeSummary(cb, material)
	case workspace.TabInsights:
		cb.WriteString(m.styles.sectionHeader.Render("Key Insights"))
		cb.WriteRune('\n')
		m.writeBlocks(cb, workspace.InsightBlocks(material), "No key insights were returned.")
	case workspace.TabNotes:
		m.writeNotes(cb, material)
	case workspace.TabQuiz:
		questionLines = m.writeQuiz(cb, material)
	}
	return tabView{content: cb.String(), questionLines: questionLines}
}

func (m *model) writeSummary(cb *contentBuilder, material *backend.LearningMaterial) {
	title := strings.TrimSpace(material.VideoTitle)
	if title == "" {
		title = workspace.DefaultVideoTitle
	}
	cb.WriteString(m.styles.sectionHeader.Render(wordwrap.String(title, m.wrapWidth(0))))
	cb.WriteRune('\n')
	cb.WriteRune('\n')
	m.writeBlocks(cb, workspace.SummaryBlocks(material), "")
}

func (m *model) writeNotes(cb *contentBuilder, material *backend.LearningMaterial) {
	blocks := workspace.NoteBlocks(material)
	if len(blocks) == 0 {
		return
	}
	cb.WriteString(m.styles.sectionHeader.Render("Study Notes"))
	cb.WriteRune('\n')
	m.writeBlocks(cb, blocks, "")
	cb.WriteRune('\n')
	cb.WriteString(m.styles.helper.Render(wordwrap.String(notesFooter, m.wrapWidth(0))))
	cb.WriteRune('\n')
}

func (m *model) writeBlocks(cb *contentBuilder, blocks []workspace.Block, empty string) {
	if len(blocks) == 0 {
		if empty != "" {
			cb.WriteString(m.styles.helper.Render(empty))
			cb.WriteRune('\n')
		}
		return
	}
	wrap := m.wrapWidth(5)
	for idx, block := range blocks {
		number := m.styles.blockNumber.Render(fmt.Sprintf("%3d ", block.Number))
		body := strings.ReplaceAll(wordwrap.String(block.Text, wrap), "\n", "\n     ")
		cb.WriteString(number)
		cb.WriteString(m.styles.body.Render(body))
		cb.WriteRune('\n')
		if idx < len(blocks)-1 {
			cb.WriteRune('\n')
		}
	}
}

// writeQuiz renders every question and returns the line each one starts on.
func (m *model) writeQuiz(cb *contentBuilder, material *backend.LearningMaterial) []int {
	quiz := m.session.Quiz()
	total := len(material.Quiz)
	lines := make([]int, 0, total)

	cb.WriteString(m.styles.sectionHeader.Render("Knowledge Check"))
	cb.WriteRune('\n')
	if !quiz.Submitted() {
		cb.WriteString(m.styles.helper.Render(fmt.Sprintf("%d/%d answered", quiz.AnsweredCount(), total)))
		cb.WriteRune('\n')
	}
	cb.WriteRune('\n')

	wrap := m.wrapWidth(6)
	for qi, question := range material.Quiz {
		lines = append(lines, cb.Line())
		marker := "  "
		if qi == m.quizCursor {
			marker = m.styles.cursor.Render("▸ ")
		}
		text := wordwrap.String(fmt.Sprintf("%d. %s", qi+1, question.Question), wrap)
		cb.WriteString(marker)
		cb.WriteString(m.styles.questionText.Render(strings.ReplaceAll(text, "\n", "\n  ")))
		cb.WriteRune('\n')
		for oi, option := range question.Options {
			label := fmt.Sprintf("%s. %s", workspace.OptionLetter(oi), option)
			label = indentMultiline(wordwrap.String(label, wrap), "     ")
			cb.WriteString(m.optionStyle(quiz.OptionState(question, qi, option)).Render(label))
			cb.WriteRune('\n')
		}
		if qi < total-1 {
			cb.WriteRune('\n')
		}
	}

	cb.WriteRune('\n')
	if outcome, ok := m.session.Outcome(); ok {
		cb.WriteString(m.outcomeView(outcome, quiz.Score(), total))
		cb.WriteRune('\n')
		return lines
	}
	if m.session.CanSubmitQuiz() {
		cb.WriteString(m.styles.helper.Render("All questions answered. Press enter to submit the quiz."))
	} else {
		cb.WriteString(m.styles.helper.Render("Press a letter to choose an option; ↑/↓ moves between questions."))
	}
	cb.WriteRune('\n')
	return lines
}

func (m *model) optionStyle(state workspace.OptionState) lipgloss.Style {
	switch state {
	case workspace.OptionSelected:
		return m.styles.optionSelect
	case workspace.OptionCorrect:
		return m.styles.optionCorrect
	case workspace.OptionIncorrect:
		return m.styles.optionWrong
	case workspace.OptionMuted:
		return m.styles.optionMuted
	default:
		return m.styles.optionIdle
	}
}

func (m *model) outcomeView(outcome workspace.Outcome, score, total int) string {
	lines := []string{
		m.styles.outcomeTitle.Render(outcome.Title()),
		fmt.Sprintf("You scored %d out of %d questions", score, total),
		m.styles.correctStat.Render(fmt.Sprintf("%d Correct", score)) + "   " +
			m.styles.wrongStat.Render(fmt.Sprintf("%d Incorrect", total-score)),
		m.progressBar(workspace.Ratio(score, total)),
		fmt.Sprintf("%d%% Accuracy", workspace.Percentage(score, total)),
	}
	return m.styles.outcomeBox.Render(strings.Join(lines, "\n"))
}

func (m *model) progressBar(ratio float64) string {
	filled := int(ratio*progressBarWidth + 0.5)
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	if filled < 0 {
		filled = 0
	}
	return m.styles.barFilled.Render(strings.Repeat("█", filled)) +
		m.styles.barEmpty.Render(strings.Repeat("░", progressBarWidth-filled))
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}
