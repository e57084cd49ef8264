package workspace

import (
	"fmt"
	"strings"

	"github.com/csheth/learnstudio/internal/backend"
)

// Tab names one of the result views.
type Tab string

const (
	TabSummary  Tab = "summary"
	TabInsights Tab = "insights"
	TabNotes    Tab = "notes"
	TabQuiz     Tab = "quiz"
)

// Tabs is the display order of the result views.
var Tabs = []Tab{TabSummary, TabInsights, TabNotes, TabQuiz}

func (t Tab) Valid() bool {
	return t.Index() >= 0
}

// Index is the position in Tabs, -1 when unknown.
func (t Tab) Index() int {
	for idx, tab := range Tabs {
		if tab == t {
			return idx
		}
	}
	return -1
}

func (t Tab) Label() string {
	switch t {
	case TabSummary:
		return "Summary"
	case TabInsights:
		return "Key Insights"
	case TabNotes:
		return "Notes"
	case TabQuiz:
		return "Quiz"
	default:
		return string(t)
	}
}

// SummaryDelimiter separates summary paragraphs.
const SummaryDelimiter = "\n\n"

// Block is one numbered entry of a result view.
type Block struct {
	Number int
	Text   string
}

// SummaryBlocks splits the summary on SummaryDelimiter and numbers each part from 1.
func SummaryBlocks(material *backend.LearningMaterial) []Block {
	if material == nil {
		return nil
	}
	return Numbered(strings.Split(material.Summary, SummaryDelimiter))
}

// InsightBlocks numbers the key points.
func InsightBlocks(material *backend.LearningMaterial) []Block {
	if material == nil {
		return nil
	}
	return Numbered(material.KeyPoints)
}

// NoteBlocks numbers the notes; absent notes yield no blocks.
func NoteBlocks(material *backend.LearningMaterial) []Block {
	if material == nil {
		return nil
	}
	return Numbered(material.Notes)
}

// Numbered pairs each item with its 1-based position.
func Numbered(items []string) []Block {
	blocks := make([]Block, 0, len(items))
	for idx, item := range items {
		blocks = append(blocks, Block{Number: idx + 1, Text: item})
	}
	return blocks
}

// TabBadge is the "score/total" badge of the quiz tab, empty until the quiz
// is submitted and for every other tab.
func (s *Session) TabBadge(tab Tab) string {
	if tab != TabQuiz || s.data == nil || !s.quiz.Submitted() {
		return ""
	}
	return fmt.Sprintf("%d/%d", s.quiz.Score(), len(s.data.Quiz))
}

// OptionLetter labels options A, B, C… by position.
func OptionLetter(index int) string {
	if index < 0 || index >= 26 {
		return "?"
	}
	return string(rune('A' + index))
}
