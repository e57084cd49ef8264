package backend

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse marks a 2xx response whose body is not a usable LearningMaterial.
var ErrMalformedResponse = errors.New("malformed response from learning service")

// LearningMaterial is the study pack returned for one video or transcript.
type LearningMaterial struct {
	VideoTitle string         `json:"video_title"`
	Summary    string         `json:"summary"`
	KeyPoints  []string       `json:"key_points"`
	Notes      []string       `json:"notes,omitempty"`
	Quiz       []QuizQuestion `json:"quiz"`
}

// QuizQuestion is a single multiple choice question. CorrectAnswer holds the
// option text, not its position.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// HasOption reports whether value is one of the question's options.
func (q QuizQuestion) HasOption(value string) bool {
	for _, option := range q.Options {
		if option == value {
			return true
		}
	}
	return false
}

// Validate rejects materials the workspace cannot render or score.
func (m *LearningMaterial) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	if strings.TrimSpace(m.Summary) == "" {
		return fmt.Errorf("%w: summary missing", ErrMalformedResponse)
	}
	if len(m.Quiz) == 0 {
		return fmt.Errorf("%w: quiz missing", ErrMalformedResponse)
	}
	for idx, question := range m.Quiz {
		if len(question.Options) == 0 {
			return fmt.Errorf("%w: question %d has no options", ErrMalformedResponse, idx+1)
		}
		if !question.HasOption(question.CorrectAnswer) {
			return fmt.Errorf("%w: question %d answer is not one of its options", ErrMalformedResponse, idx+1)
		}
	}
	return nil
}
