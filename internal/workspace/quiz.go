package workspace

import (
	"math"

	"github.com/csheth/learnstudio/internal/backend"
)

// QuizPhase is the lifecycle position of the quiz for the current material.
type QuizPhase int

const (
	QuizUnanswered QuizPhase = iota
	QuizPartiallyAnswered
	QuizFullyAnswered
	QuizSubmitted
)

func (p QuizPhase) String() string {
	switch p {
	case QuizUnanswered:
		return "unanswered"
	case QuizPartiallyAnswered:
		return "partially-answered"
	case QuizFullyAnswered:
		return "fully-answered"
	case QuizSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// QuizState tracks answers and the score for one LearningMaterial. The zero
// value is an unanswered quiz.
type QuizState struct {
	answers   map[int]string
	submitted bool
	score     int
}

// Select records option for question index. It is a no-op once submitted, for
// out-of-range indexes, and for values that are not options of that question.
func (q *QuizState) Select(questions []backend.QuizQuestion, index int, option string) bool {
	if q.submitted || index < 0 || index >= len(questions) {
		return false
	}
	if !questions[index].HasOption(option) {
		return false
	}
	if q.answers == nil {
		q.answers = map[int]string{}
	}
	q.answers[index] = option
	return true
}

// CanSubmit reports whether every question has exactly one answer.
func (q *QuizState) CanSubmit(total int) bool {
	return !q.submitted && total > 0 && len(q.answers) == total
}

// Submit scores the answers and freezes the quiz.
func (q *QuizState) Submit(questions []backend.QuizQuestion) (int, error) {
	if q.submitted {
		return q.score, ErrQuizSubmitted
	}
	if !q.CanSubmit(len(questions)) {
		return 0, ErrQuizIncomplete
	}
	q.score = Score(questions, q.answers)
	q.submitted = true
	return q.score, nil
}

// Answer returns the recorded option for question index.
func (q *QuizState) Answer(index int) (string, bool) {
	option, ok := q.answers[index]
	return option, ok
}

// Answers returns a copy of the answer mapping.
func (q *QuizState) Answers() map[int]string {
	out := make(map[int]string, len(q.answers))
	for k, v := range q.answers {
		out[k] = v
	}
	return out
}

func (q *QuizState) AnsweredCount() int { return len(q.answers) }
func (q *QuizState) Submitted() bool    { return q.submitted }
func (q *QuizState) Score() int         { return q.score }

// Phase derives the lifecycle position for a quiz of total questions.
func (q *QuizState) Phase(total int) QuizPhase {
	switch {
	case q.submitted:
		return QuizSubmitted
	case len(q.answers) == 0:
		return QuizUnanswered
	case len(q.answers) < total:
		return QuizPartiallyAnswered
	default:
		return QuizFullyAnswered
	}
}

// OptionState is how a single option is drawn.
type OptionState int

const (
	OptionIdle OptionState = iota
	OptionSelected
	OptionCorrect
	OptionIncorrect
	OptionMuted
)

// OptionState compares by option text, so duplicate option strings within a
// question share their state.
func (q *QuizState) OptionState(question backend.QuizQuestion, index int, option string) OptionState {
	chosen, answered := q.answers[index]
	selected := answered && chosen == option
	if !q.submitted {
		if selected {
			return OptionSelected
		}
		return OptionIdle
	}
	switch {
	case option == question.CorrectAnswer:
		return OptionCorrect
	case selected:
		return OptionIncorrect
	default:
		return OptionMuted
	}
}

// Score counts answers equal to the question's correct answer. Comparison is
// exact: case-sensitive and untrimmed.
func Score(questions []backend.QuizQuestion, answers map[int]string) int {
	correct := 0
	for idx, question := range questions {
		if answer, ok := answers[idx]; ok && answer == question.CorrectAnswer {
			correct++
		}
	}
	return correct
}

// Outcome is the qualitative result of a submitted quiz.
type Outcome int

const (
	OutcomeKeepLearning Outcome = iota
	OutcomeGreatJob
	OutcomePerfect
)

// Title is the banner heading for the outcome.
func (o Outcome) Title() string {
	switch o {
	case OutcomePerfect:
		return "Perfect Score! 🎉"
	case OutcomeGreatJob:
		return "Great Job! 👏"
	default:
		return "Keep Learning! 📚"
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomePerfect:
		return "perfect"
	case OutcomeGreatJob:
		return "great job"
	default:
		return "keep learning"
	}
}

// Classify buckets score/total: all correct, at least 70%, or below.
func Classify(score, total int) Outcome {
	if total <= 0 {
		return OutcomeKeepLearning
	}
	if score == total {
		return OutcomePerfect
	}
	// score >= 0.7*total in integer form.
	if score*10 >= total*7 {
		return OutcomeGreatJob
	}
	return OutcomeKeepLearning
}

// Ratio is score/total, zero for an empty quiz.
func Ratio(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) / float64(total)
}

// Percentage is the rounded accuracy shown under the progress bar.
func Percentage(score, total int) int {
	return int(math.Round(Ratio(score, total) * 100))
}
