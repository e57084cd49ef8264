package workspace

import (
	"errors"
	"strings"

	"github.com/csheth/learnstudio/internal/backend"
)

// GenericErrorMessage is shown when a failure carries no usable text.
const GenericErrorMessage = "An error occurred"

var (
	// ErrTranscriptTooShort is the local validation failure for transcript mode.
	ErrTranscriptTooShort = errors.New("Transcript must be at least 100 characters")
	// ErrInvalidURL is the local validation failure for url mode.
	ErrInvalidURL = errors.New("Please enter a valid URL")
	// ErrSubmissionInFlight is returned while a submission is pending.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	// ErrNoMaterial is returned by quiz operations before any result arrived.
	ErrNoMaterial = errors.New("no learning material loaded")
	// ErrQuizIncomplete is returned when submitting with unanswered questions.
	ErrQuizIncomplete = errors.New("answer every question before submitting")
	// ErrQuizSubmitted is returned on a second quiz submission.
	ErrQuizSubmitted = errors.New("quiz already submitted")
)

// Describe turns a failed submission into the single message shown to the
// user: the service's detail text, else the error text, else a generic line.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Detail) != "" {
		return apiErr.Detail
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return GenericErrorMessage
}
