package task

import "context"

// Answer is the outcome of a yes/no confirmation.
type Answer int

const (
	// AnswerYes confirms.
	AnswerYes Answer = iota
	// AnswerNo declines.
	AnswerNo
	// AnswerError means the prompt failed or the input was ambiguous; ask again.
	AnswerError
)

// String returns the answer name.
func (a Answer) String() string {
	switch a {
	case AnswerYes:
		return "yes"
	case AnswerNo:
		return "no"
	case AnswerError:
		return "error"
	default:
		return "unknown"
	}
}

// Console is the interactive console used for confirmations.
type Console interface {
	// Interactive reports whether the user can be prompted.
	Interactive() bool

	// Confirm asks a yes/no question. An error return is a hard failure that
	// aborts the run; recoverable prompt problems are reported as AnswerError.
	Confirm(ctx context.Context, message string) (Answer, error)
}
