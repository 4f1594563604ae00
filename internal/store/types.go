package store

import "github.com/roach88/aoc/internal/puzzle"

// Status is the submission status of an answer record.
type Status string

const (
	StatusNotSubmitted  Status = "not-submitted"
	StatusCorrect       Status = "submitted-correct"
	StatusIncorrect     Status = "submitted-incorrect"
	StatusAlreadySolved Status = "submitted-already-solved"
)

// Solved reports whether the puzzle part is known to be solved. An
// already-solved verdict counts as correct.
func (s Status) Solved() bool {
	return s == StatusCorrect || s == StatusAlreadySolved
}

// AnswerRecord is the cached answer of one puzzle part.
type AnswerRecord struct {
	ID          puzzle.ID `json:"id" yaml:"id"`
	Value       string    `json:"value" yaml:"value"`
	Status      Status    `json:"status" yaml:"status"`
	Fingerprint string    `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Seq         int64     `json:"seq" yaml:"seq"`
}

// Submission is one remote submission attempt.
type Submission struct {
	AttemptID string    `json:"attempt_id" yaml:"attempt_id"`
	ID        puzzle.ID `json:"id" yaml:"id"`
	Value     string    `json:"value" yaml:"value"`
	Outcome   string    `json:"outcome" yaml:"outcome"`
	Message   string    `json:"message,omitempty" yaml:"message,omitempty"`
	Seq       int64     `json:"seq" yaml:"seq"`
}
