package kickstarters

import (
	"errors"
	"fmt"
)

const (
	// DefaultSelectionCap bounds how many items one page may select.
	DefaultSelectionCap = 50
	// DefaultMaxQuestionLength is the length of the longest default question.
	DefaultMaxQuestionLength = 89
)

// Limits are the per-deployment ceilings for selection and custom questions.
type Limits struct {
	SelectionCap      int `json:"selection_cap" yaml:"selection_cap" toml:"selection_cap"`
	MaxQuestionLength int `json:"max_question_length" yaml:"max_question_length" toml:"max_question_length"`
}

// DefaultLimits returns the reference ceilings.
func DefaultLimits() Limits {
	return Limits{SelectionCap: DefaultSelectionCap, MaxQuestionLength: DefaultMaxQuestionLength}
}

// orDefault fills non-positive fields from DefaultLimits.
func (l Limits) orDefault() Limits {
	d := DefaultLimits()
	if l.SelectionCap <= 0 {
		l.SelectionCap = d.SelectionCap
	}
	if l.MaxQuestionLength <= 0 {
		l.MaxQuestionLength = d.MaxQuestionLength
	}
	return l
}

var (
	// ErrCapacity is returned when selecting would exceed the selection cap.
	ErrCapacity = errors.New("kickstarter selection limit reached")
	// ErrUnknownItem is returned for ids that are not in the catalog.
	ErrUnknownItem = errors.New("unknown kickstarter item")
	// ErrEmptyQuestion is returned when a custom question is blank.
	ErrEmptyQuestion = errors.New("kickstarter question is required")
	// ErrImmutable is returned when deleting a default item.
	ErrImmutable = errors.New("default kickstarter items cannot be changed")
	// ErrLoadInFlight is returned when a catalog load is already running.
	ErrLoadInFlight = errors.New("kickstarter catalog load already in progress")
)

// LengthError reports a custom question longer than the ceiling.
type LengthError struct {
	Length int
	Max    int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("kickstarter question is %d characters; the limit is %d", e.Length, e.Max)
}
