package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/roach88/aoc/internal/aoc"
)

// Submission is one call recorded by FakeService.
type Submission struct {
	Year, Day, Part int
	Answer          string
}

// FakeService stands in for the puzzle service. It serves inputs from a
// map, answers submissions from a script and counts every call.
type FakeService struct {
	mu sync.Mutex

	// Inputs maps "year/day" (see InputKey) to the input text.
	Inputs map[string]string

	// FetchErr, when set, is returned by every FetchInput call.
	FetchErr error

	// Outcomes are returned by SubmitAnswer in order. When exhausted,
	// SubmitAnswer fails.
	Outcomes []aoc.Result

	// SubmitErr, when set, is returned by every SubmitAnswer call.
	SubmitErr error

	fetches     int
	submissions []Submission
}

// NewFakeService creates a service with no inputs and no scripted outcomes.
func NewFakeService() *FakeService {
	return &FakeService{Inputs: map[string]string{}}
}

// InputKey is the key of Inputs for (year, day).
func InputKey(year, day int) string {
	return fmt.Sprintf("%d/%d", year, day)
}

// SetInput registers the input of (year, day).
func (s *FakeService) SetInput(year, day int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Inputs[InputKey(year, day)] = text
}

// FetchInput implements input.Fetcher.
func (s *FakeService) FetchInput(_ context.Context, year, day int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if s.FetchErr != nil {
		return "", s.FetchErr
	}
	text, ok := s.Inputs[InputKey(year, day)]
	if !ok {
		return "", &aoc.FetchError{Year: year, Day: day, StatusCode: 404, Err: errors.New("no such input")}
	}
	return text, nil
}

// SubmitAnswer implements reconcile.Submitter.
func (s *FakeService) SubmitAnswer(_ context.Context, year, day, part int, answer string) (aoc.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, Submission{Year: year, Day: day, Part: part, Answer: answer})
	if s.SubmitErr != nil {
		return aoc.Result{}, s.SubmitErr
	}
	if len(s.Outcomes) == 0 {
		return aoc.Result{}, &aoc.SubmissionError{Year: year, Day: day, Part: part, Err: errors.New("no scripted outcome")}
	}
	res := s.Outcomes[0]
	s.Outcomes = s.Outcomes[1:]
	return res, nil
}

// Fetches returns the number of FetchInput calls.
func (s *FakeService) Fetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

// Submissions returns every SubmitAnswer call in order.
func (s *FakeService) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Submission(nil), s.submissions...)
}
