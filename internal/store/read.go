package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/aoc/internal/puzzle"
)

// GetAnswer returns the answer record of id. found is false when the part
// has never been run.
func (s *Store) GetAnswer(ctx context.Context, id puzzle.ID) (rec AnswerRecord, found bool, err error) {
	var status string
	err = s.db.QueryRowContext(ctx, `
		SELECT value, status, fingerprint, seq
		FROM answers
		WHERE year = ? AND day = ? AND part = ?
	`, id.Year, id.Day, id.Part).Scan(&rec.Value, &status, &rec.Fingerprint, &rec.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return AnswerRecord{}, false, nil
	}
	if err != nil {
		return AnswerRecord{}, false, fmt.Errorf("read answer: %w", err)
	}

	rec.ID = id
	rec.Status = Status(status)
	return rec, true, nil
}

// ListSubmissions returns every attempt for id, oldest first.
// Returns an empty slice (not nil) if nothing was submitted.
func (s *Store) ListSubmissions(ctx context.Context, id puzzle.ID) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT attempt_id, value, outcome, message, seq
		FROM submissions
		WHERE year = ? AND day = ? AND part = ?
		ORDER BY seq ASC, attempt_id COLLATE BINARY ASC
	`, id.Year, id.Day, id.Part)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	subs := []Submission{}
	for rows.Next() {
		sub := Submission{ID: id}
		if err := rows.Scan(&sub.AttemptID, &sub.Value, &sub.Outcome, &sub.Message, &sub.Seq); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}

	return subs, nil
}

// SubmissionOutcome returns the latest verdict the service gave for value.
// Rate-limited attempts carry no verdict and are skipped.
func (s *Store) SubmissionOutcome(ctx context.Context, id puzzle.ID, value string) (outcome string, found bool, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT outcome
		FROM submissions
		WHERE year = ? AND day = ? AND part = ? AND value = ? AND outcome != 'rate-limited'
		ORDER BY seq DESC, attempt_id COLLATE BINARY DESC
		LIMIT 1
	`, id.Year, id.Day, id.Part, value).Scan(&outcome)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read submission outcome: %w", err)
	}
	return outcome, true, nil
}
