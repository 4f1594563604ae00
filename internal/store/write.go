package store

import (
	"context"
	"fmt"
)

// PutAnswer inserts or replaces the answer record of rec.ID.
// There is exactly one record per (year, day, part).
func (s *Store) PutAnswer(ctx context.Context, rec AnswerRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO answers (year, day, part, value, status, fingerprint, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(year, day, part) DO UPDATE SET
			value = excluded.value,
			status = excluded.status,
			fingerprint = excluded.fingerprint,
			seq = excluded.seq
	`,
		rec.ID.Year,
		rec.ID.Day,
		rec.ID.Part,
		rec.Value,
		string(rec.Status),
		rec.Fingerprint,
		rec.Seq,
	)
	if err != nil {
		return fmt.Errorf("write answer: %w", err)
	}
	return nil
}

// AppendSubmission records a submission attempt.
// Uses ON CONFLICT(attempt_id) DO NOTHING for idempotency - writing the same
// attempt twice is silently ignored.
func (s *Store) AppendSubmission(ctx context.Context, sub Submission) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (attempt_id, year, day, part, value, outcome, message, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(attempt_id) DO NOTHING
	`,
		sub.AttemptID,
		sub.ID.Year,
		sub.ID.Day,
		sub.ID.Part,
		sub.Value,
		sub.Outcome,
		sub.Message,
		sub.Seq,
	)
	if err != nil {
		return fmt.Errorf("write submission: %w", err)
	}
	return nil
}
