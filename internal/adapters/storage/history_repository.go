package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xvierd/unfocus/internal/domain"
	"github.com/xvierd/unfocus/internal/ports"
)

// historyRepository implements ports.HistoryRepository using SQLite.
// Timestamps are written in UTC so range queries compare consistently.
type historyRepository struct {
	db *sql.DB
}

// newHistoryRepository creates a new history repository.
func newHistoryRepository(db *sql.DB) ports.HistoryRepository {
	return &historyRepository{db: db}
}

// RecordBreak appends a finished break.
func (r *historyRepository) RecordBreak(ctx context.Context, rec domain.BreakRecord) error {
	query := `
		INSERT INTO breaks (id, session_id, type, duration_seconds, outcome, at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		nullIfEmpty(rec.SessionID),
		string(rec.Type),
		rec.DurationSeconds,
		string(rec.Outcome),
		rec.At.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save break: %w", err)
	}

	return nil
}

// RecordSession appends a finished session.
func (r *historyRepository) RecordSession(ctx context.Context, rec domain.SessionRecord) error {
	query := `
		INSERT INTO sessions (
			id, started_at, ended_at, git_branch, git_repository,
			breaks_taken, breaks_skipped, presence_seconds
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.StartedAt.UTC(),
		rec.EndedAt.UTC(),
		nullIfEmpty(rec.GitBranch),
		nullIfEmpty(rec.GitRepository),
		rec.BreaksTaken,
		rec.BreaksSkipped,
		rec.PresenceSeconds,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// FindBreaks returns breaks recorded at or after since, oldest first.
func (r *historyRepository) FindBreaks(ctx context.Context, since time.Time) ([]domain.BreakRecord, error) {
	query := `
		SELECT id, session_id, type, duration_seconds, outcome, at
		FROM breaks
		WHERE at >= ?
		ORDER BY at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query breaks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []domain.BreakRecord
	for rows.Next() {
		var rec domain.BreakRecord
		var sessionID sql.NullString
		var breakType, outcome string

		if err := rows.Scan(&rec.ID, &sessionID, &breakType, &rec.DurationSeconds, &outcome, &rec.At); err != nil {
			return nil, fmt.Errorf("failed to scan break: %w", err)
		}

		rec.SessionID = sessionID.String
		rec.Type = domain.BreakType(breakType)
		rec.Outcome = domain.BreakOutcome(outcome)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// FindSessions returns sessions started at or after since, oldest first.
func (r *historyRepository) FindSessions(ctx context.Context, since time.Time) ([]domain.SessionRecord, error) {
	query := `
		SELECT
			id, started_at, ended_at, git_branch, git_repository,
			breaks_taken, breaks_skipped, presence_seconds
		FROM sessions
		WHERE started_at >= ?
		ORDER BY started_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []domain.SessionRecord
	for rows.Next() {
		var rec domain.SessionRecord
		var branch, repository sql.NullString

		err := rows.Scan(
			&rec.ID,
			&rec.StartedAt,
			&rec.EndedAt,
			&branch,
			&repository,
			&rec.BreaksTaken,
			&rec.BreaksSkipped,
			&rec.PresenceSeconds,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		rec.GitBranch = branch.String
		rec.GitRepository = repository.String
		records = append(records, rec)
	}

	return records, rows.Err()
}

// DailyTotals aggregates break history per local calendar day. Days are
// bucketed in Go so the grouping follows the caller's time zone rather
// than SQLite's.
func (r *historyRepository) DailyTotals(ctx context.Context, since time.Time) ([]domain.DailyTotal, error) {
	breaks, err := r.FindBreaks(ctx, since)
	if err != nil {
		return nil, err
	}

	var totals []domain.DailyTotal
	index := make(map[string]int)
	for _, b := range breaks {
		day := domain.DateOf(b.At.In(since.Location())).String()
		i, ok := index[day]
		if !ok {
			totals = append(totals, domain.DailyTotal{Date: day})
			i = len(totals) - 1
			index[day] = i
		}
		switch b.Outcome {
		case domain.OutcomeCompleted:
			totals[i].BreaksTaken++
			totals[i].PresenceSeconds += b.DurationSeconds
		case domain.OutcomeSkipped:
			totals[i].BreaksSkipped++
		}
	}

	return totals, nil
}

// Clear removes all break and session history.
func (r *historyRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM breaks`); err != nil {
		return fmt.Errorf("failed to clear breaks: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}
	return nil
}

// nullIfEmpty maps "" to SQL NULL.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
