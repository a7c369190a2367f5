package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

const submissionColumns = `
	id, season, activity_id, account_id, swimmer_id, swimmer_name, level,
	parent_email, parent_phone, preferences, submitted_at, updated_at
`

// UpsertSubmission inserts the submission or, when a row with the same
// deterministic id exists, replaces its content while keeping the original
// submitted_at so the swimmer keeps their place in line.
func (r *Repository) UpsertSubmission(ctx context.Context, s *domain.Submission) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return upsertSubmission(ctx, r.dbpool, s)
}

// UpsertSubmissions writes a batch in one transaction; either every
// submission is stored or none is.
func (r *Repository) UpsertSubmissions(ctx context.Context, submissions []*domain.Submission) error {
	ctx, cancel := r.txContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, s := range submissions {
		if err := upsertSubmission(ctx, tx, s); err != nil {
			return fmt.Errorf("submission of %s: %w", s.SwimmerName, err)
		}
	}

	return tx.Commit()
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func upsertSubmission(ctx context.Context, q queryRower, s *domain.Submission) error {
	prefs, err := json.Marshal(s.Preferences)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	query := `
		INSERT INTO submissions (
			id, season, activity_id, account_id, swimmer_id, swimmer_name, level,
			parent_email, parent_phone, preferences, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11, NOW()))
		ON CONFLICT (id) DO UPDATE SET
			activity_id = EXCLUDED.activity_id,
			account_id = COALESCE(EXCLUDED.account_id, submissions.account_id),
			swimmer_id = COALESCE(EXCLUDED.swimmer_id, submissions.swimmer_id),
			swimmer_name = EXCLUDED.swimmer_name,
			level = EXCLUDED.level,
			parent_phone = EXCLUDED.parent_phone,
			preferences = EXCLUDED.preferences,
			updated_at = NOW()
		RETURNING submitted_at, updated_at
	`

	var submittedAt sql.NullTime
	if !s.SubmittedAt.IsZero() {
		submittedAt = sql.NullTime{Time: s.SubmittedAt, Valid: true}
	}

	args := []any{
		s.ID,
		s.Season,
		s.ActivityID,
		s.AccountID,
		s.SwimmerID,
		s.SwimmerName,
		string(s.Level),
		s.ParentEmail,
		s.ParentPhone,
		string(prefs),
		submittedAt,
	}

	if err := q.QueryRowContext(ctx, query, args...).Scan(&s.SubmittedAt, &s.UpdatedAt); err != nil {
		return translateError(err)
	}

	return nil
}

// GetSubmissionsBySeason returns every season's submissions when season is empty.
func (r *Repository) GetSubmissionsBySeason(ctx context.Context, season string) ([]*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE ($1 = '' OR season = $1) ORDER BY submitted_at, id`
	return r.querySubmissions(ctx, query, season)
}

func (r *Repository) GetSubmissionsByAccount(ctx context.Context, accountID int64, season string) ([]*domain.Submission, error) {
	query := `
		SELECT ` + submissionColumns + ` FROM submissions
		WHERE account_id = $1 AND ($2 = '' OR season = $2)
		ORDER BY submitted_at, id
	`
	return r.querySubmissions(ctx, query, accountID, season)
}

func (r *Repository) GetSubmissionsByIDs(ctx context.Context, ids []string) ([]*domain.Submission, error) {
	if len(ids) == 0 {
		return []*domain.Submission{}, nil
	}
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = ANY($1::uuid[])`
	return r.querySubmissions(ctx, query, ids)
}

func (r *Repository) querySubmissions(ctx context.Context, query string, args ...any) ([]*domain.Submission, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	submissions := make([]*domain.Submission, 0)
	for rows.Next() {
		var (
			s         domain.Submission
			accountID sql.NullInt64
			swimmerID sql.NullString
			level     string
			prefs     []byte
		)

		dst := []any{
			&s.ID,
			&s.Season,
			&s.ActivityID,
			&accountID,
			&swimmerID,
			&s.SwimmerName,
			&level,
			&s.ParentEmail,
			&s.ParentPhone,
			&prefs,
			&s.SubmittedAt,
			&s.UpdatedAt,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		s.Level = domain.Level(level)
		if accountID.Valid {
			s.AccountID = &accountID.Int64
		}
		if swimmerID.Valid {
			s.SwimmerID = &swimmerID.String
		}
		if err := json.Unmarshal(prefs, &s.Preferences); err != nil {
			return nil, fmt.Errorf("decode preferences of submission %s: %w", s.ID, err)
		}

		submissions = append(submissions, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return submissions, nil
}
