package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

const activityColumns = `id, season, name, kind, default_lane_capacity, locations, created_at, version`

func scanActivity(row rowScanner) (*domain.Activity, error) {
	var (
		a         domain.Activity
		kind      string
		locations []byte
	)

	dst := []any{&a.ID, &a.Season, &a.Name, &kind, &a.DefaultLaneCapacity, &locations, &a.CreatedAt, &a.Version}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	a.Kind = domain.ActivityKind(kind)
	if err := json.Unmarshal(locations, &a.Locations); err != nil {
		return nil, fmt.Errorf("decode locations of activity %d: %w", a.ID, err)
	}

	return &a, nil
}

func (r *Repository) CreateActivity(ctx context.Context, a *domain.Activity) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	locations, err := json.Marshal(a.Locations)
	if err != nil {
		return fmt.Errorf("encode locations: %w", err)
	}

	query := `
		INSERT INTO activities (season, name, kind, default_lane_capacity, locations)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	args := []any{a.Season, a.Name, string(a.Kind), a.LaneCapacity(), string(locations)}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.Version); err != nil {
		return translateError(err)
	}
	a.DefaultLaneCapacity = a.LaneCapacity()

	return nil
}

func (r *Repository) GetActivityByID(ctx context.Context, id int64) (*domain.Activity, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`

	a, err := scanActivity(r.dbpool.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return a, nil
}

func (r *Repository) ListActivities(ctx context.Context, season string) ([]*domain.Activity, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT ` + activityColumns + ` FROM activities
		WHERE $1 = '' OR season = $1
		ORDER BY season DESC, name
	`

	rows, err := r.dbpool.QueryContext(ctx, query, season)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	activities := make([]*domain.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *Repository) UpdateActivity(ctx context.Context, a *domain.Activity) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	locations, err := json.Marshal(a.Locations)
	if err != nil {
		return fmt.Errorf("encode locations: %w", err)
	}

	query := `
		UPDATE activities
		SET
			name = $1,
			kind = $2,
			default_lane_capacity = $3,
			locations = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	args := []any{a.Name, string(a.Kind), a.LaneCapacity(), string(locations), a.ID, a.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&a.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrConflict
		}
		return translateError(err)
	}

	return nil
}

func (r *Repository) DeleteActivity(ctx context.Context, id int64) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id); err != nil {
		return translateError(err)
	}

	return nil
}
