package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

const placementColumns = `
	id, activity_id, season, location, slot_label, lanes, waitlist, created_at, updated_at, version
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlacement(row rowScanner) (*domain.Placement, error) {
	var (
		p        domain.Placement
		lanes    []byte
		waitlist []byte
	)

	dst := []any{
		&p.ID,
		&p.ActivityID,
		&p.Season,
		&p.Location,
		&p.SlotLabel,
		&lanes,
		&waitlist,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(lanes, &p.Lanes); err != nil {
		return nil, fmt.Errorf("decode lanes of placement %d: %w", p.ID, err)
	}
	if err := json.Unmarshal(waitlist, &p.Waitlist); err != nil {
		return nil, fmt.Errorf("decode waitlist of placement %d: %w", p.ID, err)
	}

	return &p, nil
}

func encodePlacement(p *domain.Placement) (string, string, error) {
	if p.Lanes == nil {
		p.Lanes = []domain.Lane{}
	}
	if p.Waitlist == nil {
		p.Waitlist = []domain.WaitlistEntry{}
	}
	lanes, err := json.Marshal(p.Lanes)
	if err != nil {
		return "", "", fmt.Errorf("encode lanes: %w", err)
	}
	waitlist, err := json.Marshal(p.Waitlist)
	if err != nil {
		return "", "", fmt.Errorf("encode waitlist: %w", err)
	}
	return string(lanes), string(waitlist), nil
}

func (r *Repository) GetPlacementByKey(ctx context.Context, key domain.PlacementKey) (*domain.Placement, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT ` + placementColumns + ` FROM placements
		WHERE activity_id = $1 AND season = $2 AND location = $3 AND slot_label = $4
	`

	p, err := scanPlacement(r.dbpool.QueryRowContext(ctx, query, key.ActivityID, key.Season, key.Location, key.SlotLabel))
	if err != nil {
		return nil, translateError(err)
	}
	return p, nil
}

func (r *Repository) GetPlacementByID(ctx context.Context, id int64) (*domain.Placement, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `SELECT ` + placementColumns + ` FROM placements WHERE id = $1`

	p, err := scanPlacement(r.dbpool.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return p, nil
}

// ListPlacements returns the placements of a season; activityID 0 lists
// every activity. An empty season lists every season.
func (r *Repository) ListPlacements(ctx context.Context, season string, activityID int64) ([]*domain.Placement, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT ` + placementColumns + ` FROM placements
		WHERE ($1 = '' OR season = $1) AND ($2 = 0 OR activity_id = $2)
		ORDER BY activity_id, location, slot_label
	`

	rows, err := r.dbpool.QueryContext(ctx, query, season, activityID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	placements := make([]*domain.Placement, 0)
	for rows.Next() {
		p, err := scanPlacement(rows)
		if err != nil {
			return nil, err
		}
		placements = append(placements, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return placements, nil
}

func (r *Repository) CreatePlacement(ctx context.Context, p *domain.Placement) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	lanes, waitlist, err := encodePlacement(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO placements (activity_id, season, location, slot_label, lanes, waitlist)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at, version
	`

	args := []any{p.ActivityID, p.Season, p.Location, p.SlotLabel, lanes, waitlist}
	dst := []any{&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return translateError(err)
	}

	return nil
}

// UpdatePlacement replaces lanes and waitlist only when the stored version
// still equals expectedVersion; otherwise domain.ErrConflict is returned.
func (r *Repository) UpdatePlacement(ctx context.Context, p *domain.Placement, expectedVersion int32) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	lanes, waitlist, err := encodePlacement(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE placements
		SET
			lanes = $1,
			waitlist = $2,
			updated_at = NOW(),
			version = version + 1
		WHERE activity_id = $3 AND season = $4 AND location = $5 AND slot_label = $6 AND version = $7
		RETURNING id, created_at, updated_at, version
	`

	args := []any{lanes, waitlist, p.ActivityID, p.Season, p.Location, p.SlotLabel, expectedVersion}
	dst := []any{&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("placement %s %s is not at version %d: %w", p.Location, p.SlotLabel, expectedVersion, domain.ErrConflict)
		}
		return translateError(err)
	}

	return nil
}

func (r *Repository) DeletePlacement(ctx context.Context, id int64) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, `DELETE FROM placements WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	return nil
}
