// Package placement validates and writes lane assignments and waitlists for
// clinic slots.
package placement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

// Store is the persistence the mutator needs. Create must fail with
// domain.ErrConflict when the key exists; Update must fail with
// domain.ErrConflict when the stored version differs from expectedVersion.
type Store interface {
	GetActivityByID(ctx context.Context, id int64) (*domain.Activity, error)
	GetPlacementByKey(ctx context.Context, key domain.PlacementKey) (*domain.Placement, error)
	CreatePlacement(ctx context.Context, p *domain.Placement) error
	UpdatePlacement(ctx context.Context, p *domain.Placement, expectedVersion int32) error
}

type UpsertRequest struct {
	ActivityID int64
	Season     string
	Location   string
	SlotLabel  string
	Lanes      []domain.Lane
	Waitlist   []domain.WaitlistEntry
	// Version is the version the caller last read. 0 means the caller
	// expects to create the placement.
	Version int32
}

func (req *UpsertRequest) key() domain.PlacementKey {
	return domain.PlacementKey{
		ActivityID: req.ActivityID,
		Season:     strings.TrimSpace(req.Season),
		Location:   strings.TrimSpace(req.Location),
		SlotLabel:  strings.TrimSpace(req.SlotLabel),
	}
}

type Mutator struct {
	store Store
}

func NewMutator(store Store) *Mutator {
	return &Mutator{store: store}
}

// Upsert validates the whole request and then writes it once. Nothing is
// written when validation fails or the version check loses.
func (m *Mutator) Upsert(ctx context.Context, req *UpsertRequest) (*Change, error) {
	if req.ActivityID <= 0 {
		return nil, domain.NewValidationError("activityID", "is required")
	}

	activity, err := m.store.GetActivityByID(ctx, req.ActivityID)
	if err != nil {
		return nil, fmt.Errorf("activity %d: %w", req.ActivityID, err)
	}

	lanes, waitlist, err := Validate(req, activity.LaneCapacity())
	if err != nil {
		return nil, err
	}

	key := req.key()
	if key.Season != activity.Season {
		return nil, domain.NewValidationError("season", "activity %d belongs to season %s", activity.ID, activity.Season)
	}

	previous, err := m.store.GetPlacementByKey(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	p := &domain.Placement{
		ActivityID: key.ActivityID,
		Season:     key.Season,
		Location:   key.Location,
		SlotLabel:  key.SlotLabel,
		Lanes:      lanes,
		Waitlist:   waitlist,
	}

	switch {
	case req.Version == 0 && previous != nil:
		return nil, fmt.Errorf("placement for %s %s already exists at version %d: %w", key.Location, key.SlotLabel, previous.Version, domain.ErrConflict)
	case req.Version == 0:
		if err := m.store.CreatePlacement(ctx, p); err != nil {
			return nil, err
		}
	case previous == nil:
		return nil, fmt.Errorf("placement for %s %s no longer exists: %w", key.Location, key.SlotLabel, domain.ErrConflict)
	default:
		p.ID = previous.ID
		p.CreatedAt = previous.CreatedAt
		if err := m.store.UpdatePlacement(ctx, p, req.Version); err != nil {
			return nil, err
		}
	}

	return &Change{Activity: activity, Previous: previous, Current: p}, nil
}
