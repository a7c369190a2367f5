package placement

import (
	"context"
	"time"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

type mockStore struct {
	activities map[int64]*domain.Activity
	placements map[domain.PlacementKey]*domain.Placement
	nextID     int64
	writes     int
}

func newMockStore() *mockStore {
	return &mockStore{
		activities: map[int64]*domain.Activity{
			1: {ID: 1, Season: "summer-2025", Name: "Stroke clinic"},
			2: {ID: 2, Season: "summer-2025", Name: "Camp", DefaultLaneCapacity: 5},
		},
		placements: make(map[domain.PlacementKey]*domain.Placement),
	}
}

func (m *mockStore) GetActivityByID(_ context.Context, id int64) (*domain.Activity, error) {
	if a, ok := m.activities[id]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) GetPlacementByKey(_ context.Context, key domain.PlacementKey) (*domain.Placement, error) {
	if p, ok := m.placements[key]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreatePlacement(_ context.Context, p *domain.Placement) error {
	if _, ok := m.placements[p.Key()]; ok {
		return domain.ErrConflict
	}
	m.nextID++
	m.writes++
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	p.Version = 1
	clone := *p
	m.placements[p.Key()] = &clone
	return nil
}

func (m *mockStore) UpdatePlacement(_ context.Context, p *domain.Placement, expectedVersion int32) error {
	stored, ok := m.placements[p.Key()]
	if !ok || stored.Version != expectedVersion {
		return domain.ErrConflict
	}
	m.writes++
	p.Version = expectedVersion + 1
	p.UpdatedAt = time.Now()
	clone := *p
	m.placements[p.Key()] = &clone
	return nil
}
