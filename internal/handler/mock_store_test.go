package handler

import (
	"context"
	"sort"
	"time"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

// memStore keeps everything in maps. Methods the route tests never reach
// report domain.ErrNotFound or succeed without effect.
type memStore struct {
	activities  map[int64]*domain.Activity
	submissions []*domain.Submission
	placements  map[domain.PlacementKey]*domain.Placement
	nextID      int64

	// requested records every GetSubmissionsByIDs call.
	requested [][]string
}

func newMemStore() *memStore {
	return &memStore{
		activities: make(map[int64]*domain.Activity),
		placements: make(map[domain.PlacementKey]*domain.Placement),
	}
}

func (m *memStore) CreateAccount(context.Context, *domain.Account) error { return nil }

func (m *memStore) GetAccountByEmail(context.Context, string) (*domain.Account, error) {
	return nil, domain.ErrNotFound
}

func (m *memStore) UpdateAccountPassword(context.Context, *domain.Account) error { return nil }

func (m *memStore) CreateActivity(_ context.Context, a *domain.Activity) error {
	m.nextID++
	a.ID = m.nextID
	a.Version = 1
	clone := *a
	m.activities[a.ID] = &clone
	return nil
}

func (m *memStore) GetActivityByID(_ context.Context, id int64) (*domain.Activity, error) {
	if a, ok := m.activities[id]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) ListActivities(_ context.Context, season string) ([]*domain.Activity, error) {
	res := make([]*domain.Activity, 0)
	for _, a := range m.activities {
		if season == "" || a.Season == season {
			res = append(res, a)
		}
	}
	return res, nil
}

func (m *memStore) UpdateActivity(context.Context, *domain.Activity) error { return nil }

func (m *memStore) DeleteActivity(context.Context, int64) error { return nil }

func (m *memStore) UpsertSubmission(_ context.Context, s *domain.Submission) error {
	m.submissions = append(m.submissions, s)
	return nil
}

func (m *memStore) GetSubmissionsBySeason(_ context.Context, season string) ([]*domain.Submission, error) {
	res := make([]*domain.Submission, 0)
	for _, s := range m.submissions {
		if season == "" || s.Season == season {
			res = append(res, s)
		}
	}
	return res, nil
}

func (m *memStore) GetSubmissionsByAccount(context.Context, int64, string) ([]*domain.Submission, error) {
	return []*domain.Submission{}, nil
}

func (m *memStore) GetSubmissionsByIDs(_ context.Context, ids []string) ([]*domain.Submission, error) {
	m.requested = append(m.requested, ids)
	res := make([]*domain.Submission, 0)
	for _, s := range m.submissions {
		for _, id := range ids {
			if s.ID == id {
				res = append(res, s)
			}
		}
	}
	return res, nil
}

func (m *memStore) GetPlacementByKey(_ context.Context, key domain.PlacementKey) (*domain.Placement, error) {
	if p, ok := m.placements[key]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) GetPlacementByID(_ context.Context, id int64) (*domain.Placement, error) {
	for _, p := range m.placements {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) ListPlacements(_ context.Context, season string, activityID int64) ([]*domain.Placement, error) {
	res := make([]*domain.Placement, 0)
	for _, p := range m.placements {
		if (season == "" || p.Season == season) && (activityID == 0 || p.ActivityID == activityID) {
			clone := *p
			res = append(res, &clone)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *memStore) CreatePlacement(_ context.Context, p *domain.Placement) error {
	if _, ok := m.placements[p.Key()]; ok {
		return domain.ErrConflict
	}
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	p.Version = 1
	clone := *p
	m.placements[p.Key()] = &clone
	return nil
}

func (m *memStore) UpdatePlacement(_ context.Context, p *domain.Placement, expectedVersion int32) error {
	stored, ok := m.placements[p.Key()]
	if !ok || stored.Version != expectedVersion {
		return domain.ErrConflict
	}
	p.Version = expectedVersion + 1
	p.UpdatedAt = time.Now()
	clone := *p
	m.placements[p.Key()] = &clone
	return nil
}

func (m *memStore) DeletePlacement(_ context.Context, id int64) error {
	for key, p := range m.placements {
		if p.ID == id {
			delete(m.placements, key)
			return nil
		}
	}
	return domain.ErrNotFound
}
