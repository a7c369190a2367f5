package handler

import (
	"context"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
	"github.com/bluewave-swim/backoffice/backend/internal/placement"
)

// Store is the persistence behind the routes. *repository.Repository
// implements it.
type Store interface {
	placement.Store

	CreateAccount(ctx context.Context, a *domain.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	UpdateAccountPassword(ctx context.Context, a *domain.Account) error

	CreateActivity(ctx context.Context, a *domain.Activity) error
	ListActivities(ctx context.Context, season string) ([]*domain.Activity, error)
	UpdateActivity(ctx context.Context, a *domain.Activity) error
	DeleteActivity(ctx context.Context, id int64) error

	UpsertSubmission(ctx context.Context, s *domain.Submission) error
	GetSubmissionsBySeason(ctx context.Context, season string) ([]*domain.Submission, error)
	GetSubmissionsByAccount(ctx context.Context, accountID int64, season string) ([]*domain.Submission, error)
	GetSubmissionsByIDs(ctx context.Context, ids []string) ([]*domain.Submission, error)

	GetPlacementByID(ctx context.Context, id int64) (*domain.Placement, error)
	ListPlacements(ctx context.Context, season string, activityID int64) ([]*domain.Placement, error)
	DeletePlacement(ctx context.Context, id int64) error
}
