package reviewmock

import (
	"context"

	domain "proposal-review-service/internal/domain/review"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies review.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, r *domain.Review) error
	GetByIDFn          func(ctx context.Context, id string) (*domain.Review, error)
	GetByIDForUpdateFn func(ctx context.Context, id string) (*domain.Review, error)
	ListByProposalFn   func(ctx context.Context, proposalID string) ([]domain.Review, error)
	ListFn             func(ctx context.Context, f domain.ListFilter) ([]domain.Review, error)
	CountFn            func(ctx context.Context, proposalID *string) (int64, error)
	SaveDecisionFn     func(ctx context.Context, r *domain.Review) error
	DeleteFn           func(ctx context.Context, id string) (int64, error)
	GetReviewerFn      func(ctx context.Context, id string) (*domain.Reviewer, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.Review) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Review, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByProposal(ctx context.Context, proposalID string) ([]domain.Review, error) {
	if m.ListByProposalFn != nil {
		return m.ListByProposalFn(ctx, proposalID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Review, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, context.Canceled
}

func (m *Repo) Count(ctx context.Context, proposalID *string) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, proposalID)
	}
	return 0, context.Canceled
}

func (m *Repo) SaveDecision(ctx context.Context, r *domain.Review) error {
	if m.SaveDecisionFn != nil {
		return m.SaveDecisionFn(ctx, r)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id string) (int64, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return 0, context.Canceled
}

func (m *Repo) GetReviewer(ctx context.Context, id string) (*domain.Reviewer, error) {
	if m.GetReviewerFn != nil {
		return m.GetReviewerFn(ctx, id)
	}
	return nil, context.Canceled
}
