package activitymock

import (
	"context"

	domain "proposal-review-service/internal/domain/activity"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies activity.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, a *domain.Activity) error
	GetWithTemplatesFn func(ctx context.Context, id string) (*domain.Activity, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Activity) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetWithTemplates(ctx context.Context, id string) (*domain.Activity, error) {
	if m.GetWithTemplatesFn != nil {
		return m.GetWithTemplatesFn(ctx, id)
	}
	return nil, context.Canceled
}
