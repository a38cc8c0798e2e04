package activity

import "context"

type Repository interface {
	// Create an activity together with its templates (seeding/admin tooling)
	Create(ctx context.Context, a *Activity) error

	// Get by id with templates ordered by display_order
	GetWithTemplates(ctx context.Context, id string) (*Activity, error)
}
