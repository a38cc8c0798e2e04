package review

import "context"

type ListFilter struct {
	Offset     int
	Limit      int
	ProposalID *string
}

type Repository interface {
	// Create a review (DB uniqueness ensures one row per proposal+reviewer)
	Create(ctx context.Context, r *Review) error

	// Get by id with reviewer
	GetByID(ctx context.Context, id string) (*Review, error)

	// Get by id without relations, locked until the tx ends
	GetByIDForUpdate(ctx context.Context, id string) (*Review, error)

	// Reviews of a proposal, oldest first, with reviewer
	ListByProposal(ctx context.Context, proposalID string) ([]Review, error)

	List(ctx context.Context, f ListFilter) ([]Review, error)
	Count(ctx context.Context, proposalID *string) (int64, error)

	// Overwrite accepted/comments
	SaveDecision(ctx context.Context, r *Review) error

	Delete(ctx context.Context, id string) (int64, error)

	// Reviewer account by id (users table)
	GetReviewer(ctx context.Context, id string) (*Reviewer, error)
}
