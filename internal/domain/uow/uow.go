package uow

import (
	"context"

	"proposal-review-service/internal/domain/activity"
	"proposal-review-service/internal/domain/proposal"
	"proposal-review-service/internal/domain/review"
)

// Repos are bound to one transaction.
type Repos struct {
	Activities activity.Repository
	Proposals  proposal.Repository
	Documents  proposal.DocumentRepository
	Reviews    review.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the proposal row first, then pass it in
	WithinProposalTx(ctx context.Context, proposalID string, fn func(r Repos, p *proposal.Proposal) error) error
}
