package mysql

import (
	"context"

	"gorm.io/gorm"

	"proposal-review-service/internal/domain/proposal"
	"proposal-review-service/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Activities: &ActivityRepository{db: tx},
		Proposals:  &ProposalRepository{db: tx},
		Documents:  &DocumentRepository{db: tx},
		Reviews:    &ReviewRepository{db: tx},
	}
}

// Repos returns repositories bound to the pool (no transaction), for read paths.
func (u *GormUoW) Repos() uow.Repos { return reposFor(u.db) }

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinProposalTx(ctx context.Context, proposalID string, fn func(r uow.Repos, p *proposal.Proposal) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the proposal row up-front so concurrent reviews serialize on it
		p, err := r.Proposals.GetByIDForUpdate(ctx, proposalID)
		if err != nil {
			return err
		}
		return fn(r, p)
	})
}
