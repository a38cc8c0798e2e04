package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"proposal-review-service/internal/domain/proposal"
	"proposal-review-service/internal/domain/review"
)

type ProposalRepository struct{ db *gorm.DB }

func NewProposalRepository(db *gorm.DB) *ProposalRepository { return &ProposalRepository{db: db} }

func (r *ProposalRepository) Create(ctx context.Context, p *proposal.Proposal) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return proposal.ErrDuplicateCode
	}
	return err
}

func (r *ProposalRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Activity").
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Documents.Template").
		Preload("ExtraDocuments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") })
}

func (r *ProposalRepository) first(q *gorm.DB) (*proposal.Proposal, error) {
	var out proposal.Proposal
	err := q.First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, proposal.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ProposalRepository) GetByID(ctx context.Context, id string) (*proposal.Proposal, error) {
	return r.first(r.withRelations(ctx).Where("id = ?", id))
}

// GetByIDForUpdate takes a row lock (SELECT ... FOR UPDATE). Call it inside a transaction.
func (r *ProposalRepository) GetByIDForUpdate(ctx context.Context, id string) (*proposal.Proposal, error) {
	return r.first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *ProposalRepository) GetByCodes(ctx context.Context, code, securityCode string) (*proposal.Proposal, error) {
	return r.first(r.withRelations(ctx).Where("code = ? AND security_code = ?", code, securityCode))
}

func (r *ProposalRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&proposal.Proposal{}).Where("code = ?", code).Count(&n).Error
	return n > 0, err
}

func (r *ProposalRepository) List(ctx context.Context, f proposal.ListFilter) ([]proposal.Proposal, error) {
	order := "created_at ASC, id ASC"
	if f.Desc {
		order = "created_at DESC, id DESC"
	}
	q := r.db.WithContext(ctx).Preload("Activity").Order(order).Offset(f.Offset).Limit(f.Limit)
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	var out []proposal.Proposal
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProposalRepository) Count(ctx context.Context, status *proposal.Status) (int64, error) {
	q := r.db.WithContext(ctx).Model(&proposal.Proposal{})
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *ProposalRepository) SaveDetails(ctx context.Context, p *proposal.Proposal) error {
	p.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&proposal.Proposal{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"full_name":  p.FullName,
			"email":      p.Email,
			"phone":      p.Phone,
			"address":    p.Address,
			"note":       p.Note,
			"state":      p.State,
			"respond":    p.Respond,
			"updated_at": p.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return proposal.ErrNotFound
	}
	return nil
}

// TransitionStatus is the guarded write: the WHERE clause re-checks the current status so
// a concurrent writer that got there first leaves zero rows affected.
func (r *ProposalRepository) TransitionStatus(ctx context.Context, id string, to proposal.Status, from []proposal.Status) (int64, error) {
	res := r.db.WithContext(ctx).Model(&proposal.Proposal{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

// Delete removes children first so it works with or without FK cascades.
func (r *ProposalRepository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("proposal_id = ?", id).Delete(&review.Review{}).Error; err != nil {
		return err
	}
	if err := db.Where("proposal_id = ?", id).Delete(&proposal.DocumentProposal{}).Error; err != nil {
		return err
	}
	if err := db.Where("proposal_id = ?", id).Delete(&proposal.ExtraDocumentProposal{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&proposal.Proposal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return proposal.ErrNotFound
	}
	return nil
}
