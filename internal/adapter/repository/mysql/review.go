package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"proposal-review-service/internal/domain/review"
)

type ReviewRepository struct{ db *gorm.DB }

func NewReviewRepository(db *gorm.DB) *ReviewRepository { return &ReviewRepository{db: db} }

// Create relies on ux_reviews_proposal_reviewer for one review per reviewer and proposal.
func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(rv).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return review.ErrAlreadyReviewed
	}
	return err
}

func (r *ReviewRepository) first(q *gorm.DB) (*review.Review, error) {
	var out review.Review
	err := q.First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, review.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*review.Review, error) {
	return r.first(r.db.WithContext(ctx).Preload("Reviewer").Where("id = ?", id))
}

func (r *ReviewRepository) GetByIDForUpdate(ctx context.Context, id string) (*review.Review, error) {
	return r.first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *ReviewRepository) ListByProposal(ctx context.Context, proposalID string) ([]review.Review, error) {
	var out []review.Review
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Where("proposal_id = ?", proposalID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *ReviewRepository) List(ctx context.Context, f review.ListFilter) ([]review.Review, error) {
	q := r.db.WithContext(ctx).
		Preload("Reviewer").
		Order("created_at DESC, id DESC").
		Offset(f.Offset).
		Limit(f.Limit)
	if f.ProposalID != nil {
		q = q.Where("proposal_id = ?", *f.ProposalID)
	}
	var out []review.Review
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReviewRepository) Count(ctx context.Context, proposalID *string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&review.Review{})
	if proposalID != nil {
		q = q.Where("proposal_id = ?", *proposalID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *ReviewRepository) SaveDecision(ctx context.Context, rv *review.Review) error {
	rv.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&review.Review{}).
		Where("id = ?", rv.ID).
		Updates(map[string]any{
			"accepted":   rv.Accepted,
			"comments":   rv.Comments,
			"updated_at": rv.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return review.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&review.Review{})
	return res.RowsAffected, res.Error
}

func (r *ReviewRepository) GetReviewer(ctx context.Context, id string) (*review.Reviewer, error) {
	var out review.Reviewer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, review.ErrReviewerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
