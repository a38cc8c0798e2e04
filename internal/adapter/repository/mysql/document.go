package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"proposal-review-service/internal/domain/proposal"
)

type DocumentRepository struct{ db *gorm.DB }

func NewDocumentRepository(db *gorm.DB) *DocumentRepository { return &DocumentRepository{db: db} }

func (r *DocumentRepository) CreateBatch(ctx context.Context, docs []proposal.DocumentProposal) error {
	if len(docs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&docs).Error
}

func (r *DocumentRepository) CreateExtra(ctx context.Context, e *proposal.ExtraDocumentProposal) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *DocumentRepository) ListByProposal(ctx context.Context, proposalID string) ([]proposal.DocumentProposal, error) {
	var out []proposal.DocumentProposal
	err := r.db.WithContext(ctx).
		Preload("Template").
		Where("proposal_id = ?", proposalID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *DocumentRepository) FindAttachment(ctx context.Context, path string) (*proposal.Attachment, error) {
	for _, model := range []any{&proposal.DocumentProposal{}, &proposal.ExtraDocumentProposal{}} {
		var mimetypes []string
		err := r.db.WithContext(ctx).Model(model).
			Where("attachment_path = ?", path).
			Limit(1).
			Pluck("mimetype", &mimetypes).Error
		if err != nil {
			return nil, err
		}
		if len(mimetypes) > 0 {
			return &proposal.Attachment{Path: path, Mimetype: mimetypes[0]}, nil
		}
	}
	return nil, proposal.ErrAttachmentMissing
}

func (r *DocumentRepository) MarkPassed(ctx context.Context, proposalID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&proposal.DocumentProposal{}).
		Where("proposal_id = ? AND id IN ?", proposalID, ids).
		Update("pass", true)
	return res.RowsAffected, res.Error
}
