package proposalmock

import (
	"context"

	domain "proposal-review-service/internal/domain/proposal"
)

var (
	_ domain.Repository         = (*Repo)(nil)
	_ domain.DocumentRepository = (*DocRepo)(nil)
)

// Repo is a function-backed mock that satisfies proposal.Repository.
// Unset reads return context.Canceled; unset writes are no-ops.
type Repo struct {
	CreateFn           func(ctx context.Context, p *domain.Proposal) error
	GetByIDFn          func(ctx context.Context, id string) (*domain.Proposal, error)
	GetByIDForUpdateFn func(ctx context.Context, id string) (*domain.Proposal, error)
	GetByCodesFn       func(ctx context.Context, code, securityCode string) (*domain.Proposal, error)
	CodeExistsFn       func(ctx context.Context, code string) (bool, error)
	ListFn             func(ctx context.Context, f domain.ListFilter) ([]domain.Proposal, error)
	CountFn            func(ctx context.Context, status *domain.Status) (int64, error)
	SaveDetailsFn      func(ctx context.Context, p *domain.Proposal) error
	TransitionStatusFn func(ctx context.Context, id string, to domain.Status, from []domain.Status) (int64, error)
	DeleteFn           func(ctx context.Context, id string) error
}

func (m *Repo) Create(ctx context.Context, p *domain.Proposal) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Proposal, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Proposal, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByCodes(ctx context.Context, code, securityCode string) (*domain.Proposal, error) {
	if m.GetByCodesFn != nil {
		return m.GetByCodesFn(ctx, code, securityCode)
	}
	return nil, context.Canceled
}

func (m *Repo) CodeExists(ctx context.Context, code string) (bool, error) {
	if m.CodeExistsFn != nil {
		return m.CodeExistsFn(ctx, code)
	}
	return false, nil
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Proposal, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, context.Canceled
}

func (m *Repo) Count(ctx context.Context, status *domain.Status) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, status)
	}
	return 0, context.Canceled
}

func (m *Repo) SaveDetails(ctx context.Context, p *domain.Proposal) error {
	if m.SaveDetailsFn != nil {
		return m.SaveDetailsFn(ctx, p)
	}
	return nil
}

func (m *Repo) TransitionStatus(ctx context.Context, id string, to domain.Status, from []domain.Status) (int64, error) {
	if m.TransitionStatusFn != nil {
		return m.TransitionStatusFn(ctx, id, to, from)
	}
	return 1, nil
}

func (m *Repo) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// DocRepo is a function-backed mock that satisfies proposal.DocumentRepository.
type DocRepo struct {
	CreateBatchFn         func(ctx context.Context, docs []domain.DocumentProposal) error
	CreateExtraFn         func(ctx context.Context, e *domain.ExtraDocumentProposal) error
	ListByProposalFn      func(ctx context.Context, proposalID string) ([]domain.DocumentProposal, error)
	FindAttachmentFn      func(ctx context.Context, path string) (*domain.Attachment, error)
	MarkPassedFn          func(ctx context.Context, proposalID string, ids []string) (int64, error)
}

func (m *DocRepo) CreateBatch(ctx context.Context, docs []domain.DocumentProposal) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, docs)
	}
	return nil
}

func (m *DocRepo) CreateExtra(ctx context.Context, e *domain.ExtraDocumentProposal) error {
	if m.CreateExtraFn != nil {
		return m.CreateExtraFn(ctx, e)
	}
	return nil
}

func (m *DocRepo) ListByProposal(ctx context.Context, proposalID string) ([]domain.DocumentProposal, error) {
	if m.ListByProposalFn != nil {
		return m.ListByProposalFn(ctx, proposalID)
	}
	return nil, context.Canceled
}

func (m *DocRepo) FindAttachment(ctx context.Context, path string) (*domain.Attachment, error) {
	if m.FindAttachmentFn != nil {
		return m.FindAttachmentFn(ctx, path)
	}
	return nil, domain.ErrAttachmentMissing
}

func (m *DocRepo) MarkPassed(ctx context.Context, proposalID string, ids []string) (int64, error) {
	if m.MarkPassedFn != nil {
		return m.MarkPassedFn(ctx, proposalID, ids)
	}
	return int64(len(ids)), nil
}
