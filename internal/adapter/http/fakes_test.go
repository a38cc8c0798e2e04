package http

import (
	"context"

	"proposal-review-service/internal/usecase/proposal"
	"proposal-review-service/internal/usecase/review"
)

type fakeProposals struct {
	CreateFn       func(ctx context.Context, in proposal.CreateProposalInput) (*proposal.CreatedProposalDTO, error)
	FindFn         func(ctx context.Context, code, securityCode string) (*proposal.PublicProposalDTO, error)
	ListFn         func(ctx context.Context, in proposal.ListInput) (*proposal.PageDTO, error)
	GetFn          func(ctx context.Context, id string) (*proposal.ProposalDTO, error)
	UpdateFn       func(ctx context.Context, id string, in proposal.UpdateProposalInput) (*proposal.ProposalDTO, error)
	UpdateStatusFn func(ctx context.Context, id, status string) (*proposal.ProposalDTO, error)
	DeleteFn       func(ctx context.Context, id string) error
}

func (f *fakeProposals) Create(ctx context.Context, in proposal.CreateProposalInput) (*proposal.CreatedProposalDTO, error) {
	return f.CreateFn(ctx, in)
}
func (f *fakeProposals) FindByPublicCode(ctx context.Context, code, sc string) (*proposal.PublicProposalDTO, error) {
	return f.FindFn(ctx, code, sc)
}
func (f *fakeProposals) List(ctx context.Context, in proposal.ListInput) (*proposal.PageDTO, error) {
	return f.ListFn(ctx, in)
}
func (f *fakeProposals) Get(ctx context.Context, id string) (*proposal.ProposalDTO, error) {
	return f.GetFn(ctx, id)
}
func (f *fakeProposals) Update(ctx context.Context, id string, in proposal.UpdateProposalInput) (*proposal.ProposalDTO, error) {
	return f.UpdateFn(ctx, id, in)
}
func (f *fakeProposals) UpdateStatus(ctx context.Context, id, status string) (*proposal.ProposalDTO, error) {
	return f.UpdateStatusFn(ctx, id, status)
}
func (f *fakeProposals) Delete(ctx context.Context, id string) error { return f.DeleteFn(ctx, id) }

type fakeReviews struct {
	SubmitFn func(ctx context.Context, in review.SubmitReviewInput) (*review.ReviewDTO, error)
	UpdateFn func(ctx context.Context, reviewID, reviewerID string, in review.UpdateReviewInput) (*review.ReviewDTO, error)
	ListFn   func(ctx context.Context, in review.ListReviewsInput) (*review.PageDTO, error)
	GetFn    func(ctx context.Context, id string) (*review.ReviewDTO, error)
	DeleteFn func(ctx context.Context, id string) error
}

func (f *fakeReviews) Submit(ctx context.Context, in review.SubmitReviewInput) (*review.ReviewDTO, error) {
	return f.SubmitFn(ctx, in)
}
func (f *fakeReviews) Update(ctx context.Context, reviewID, reviewerID string, in review.UpdateReviewInput) (*review.ReviewDTO, error) {
	return f.UpdateFn(ctx, reviewID, reviewerID, in)
}
func (f *fakeReviews) List(ctx context.Context, in review.ListReviewsInput) (*review.PageDTO, error) {
	return f.ListFn(ctx, in)
}
func (f *fakeReviews) Get(ctx context.Context, id string) (*review.ReviewDTO, error) {
	return f.GetFn(ctx, id)
}
func (f *fakeReviews) Delete(ctx context.Context, id string) error { return f.DeleteFn(ctx, id) }

type fakeAttachments struct {
	OpenFn func(ctx context.Context, path string) (*proposal.AttachmentDTO, error)
}

func (f *fakeAttachments) OpenAttachment(ctx context.Context, path string) (*proposal.AttachmentDTO, error) {
	return f.OpenFn(ctx, path)
}
