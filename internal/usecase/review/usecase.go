package review

import (
	"context"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"proposal-review-service/internal/domain/errs"
	"proposal-review-service/internal/domain/proposal"
	domain "proposal-review-service/internal/domain/review"
	"proposal-review-service/internal/domain/uow"
	"proposal-review-service/internal/notify"
	"proposal-review-service/pkg/id"
)

var openStatuses = []proposal.Status{proposal.StatusPending, proposal.StatusAIApproved}

type Publisher interface {
	Publish(ev notify.Event) bool
}

type Usecase struct {
	repos uow.Repos
	tx    uow.UnitOfWork
	pub   Publisher
	log   *slog.Logger
}

func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, pub Publisher, log *slog.Logger) *Usecase {
	return &Usecase{repos: repos, tx: tx, pub: pub, log: log}
}

func wrap(op string, err error) error {
	if errs.KindOf(err) != errs.KindUnknown {
		return err
	}
	return errs.Storage(op, err)
}

// Submit records a decision on an unreviewed proposal. Everything happens in one
// transaction holding the proposal row lock; the status write is conditional as well, so
// of two concurrent reviewers exactly one wins and the other gets ErrAlreadyReviewed.
func (u *Usecase) Submit(ctx context.Context, in SubmitReviewInput) (*ReviewDTO, error) {
	if strings.TrimSpace(in.ProposalID) == "" || strings.TrimSpace(in.ReviewerID) == "" {
		return nil, errs.Validation("proposal_id and reviewer_id are required")
	}
	reviewer, err := u.repos.Reviews.GetReviewer(ctx, in.ReviewerID)
	if err != nil {
		return nil, wrap("load reviewer", err)
	}

	var (
		rv   *domain.Review
		p    *proposal.Proposal
		docs []proposal.DocumentProposal
	)
	err = u.tx.WithinProposalTx(ctx, in.ProposalID, func(r uow.Repos, locked *proposal.Proposal) error {
		if locked.Status.IsTerminal() {
			return domain.ErrAlreadyReviewed
		}

		var err error
		docs, err = r.Documents.ListByProposal(ctx, locked.ID)
		if err != nil {
			return err
		}
		owned := lo.KeyBy(docs, func(d proposal.DocumentProposal) string { return d.ID })
		passed := lo.Uniq(in.DocumentIDs)
		for _, docID := range passed {
			if _, ok := owned[docID]; !ok {
				return errs.Validationf("document id %s is invalid", docID)
			}
		}

		to := proposal.Decided(in.Accepted)
		n, err := r.Proposals.TransitionStatus(ctx, locked.ID, to, openStatuses)
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrAlreadyReviewed
		}
		locked.Status = to

		if _, err := r.Documents.MarkPassed(ctx, locked.ID, passed); err != nil {
			return err
		}
		for i := range docs {
			docs[i].Pass = docs[i].Pass || lo.Contains(passed, docs[i].ID)
		}

		rv = &domain.Review{
			ID:         id.NewUUID(),
			ProposalID: locked.ID,
			ReviewerID: in.ReviewerID,
			Accepted:   in.Accepted,
			Comments:   in.Comments,
		}
		if err := r.Reviews.Create(ctx, rv); err != nil {
			return err
		}
		p = locked
		return nil
	})
	if err != nil {
		return nil, wrap("submit review", err)
	}

	rv.Reviewer = reviewer
	u.publishOutcome(p, rv, docs)
	dto := toDTO(rv)
	dto.ProposalStatus = string(p.Status)
	return &dto, nil
}

func (u *Usecase) publishOutcome(p *proposal.Proposal, rv *domain.Review, docs []proposal.DocumentProposal) {
	if u.pub == nil {
		return
	}
	u.pub.Publish(notify.Event{
		Kind: notify.KindReviewOutcome,
		To:   []string{p.Email},
		Data: notify.OutcomeData{
			FullName: p.FullName,
			Code:     p.Code,
			Accepted: rv.Accepted,
			Comments: lo.FromPtr(rv.Comments),
			Documents: lo.Map(docs, func(d proposal.DocumentProposal, _ int) notify.DocumentOutcome {
				name := d.DocumentID
				if d.Template != nil {
					name = d.Template.Name
				}
				return notify.DocumentOutcome{Name: name, Pass: d.Pass}
			}),
		},
	})
}

// Update lets the original reviewer revise a decision after the proposal is decided.
// Documents are not touched and no notification is sent.
func (u *Usecase) Update(ctx context.Context, reviewID, reviewerID string, in UpdateReviewInput) (*ReviewDTO, error) {
	cur, err := u.repos.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, wrap("get review", err)
	}
	if cur.ReviewerID != reviewerID {
		return nil, domain.ErrNotOwner
	}

	var status proposal.Status
	err = u.tx.WithinProposalTx(ctx, cur.ProposalID, func(r uow.Repos, p *proposal.Proposal) error {
		if !p.Status.IsTerminal() {
			return domain.ErrNotRevisable
		}
		rv, err := r.Reviews.GetByIDForUpdate(ctx, reviewID)
		if err != nil {
			return err
		}

		to := proposal.Decided(in.Accepted)
		if to != p.Status {
			n, err := r.Proposals.TransitionStatus(ctx, p.ID, to, proposal.TerminalStatuses)
			if err != nil {
				return err
			}
			if n == 0 {
				return domain.ErrNotRevisable
			}
		}
		status = to

		rv.Accepted = in.Accepted
		rv.Comments = in.Comments
		return r.Reviews.SaveDecision(ctx, rv)
	})
	if err != nil {
		return nil, wrap("update review", err)
	}

	out, err := u.Get(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	out.ProposalStatus = string(status)
	return out, nil
}

func (u *Usecase) List(ctx context.Context, in ListReviewsInput) (*PageDTO, error) {
	page := max(in.Page, 1)
	limit := in.Limit
	if limit < 1 {
		limit = 10
	}
	limit = min(limit, 100)

	f := domain.ListFilter{Offset: (page - 1) * limit, Limit: limit}
	if in.ProposalID != "" {
		f.ProposalID = &in.ProposalID
	}
	rows, err := u.repos.Reviews.List(ctx, f)
	if err != nil {
		return nil, wrap("list reviews", err)
	}
	out := &PageDTO{
		Data:  lo.Map(rows, func(r domain.Review, _ int) ReviewDTO { return toDTO(&r) }),
		Page:  page,
		Limit: limit,
	}
	if page == 1 {
		total, err := u.repos.Reviews.Count(ctx, f.ProposalID)
		if err != nil {
			return nil, wrap("count reviews", err)
		}
		out.Total = &total
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, reviewID string) (*ReviewDTO, error) {
	rv, err := u.repos.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, wrap("get review", err)
	}
	dto := toDTO(rv)
	return &dto, nil
}

// Delete removes the review row only. The proposal keeps the status the review gave it.
func (u *Usecase) Delete(ctx context.Context, reviewID string) error {
	var n int64
	err := u.tx.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		n, err = r.Reviews.Delete(ctx, reviewID)
		return err
	})
	if err != nil {
		return wrap("delete review", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toDTO(r *domain.Review) ReviewDTO {
	out := ReviewDTO{
		ID:         r.ID,
		ProposalID: r.ProposalID,
		ReviewerID: r.ReviewerID,
		Accepted:   r.Accepted,
		Comments:   r.Comments,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.Reviewer != nil {
		out.Reviewer = &ReviewerDTO{
			ID:       r.Reviewer.ID,
			Email:    r.Reviewer.Email,
			Username: r.Reviewer.Username,
			FullName: r.Reviewer.FullName,
			Role:     string(r.Reviewer.Role),
		}
	}
	return out
}
