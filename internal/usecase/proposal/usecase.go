package proposal

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"proposal-review-service/internal/domain/activity"
	"proposal-review-service/internal/domain/errs"
	domain "proposal-review-service/internal/domain/proposal"
	"proposal-review-service/internal/domain/review"
	"proposal-review-service/internal/domain/uow"
	"proposal-review-service/internal/notify"
	"proposal-review-service/internal/storage/filestore"
	"proposal-review-service/pkg/id"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type Publisher interface {
	Publish(ev notify.Event) bool
}

type Options struct {
	Policy          Policy
	CodeMaxAttempts int
	ManagerEmails   []string
	AdminPanelURL   string
}

type Usecase struct {
	repos uow.Repos
	tx    uow.UnitOfWork
	files filestore.Store
	pub   Publisher
	opts  Options
	log   *slog.Logger
}

// NewUsecase: repos serve read paths, tx serves every write.
func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, files filestore.Store, pub Publisher, opts Options, log *slog.Logger) *Usecase {
	if opts.Policy == "" {
		opts.Policy = QuantityAtLeast
	}
	if opts.CodeMaxAttempts < 1 {
		opts.CodeMaxAttempts = 16
	}
	return &Usecase{repos: repos, tx: tx, files: files, pub: pub, opts: opts, log: log}
}

// wrap keeps classified errors and marks everything else as a storage failure.
func wrap(op string, err error) error {
	if errs.KindOf(err) != errs.KindUnknown {
		return err
	}
	return errs.Storage(op, err)
}

func (u *Usecase) Create(ctx context.Context, in CreateProposalInput) (*CreatedProposalDTO, error) {
	if strings.TrimSpace(in.ActivityID) == "" || strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, errs.Validation("activity_id, full_name and email are required")
	}
	state, err := domain.ParseState(in.State)
	if err != nil {
		return nil, err
	}

	a, err := u.repos.Activities.GetWithTemplates(ctx, in.ActivityID)
	if err != nil {
		return nil, wrap("load activity", err)
	}
	if err := ValidateDocuments(a.Templates, in.Documents, u.opts.Policy); err != nil {
		return nil, err
	}

	budget := u.opts.CodeMaxAttempts
	nextCode := func() (string, error) {
		for ; budget > 0; budget-- {
			code := id.NewCode()
			taken, err := u.repos.Proposals.CodeExists(ctx, code)
			if err != nil {
				return "", wrap("check code", err)
			}
			if !taken {
				budget--
				return code, nil
			}
		}
		return "", domain.ErrCodeExhausted
	}

	code, err := nextCode()
	if err != nil {
		return nil, err
	}

	p := &domain.Proposal{
		ID:           id.NewUUID(),
		ActivityID:   a.ID,
		Code:         code,
		SecurityCode: id.NewSecurityCode(),
		FullName:     strings.TrimSpace(in.FullName),
		Email:        strings.TrimSpace(in.Email),
		Phone:        in.Phone,
		Address:      in.Address,
		Note:         in.Note,
		State:        state,
		Status:       domain.StatusPending,
	}

	docs, saved, err := u.saveDocuments(ctx, p.ID, in.Documents)
	if err != nil {
		return nil, err
	}

	for {
		err = u.tx.WithinTx(ctx, func(r uow.Repos) error {
			if err := r.Proposals.Create(ctx, p); err != nil {
				return err
			}
			return r.Documents.CreateBatch(ctx, docs)
		})
		if !errors.Is(err, domain.ErrDuplicateCode) {
			break
		}
		// lost a race on the unique index
		if p.Code, err = nextCode(); err != nil {
			break
		}
	}
	if err != nil {
		u.removeFiles(ctx, saved)
		return nil, wrap("create proposal", err)
	}

	extras := u.saveExtras(ctx, p.ID, in.Extras)

	p.Activity = a
	p.Documents = docs
	p.ExtraDocuments = extras
	u.publishCreated(p, a)

	return &CreatedProposalDTO{ProposalDTO: toDTO(p, a.Templates), SecurityCode: p.SecurityCode}, nil
}

// saveDocuments writes required files. On failure everything written so far is removed.
func (u *Usecase) saveDocuments(ctx context.Context, proposalID string, uploads []Upload) ([]domain.DocumentProposal, []string, error) {
	docs := make([]domain.DocumentProposal, 0, len(uploads))
	saved := make([]string, 0, len(uploads))
	for _, up := range uploads {
		path, err := u.files.Save(ctx, up.FileName, up.Content)
		if err != nil {
			u.removeFiles(ctx, saved)
			return nil, nil, errs.Storage("save document", err)
		}
		saved = append(saved, path)
		docs = append(docs, domain.DocumentProposal{
			ID:             id.NewUUID(),
			ProposalID:     proposalID,
			DocumentID:     up.TemplateID,
			AttachmentPath: path,
			Mimetype:       up.MimeType,
		})
	}
	return docs, saved, nil
}

// saveExtras is best-effort: a failing extra file is logged and skipped.
func (u *Usecase) saveExtras(ctx context.Context, proposalID string, uploads []ExtraUpload) []domain.ExtraDocumentProposal {
	out := make([]domain.ExtraDocumentProposal, 0, len(uploads))
	for _, up := range uploads {
		path, err := u.files.Save(ctx, up.FileName, up.Content)
		if err != nil {
			u.log.Warn("extra document not saved", "proposal_id", proposalID, "name", up.Name, "err", err)
			continue
		}
		e := domain.ExtraDocumentProposal{
			ID:             id.NewUUID(),
			ProposalID:     proposalID,
			Name:           up.Name,
			Description:    up.Description,
			AttachmentPath: path,
			Mimetype:       up.MimeType,
		}
		if err := u.repos.Documents.CreateExtra(ctx, &e); err != nil {
			u.log.Warn("extra document not recorded", "proposal_id", proposalID, "name", up.Name, "err", err)
			u.removeFiles(ctx, []string{path})
			continue
		}
		out = append(out, e)
	}
	return out
}

func (u *Usecase) removeFiles(ctx context.Context, paths []string) {
	ctx = context.WithoutCancel(ctx)
	for _, p := range paths {
		if err := u.files.Delete(ctx, p); err != nil {
			u.log.Warn("file cleanup failed", "path", p, "err", err)
		}
	}
}

func (u *Usecase) publishCreated(p *domain.Proposal, a *activity.Activity) {
	if u.pub == nil {
		return
	}
	data := notify.SubmissionData{
		FullName:      p.FullName,
		Email:         p.Email,
		ActivityName:  a.Name,
		Code:          p.Code,
		SecurityCode:  p.SecurityCode,
		AdminPanelURL: u.opts.AdminPanelURL,
	}
	u.pub.Publish(notify.Event{Kind: notify.KindConfirmationToSubmitter, To: []string{p.Email}, Data: data})

	// managers never see the security code
	data.SecurityCode = ""
	u.pub.Publish(notify.Event{Kind: notify.KindNotifyManagers, To: u.opts.ManagerEmails, Data: data})
}

// FindByPublicCode needs both codes. Every miss gets the same not-found error.
func (u *Usecase) FindByPublicCode(ctx context.Context, code, securityCode string) (*PublicProposalDTO, error) {
	code, securityCode = strings.TrimSpace(code), strings.TrimSpace(securityCode)
	if code == "" || securityCode == "" {
		return nil, domain.ErrNotFound
	}
	p, err := u.repos.Proposals.GetByCodes(ctx, code, securityCode)
	if err != nil {
		return nil, wrap("find proposal", err)
	}

	out := &PublicProposalDTO{ProposalDTO: toDTO(p, nil)}
	if p.Status == domain.StatusRejected {
		reviews, err := u.repos.Reviews.ListByProposal(ctx, p.ID)
		if err != nil {
			return nil, wrap("list reviews", err)
		}
		out.Reviews = lo.Map(reviews, func(r review.Review, _ int) ReviewSummaryDTO { return toReviewSummary(r) })
	}
	return out, nil
}

func (u *Usecase) List(ctx context.Context, in ListInput) (*PageDTO, error) {
	page := max(in.Page, 1)
	limit := in.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	limit = min(limit, maxPageSize)

	f := domain.ListFilter{Offset: (page - 1) * limit, Limit: limit, Desc: true}
	switch strings.ToLower(in.Order) {
	case "", "desc":
	case "asc":
		f.Desc = false
	default:
		return nil, errs.Validation("order must be asc or desc")
	}
	if in.Status != "" {
		st, err := domain.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		f.Status = &st
	}

	rows, err := u.repos.Proposals.List(ctx, f)
	if err != nil {
		return nil, wrap("list proposals", err)
	}
	out := &PageDTO{
		Data:  lo.Map(rows, func(p domain.Proposal, _ int) ProposalDTO { return toDTO(&p, nil) }),
		Page:  page,
		Limit: limit,
	}
	if page == 1 {
		total, err := u.repos.Proposals.Count(ctx, f.Status)
		if err != nil {
			return nil, wrap("count proposals", err)
		}
		out.Total = &total
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, proposalID string) (*ProposalDTO, error) {
	p, err := u.repos.Proposals.GetByID(ctx, proposalID)
	if err != nil {
		return nil, wrap("get proposal", err)
	}
	dto := toDTO(p, nil)
	return &dto, nil
}

// Update edits submitter details and staff response. New documents are only accepted
// while the proposal has not been reviewed.
func (u *Usecase) Update(ctx context.Context, proposalID string, in UpdateProposalInput) (*ProposalDTO, error) {
	var state *domain.State
	if in.State != nil {
		st, err := domain.ParseState(*in.State)
		if err != nil {
			return nil, err
		}
		state = &st
	}

	addsFiles := len(in.Documents) > 0 || len(in.Extras) > 0
	var docs []domain.DocumentProposal
	var saved []string
	if addsFiles {
		cur, err := u.repos.Proposals.GetByID(ctx, proposalID)
		if err != nil {
			return nil, wrap("get proposal", err)
		}
		if cur.Status.IsTerminal() {
			return nil, domain.ErrDocumentsLocked
		}
		a, err := u.repos.Activities.GetWithTemplates(ctx, cur.ActivityID)
		if err != nil {
			return nil, wrap("load activity", err)
		}
		if err := checkTemplateKeys(a.Templates, in.Documents); err != nil {
			return nil, err
		}
		if docs, saved, err = u.saveDocuments(ctx, proposalID, in.Documents); err != nil {
			return nil, err
		}
	}

	extras := make([]domain.ExtraDocumentProposal, 0, len(in.Extras))
	for _, up := range in.Extras {
		path, err := u.files.Save(ctx, up.FileName, up.Content)
		if err != nil {
			u.removeFiles(ctx, saved)
			return nil, errs.Storage("save extra document", err)
		}
		saved = append(saved, path)
		extras = append(extras, domain.ExtraDocumentProposal{
			ID:             id.NewUUID(),
			ProposalID:     proposalID,
			Name:           up.Name,
			Description:    up.Description,
			AttachmentPath: path,
			Mimetype:       up.MimeType,
		})
	}

	err := u.tx.WithinProposalTx(ctx, proposalID, func(r uow.Repos, p *domain.Proposal) error {
		// re-check under the row lock: a review may have landed since the read above
		if addsFiles && p.Status.IsTerminal() {
			return domain.ErrDocumentsLocked
		}
		applyDetails(p, in, state)
		if err := r.Proposals.SaveDetails(ctx, p); err != nil {
			return err
		}
		if err := r.Documents.CreateBatch(ctx, docs); err != nil {
			return err
		}
		for i := range extras {
			if err := r.Documents.CreateExtra(ctx, &extras[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		u.removeFiles(ctx, saved)
		return nil, wrap("update proposal", err)
	}
	return u.Get(ctx, proposalID)
}

func applyDetails(p *domain.Proposal, in UpdateProposalInput, state *domain.State) {
	if in.FullName != nil {
		p.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Email != nil {
		p.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.Note != nil {
		p.Note = in.Note
	}
	if in.Respond != nil {
		p.Respond = in.Respond
	}
	if state != nil {
		p.State = *state
	}
}

// UpdateStatus only moves PENDING to AIAPPROVED. Terminal statuses come from reviews.
func (u *Usecase) UpdateStatus(ctx context.Context, proposalID, status string) (*ProposalDTO, error) {
	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	if to.IsTerminal() {
		return nil, domain.ErrTerminalStatus
	}

	err = u.tx.WithinProposalTx(ctx, proposalID, func(r uow.Repos, p *domain.Proposal) error {
		if p.Status == to {
			return nil
		}
		if !domain.CanTransition(p.Status, to) {
			return domain.ErrInvalidTransition
		}
		n, err := r.Proposals.TransitionStatus(ctx, p.ID, to, []domain.Status{p.Status})
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, wrap("update status", err)
	}
	return u.Get(ctx, proposalID)
}

// Delete removes the proposal with its documents and reviews, then its files (best-effort).
func (u *Usecase) Delete(ctx context.Context, proposalID string) error {
	p, err := u.repos.Proposals.GetByID(ctx, proposalID)
	if err != nil {
		return wrap("get proposal", err)
	}
	if err := u.tx.WithinTx(ctx, func(r uow.Repos) error {
		return r.Proposals.Delete(ctx, proposalID)
	}); err != nil {
		return wrap("delete proposal", err)
	}

	paths := lo.Map(p.Documents, func(d domain.DocumentProposal, _ int) string { return d.AttachmentPath })
	paths = append(paths, lo.Map(p.ExtraDocuments, func(e domain.ExtraDocumentProposal, _ int) string { return e.AttachmentPath })...)
	u.removeFiles(ctx, paths)
	return nil
}
