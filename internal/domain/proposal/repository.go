package proposal

import "context"

type ListFilter struct {
	Offset int
	Limit  int
	Desc   bool
	Status *Status
}

type Repository interface {
	Create(ctx context.Context, p *Proposal) error

	// Get by id with activity, documents (and their templates) and extra documents
	GetByID(ctx context.Context, id string) (*Proposal, error)

	// Same as GetByID without relations, holding a row lock until the tx ends
	GetByIDForUpdate(ctx context.Context, id string) (*Proposal, error)

	// Exact match on the public code pair
	GetByCodes(ctx context.Context, code, securityCode string) (*Proposal, error)

	CodeExists(ctx context.Context, code string) (bool, error)

	List(ctx context.Context, f ListFilter) ([]Proposal, error)
	Count(ctx context.Context, status *Status) (int64, error)

	// Persist editable columns (contact fields, note, state, respond)
	SaveDetails(ctx context.Context, p *Proposal) error

	// Conditional status write: only rows whose current status is in from are touched.
	// Returns rows affected.
	TransitionStatus(ctx context.Context, id string, to Status, from []Status) (int64, error)

	// Delete the proposal and every row that hangs off it
	Delete(ctx context.Context, id string) error
}

type DocumentRepository interface {
	CreateBatch(ctx context.Context, docs []DocumentProposal) error
	CreateExtra(ctx context.Context, e *ExtraDocumentProposal) error

	ListByProposal(ctx context.Context, proposalID string) ([]DocumentProposal, error)

	// Look up a stored path on documents, then extra documents
	FindAttachment(ctx context.Context, path string) (*Attachment, error)

	// Set pass=true on the given documents of a proposal. Returns rows affected.
	MarkPassed(ctx context.Context, proposalID string, ids []string) (int64, error)
}
