package proposal

import (
	"time"

	"proposal-review-service/internal/domain/activity"
	"proposal-review-service/internal/domain/errs"
)

var (
	ErrNotFound          = errs.NotFound("proposal not found")
	ErrCodeExhausted     = errs.Conflict("could not allocate a unique proposal code")
	ErrDuplicateCode     = errs.Conflict("proposal code already taken")
	ErrInvalidStatus     = errs.Validation("invalid status")
	ErrInvalidState      = errs.Validation("invalid state")
	ErrTerminalStatus    = errs.Validation("terminal statuses are set through reviews")
	ErrInvalidTransition = errs.Validation("status transition not allowed")
	ErrDocumentsLocked   = errs.Validation("documents cannot change after review")
	ErrAttachmentMissing = errs.NotFound("attachment not found")
)

type Status string

const (
	StatusPending         Status = "PENDING"
	StatusAIApproved      Status = "AIAPPROVED"
	StatusManagerApproved Status = "MANAGERAPPROVED"
	StatusRejected        Status = "REJECTED"
)

// TerminalStatuses are the reviewed outcomes.
var TerminalStatuses = []Status{StatusManagerApproved, StatusRejected}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusAIApproved, StatusManagerApproved, StatusRejected:
		return st, nil
	}
	return "", ErrInvalidStatus
}

func (s Status) IsTerminal() bool {
	return s == StatusManagerApproved || s == StatusRejected
}

// Decided maps a review decision to the proposal status it produces.
func Decided(accepted bool) Status {
	if accepted {
		return StatusManagerApproved
	}
	return StatusRejected
}

// CanTransition reports whether from -> to is an edge of the status machine.
// REJECTED <-> MANAGERAPPROVED is only reachable through a review revision.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusAIApproved || to.IsTerminal()
	case StatusAIApproved:
		return to.IsTerminal()
	case StatusManagerApproved:
		return to == StatusRejected
	case StatusRejected:
		return to == StatusManagerApproved
	}
	return false
}

type State string

const (
	StateDraft     State = "DRAFT"
	StateSubmitted State = "SUBMITTED"
	StatePublic    State = "PUBLIC"
)

func ParseState(s string) (State, error) {
	switch st := State(s); st {
	case StateDraft, StateSubmitted, StatePublic:
		return st, nil
	case "":
		return StateDraft, nil
	}
	return "", ErrInvalidState
}

// Table: proposals
type Proposal struct {
	ID           string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	ActivityID   string    `gorm:"column:activity_id;type:char(36);not null;index" json:"activity_id"`
	Code         string    `gorm:"column:code;size:16;not null;uniqueIndex:ux_proposals_code" json:"code"`
	SecurityCode string    `gorm:"column:security_code;type:char(32);not null" json:"-"`
	FullName     string    `gorm:"column:full_name;size:255;not null" json:"full_name"`
	Email        string    `gorm:"column:email;size:255;not null" json:"email"`
	Phone        string    `gorm:"column:phone;size:32;not null" json:"phone"`
	Address      string    `gorm:"column:address;size:512;not null" json:"address"`
	Note         *string   `gorm:"column:note;type:text" json:"note,omitempty"`
	State        State     `gorm:"column:state;size:16;not null;default:'DRAFT'" json:"state"`
	Status       Status    `gorm:"column:status;size:16;not null;default:'PENDING';index" json:"status"`
	Respond      *string   `gorm:"column:respond;type:text" json:"respond,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Activity       *activity.Activity      `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
	Documents      []DocumentProposal      `gorm:"foreignKey:ProposalID" json:"documents,omitempty"`
	ExtraDocuments []ExtraDocumentProposal `gorm:"foreignKey:ProposalID" json:"extra_documents,omitempty"`
}

func (Proposal) TableName() string { return "proposals" }

// DocumentProposal is one uploaded file counted against a template's quantity.
type DocumentProposal struct {
	ID             string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	ProposalID     string    `gorm:"column:proposal_id;type:char(36);not null;index" json:"proposal_id"`
	DocumentID     string    `gorm:"column:document_id;type:char(36);not null;index" json:"document_id"`
	AttachmentPath string    `gorm:"column:attachment_path;size:512;not null;index" json:"attachment_path"`
	Mimetype       string    `gorm:"column:mimetype;size:128;not null" json:"mimetype"`
	Pass           bool      `gorm:"column:pass;not null;default:false" json:"pass"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Template *activity.Template `gorm:"foreignKey:DocumentID" json:"template,omitempty"`
}

func (DocumentProposal) TableName() string { return "document_proposals" }

type ExtraDocumentProposal struct {
	ID             string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	ProposalID     string    `gorm:"column:proposal_id;type:char(36);not null;index" json:"proposal_id"`
	Name           string    `gorm:"column:name;size:255;not null" json:"name"`
	Description    *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	AttachmentPath string    `gorm:"column:attachment_path;size:512;not null;index" json:"attachment_path"`
	Mimetype       string    `gorm:"column:mimetype;size:128;not null" json:"mimetype"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ExtraDocumentProposal) TableName() string { return "extra_document_proposals" }

// Attachment is a stored file as recorded on a document or extra document row.
type Attachment struct {
	Path     string
	Mimetype string
}
