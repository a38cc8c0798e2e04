package proposal

import (
	"io"
	"time"
)

// Upload is one required-document file, keyed by the template it counts against.
type Upload struct {
	TemplateID string
	FileName   string
	MimeType   string
	Content    io.Reader
}

type ExtraUpload struct {
	Name        string
	Description *string
	FileName    string
	MimeType    string
	Content     io.Reader
}

type CreateProposalInput struct {
	ActivityID string
	FullName   string
	Email      string
	Phone      string
	Address    string
	Note       *string
	State      string // optional, defaults to DRAFT
	Documents  []Upload
	Extras     []ExtraUpload
}

// UpdateProposalInput: nil fields are left unchanged.
type UpdateProposalInput struct {
	FullName  *string
	Email     *string
	Phone     *string
	Address   *string
	Note      *string
	State     *string
	Respond   *string
	Documents []Upload
	Extras    []ExtraUpload
}

type ListInput struct {
	Page   int
	Limit  int
	Order  string // asc | desc
	Status string
}

type DocumentDTO struct {
	ID             string `json:"id"`
	TemplateID     string `json:"document_id"`
	TemplateName   string `json:"document_name,omitempty"`
	AttachmentPath string `json:"attachment_path"`
	Mimetype       string `json:"mimetype"`
	Pass           bool   `json:"pass"`
}

type ExtraDocumentDTO struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
	AttachmentPath string  `json:"attachment_path"`
	Mimetype       string  `json:"mimetype"`
}

type ProposalDTO struct {
	ID             string             `json:"id"`
	ActivityID     string             `json:"activity_id"`
	ActivityName   string             `json:"activity_name,omitempty"`
	Code           string             `json:"code"`
	FullName       string             `json:"full_name"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone"`
	Address        string             `json:"address"`
	Note           *string            `json:"note,omitempty"`
	State          string             `json:"state"`
	Status         string             `json:"status"`
	Respond        *string            `json:"respond,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Documents      []DocumentDTO      `json:"documents,omitempty"`
	ExtraDocuments []ExtraDocumentDTO `json:"extra_documents,omitempty"`
}

// CreatedProposalDTO is the only response that carries the security code.
type CreatedProposalDTO struct {
	ProposalDTO
	SecurityCode string `json:"security_code"`
}

type ReviewerDTO struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type ReviewSummaryDTO struct {
	ID        string       `json:"id"`
	Comments  *string      `json:"comments,omitempty"`
	Accepted  bool         `json:"accepted"`
	CreatedAt time.Time    `json:"created_at"`
	Reviewer  *ReviewerDTO `json:"reviewer,omitempty"`
}

// PublicProposalDTO is what a submitter sees through the code lookup.
// Reviews are only filled in for rejected proposals.
type PublicProposalDTO struct {
	ProposalDTO
	Reviews []ReviewSummaryDTO `json:"reviews,omitempty"`
}

type PageDTO struct {
	Data  []ProposalDTO `json:"data"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total *int64        `json:"total,omitempty"` // page 1 only
}
