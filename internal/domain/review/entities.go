package review

import (
	"time"

	"proposal-review-service/internal/domain/errs"
	"proposal-review-service/internal/domain/proposal"
)

var (
	ErrNotFound         = errs.NotFound("review not found")
	ErrAlreadyReviewed  = errs.Conflict("proposal already reviewed")
	ErrNotOwner         = errs.Unauthorized("you are not allowed to update this review")
	ErrNotRevisable     = errs.Validation("cannot update review for this proposal")
	ErrReviewerNotFound = errs.NotFound("reviewer not found")
)

// Table: proposal_reviews
type Review struct {
	ID         string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	ProposalID string    `gorm:"column:proposal_id;type:char(36);not null;index;uniqueIndex:ux_reviews_proposal_reviewer" json:"proposal_id"`
	ReviewerID string    `gorm:"column:reviewer_id;type:char(36);not null;uniqueIndex:ux_reviews_proposal_reviewer" json:"reviewer_id"`
	Comments   *string   `gorm:"column:comments;type:text" json:"comments,omitempty"`
	Accepted   bool      `gorm:"column:accepted;not null" json:"accepted"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Reviewer *Reviewer          `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Proposal *proposal.Proposal `gorm:"foreignKey:ProposalID" json:"-"`
}

func (Review) TableName() string { return "proposal_reviews" }

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
)

// Reviewer is the staff account that signs a review. Accounts are managed elsewhere;
// this service only reads them.
type Reviewer struct {
	ID        string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	Email     string    `gorm:"column:email;size:255;not null;uniqueIndex:ux_users_email" json:"email"`
	Username  string    `gorm:"column:username;size:64;not null" json:"username"`
	FullName  string    `gorm:"column:full_name;size:255" json:"full_name"`
	Role      Role      `gorm:"column:role;size:16;not null" json:"role"`
	Password  string    `gorm:"column:password;size:255" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Reviewer) TableName() string { return "users" }
