package review

import "time"

type SubmitReviewInput struct {
	ProposalID  string
	ReviewerID  string
	Accepted    bool
	Comments    *string
	DocumentIDs []string // documents that passed; the rest stay failed
}

type UpdateReviewInput struct {
	Accepted bool
	Comments *string
}

type ListReviewsInput struct {
	Page       int
	Limit      int
	ProposalID string
}

type ReviewerDTO struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type ReviewDTO struct {
	ID             string       `json:"id"`
	ProposalID     string       `json:"proposal_id"`
	ReviewerID     string       `json:"reviewer_id"`
	Accepted       bool         `json:"accepted"`
	Comments       *string      `json:"comments,omitempty"`
	ProposalStatus string       `json:"proposal_status,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	Reviewer       *ReviewerDTO `json:"reviewer,omitempty"`
}

type PageDTO struct {
	Data  []ReviewDTO `json:"data"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Total *int64      `json:"total,omitempty"`
}
