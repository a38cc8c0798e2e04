package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"proposal-review-service/internal/adapter/middleware"
	"proposal-review-service/internal/usecase/review"
)

type ReviewService interface {
	Submit(ctx context.Context, in review.SubmitReviewInput) (*review.ReviewDTO, error)
	Update(ctx context.Context, reviewID, reviewerID string, in review.UpdateReviewInput) (*review.ReviewDTO, error)
	List(ctx context.Context, in review.ListReviewsInput) (*review.PageDTO, error)
	Get(ctx context.Context, reviewID string) (*review.ReviewDTO, error)
	Delete(ctx context.Context, reviewID string) error
}

type ReviewHandler struct {
	uc  ReviewService
	log *slog.Logger
}

func NewReviewHandler(uc ReviewService, log *slog.Logger) *ReviewHandler {
	return &ReviewHandler{uc: uc, log: log}
}

type submitReviewReq struct {
	ProposalID  string   `json:"proposal_id" validate:"required"`
	Accepted    *bool    `json:"accepted" validate:"required"`
	Comments    *string  `json:"comments" validate:"omitempty,max=2000"`
	DocumentIDs []string `json:"document_ids" validate:"omitempty,dive,required"`
}

// Submit records a decision signed by the authenticated reviewer.
func (h *ReviewHandler) Submit(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing credentials"})
	}
	var req submitReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	dto, err := h.uc.Submit(c.Request().Context(), review.SubmitReviewInput{
		ProposalID:  req.ProposalID,
		ReviewerID:  claims.UserID,
		Accepted:    *req.Accepted,
		Comments:    req.Comments,
		DocumentIDs: req.DocumentIDs,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type updateReviewReq struct {
	Accepted *bool   `json:"accepted" validate:"required"`
	Comments *string `json:"comments" validate:"omitempty,max=2000"`
}

func (h *ReviewHandler) Update(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing credentials"})
	}
	var req updateReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	dto, err := h.uc.Update(c.Request().Context(), c.Param("id"), claims.UserID, review.UpdateReviewInput{
		Accepted: *req.Accepted,
		Comments: req.Comments,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type listReviewsReq struct {
	PageQuery
	ProposalID string `query:"proposal_id"`
}

func (h *ReviewHandler) List(c echo.Context) error {
	var req listReviewsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	page, err := h.uc.List(c.Request().Context(), review.ListReviewsInput{
		Page:       req.Page,
		Limit:      req.Limit,
		ProposalID: req.ProposalID,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ReviewHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
