package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"proposal-review-service/internal/usecase/proposal"
)

type AttachmentService interface {
	OpenAttachment(ctx context.Context, path string) (*proposal.AttachmentDTO, error)
}

type AttachmentHandler struct {
	uc  AttachmentService
	log *slog.Logger
}

func NewAttachmentHandler(uc AttachmentService, log *slog.Logger) *AttachmentHandler {
	return &AttachmentHandler{uc: uc, log: log}
}

// Download sends a stored attachment as a file, ?path= is the attachment_path of a document.
func (h *AttachmentHandler) Download(c echo.Context) error {
	a, err := h.uc.OpenAttachment(c.Request().Context(), c.QueryParam("path"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	defer a.Body.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename*=UTF-8''"+url.PathEscape(a.Name))
	return c.Stream(http.StatusOK, a.Mimetype, a.Body)
}
