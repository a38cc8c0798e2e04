package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"proposal-review-service/internal/domain/errs"
)

func statusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a usecase error onto a response. Internal detail is logged, never returned.
func writeError(c echo.Context, log *slog.Logger, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "err", err)
	}
	return c.JSON(code, ErrorResponse{Error: errs.Message(err)})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
}

// PageQuery is shared by the list endpoints. Zero values fall back to usecase defaults.
type PageQuery struct {
	Page  int `query:"page" validate:"gte=0"`
	Limit int `query:"limit" validate:"gte=0,lte=100"`
}
