package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"proposal-review-service/internal/domain/proposal"
	"proposal-review-service/pkg/id"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report fields by their json/query/form name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	// proposal code as printed on the submission receipt
	_ = v.RegisterValidation("proposal_code", func(fl validator.FieldLevel) bool {
		return id.ValidCode(fl.Field().String())
	})
	_ = v.RegisterValidation("proposal_status", func(fl validator.FieldLevel) bool {
		_, err := proposal.ParseStatus(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("proposal_state", func(fl validator.FieldLevel) bool {
		_, err := proposal.ParseState(fl.Field().String())
		return err == nil
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "email":
			out = append(out, FieldError{Field: field, Message: "must be a valid email address"})
		case "uuid":
			out = append(out, FieldError{Field: field, Message: "must be a UUID"})
		case "proposal_code":
			out = append(out, FieldError{Field: field, Message: "must be a 10-character proposal code"})
		case "proposal_status":
			out = append(out, FieldError{Field: field, Message: "must be one of PENDING AIAPPROVED MANAGERAPPROVED REJECTED"})
		case "proposal_state":
			out = append(out, FieldError{Field: field, Message: "must be one of DRAFT SUBMITTED PUBLIC"})
		case "oneof":
			out = append(out, FieldError{Field: field, Message: "must be one of " + e.Param()})
		case "max":
			out = append(out, FieldError{Field: field, Message: "must be at most " + e.Param() + " characters"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
