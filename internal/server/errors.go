package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	invoicedomain "github.com/openbill/invoicecraft/internal/invoice/domain"
	"github.com/openbill/invoicecraft/internal/logo"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// domainValidation maps service sentinels onto field-level validation output.
var domainValidation = []struct {
	err   error
	field string
	code  string
	msg   string
}{
	{invoicedomain.ErrInvalidInvoiceID, "id", "invalid_id", "invalid id"},
	{invoicedomain.ErrInvalidStatus, "status", "invalid_status", "unknown invoice status"},
	{invoicedomain.ErrInvalidIssueDate, "issueDate", "invalid_issue_date", "issue date must be YYYY-MM-DD"},
	{invoicedomain.ErrNoItems, "items", "no_items", "invoice needs at least one item"},
	{invoicedomain.ErrItemInvalid, "items", "item_invalid", "every item needs a description and a positive quantity"},
	{logo.ErrTooLarge, "logo", "logo_too_large", "logo exceeds the size limit"},
	{logo.ErrUnsupportedFormat, "logo", "logo_unsupported_format", "logo must be png, jpg or gif"},
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	for _, v := range domainValidation {
		if errors.Is(err, v.err) {
			return http.StatusBadRequest, errorPayload{
				Type:    "validation_error",
				Message: "validation error",
				Errors: []ValidationError{
					{Field: v.field, Code: v.code, Message: v.msg},
				},
			}
		}
	}

	switch {
	case errors.Is(err, invoicedomain.ErrDuplicateInvoiceNumber):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "invoice number already in use",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isNotFoundError(err error) bool {
	return errors.Is(err, invoicedomain.ErrInvoiceNotFound) ||
		errors.Is(err, logo.ErrLogoNotFound) ||
		errors.Is(err, gorm.ErrRecordNotFound)
}
