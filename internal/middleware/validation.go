package middleware

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/hemope/doador-api/internal/app/models/dto"
	"github.com/hemope/doador-api/internal/pkg/apperrors"
)

// BindJSON binds and validates the request body into obj. On failure it
// writes a 400 envelope listing every invalid field and returns false.
func BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleAPIError(c, BindingError(err))
		return false
	}
	return true
}

// BindingError converts a gin binding error into a validation error
func BindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		report := dto.NewValidationErrors()
		for _, fe := range verrs {
			report.AddError(fe.Field(), formatValidationError(fe))
		}
		first := report.Errors[0]
		return apperrors.NewValidationError(first.Field, first.Message).WithDetails(report.Errors)
	}
	if errors.Is(err, io.EOF) {
		return apperrors.NewValidationError("", "Request body is required")
	}
	return apperrors.NewValidationError("", fmt.Sprintf("Invalid request format: %v", err))
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
	}
}

// jsonTagName reports fields by their json key so errors name what clients send.
func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param() + " characters long"
	case "max":
		return field + " must be at most " + e.Param() + " characters long"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}
