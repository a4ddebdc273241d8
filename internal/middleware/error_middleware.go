package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hemope/doador-api/internal/app/models/dto"
	"github.com/hemope/doador-api/internal/pkg/apperrors"
	"github.com/hemope/doador-api/internal/pkg/dberrors"
	"github.com/hemope/doador-api/internal/pkg/logger"
)

// HandleAPIError writes the error envelope for err. Unclassified errors are
// logged and answered with 500; their text is hidden in release mode.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classifyError(err)
	if status == http.StatusInternalServerError {
		logger.Error().
			Err(err).
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
		if gin.Mode() != gin.ReleaseMode {
			detail.WithDetails(err.Error())
		}
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func classifyError(err error) (int, *dto.ErrorDetail) {
	var ce *apperrors.CustomError
	hasCustom := errors.As(err, &ce)
	message := func(fallback string) string {
		return apperrors.MessageOf(err, fallback)
	}
	withCustom := func(d *dto.ErrorDetail) *dto.ErrorDetail {
		if hasCustom {
			if ce.Field != "" {
				d.WithField(ce.Field)
			}
			if ce.Details != nil {
				d.WithDetails(ce.Details)
			}
		}
		return d
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, withCustom(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message("Validation failed")))
	case errors.Is(err, apperrors.ErrDonorNotFound):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeDonorNotFound, apperrors.ErrDonorNotFound.Error())
	case errors.Is(err, apperrors.ErrDonorAlreadyLinked):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeDonorAlreadyLinked, apperrors.ErrDonorAlreadyLinked.Error())
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeEmailRegistered, apperrors.ErrEmailAlreadyExists.Error()).WithField("email")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid email or password")
	case errors.Is(err, apperrors.ErrAccountDisabled):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeAccountDisabled, "Account is disabled. Please contact support")
	case errors.Is(err, apperrors.ErrTokenMissing):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, message("Permission denied"))
	case errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "User not found")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message("Resource not found"))
	case errors.Is(err, apperrors.ErrConflict), dberrors.IsUniqueViolation(err):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, message("Resource already exists"))
	case errors.Is(err, apperrors.ErrInvalidReference), dberrors.IsForeignKeyViolation(err):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidReference, message("Referenced resource does not exist"))
	case errors.Is(err, apperrors.ErrSpreadsheetUnreadable):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Could not read the spreadsheet file")
	case errors.Is(err, apperrors.ErrSpreadsheetEmpty):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Spreadsheet is empty or has no data rows")
	case errors.Is(err, apperrors.ErrInvalidUpload), errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, withCustom(dto.NewErrorDetail(dto.ErrorCodeBadRequest, message("Bad request")))
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// Recovery turns panics into a logged 500 response
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		HandleAPIError(c, fmt.Errorf("panic: %v", recovered))
	})
}

// NoRoute answers unknown routes with a 404 envelope
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		detail := dto.NewErrorDetail(dto.ErrorCodeRouteNotFound,
			fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponse(detail))
	}
}
