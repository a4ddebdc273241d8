package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hemope/doador-api/internal/app/models/dto"
	"github.com/hemope/doador-api/internal/pkg/apperrors"
	"github.com/hemope/doador-api/internal/pkg/auth"
	"github.com/hemope/doador-api/internal/pkg/helpers"
)

// TokenVerifier validates an access token and returns its claims
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err == nil {
			var claims *auth.Claims
			if claims, err = m.verifier.VerifyToken(tokenString); err == nil {
				c.Set(helpers.ContextUserID, claims.UserID)
				c.Set(helpers.ContextEmail, claims.Email)
				c.Set(helpers.ContextRole, claims.Role)
				c.Next()
				return
			}
		}

		var detail *dto.ErrorDetail
		switch {
		case errors.Is(err, apperrors.ErrTokenMissing):
			detail = dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing")
		case errors.Is(err, apperrors.ErrTokenExpired):
			detail = dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Authentication failed").
				WithDetails("Token has expired")
		default:
			detail = dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed").
				WithDetails("Invalid token")
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
	}
}

// RoleRequired middleware to check if user has required role. JWTAuth must run first.
func (m *AuthMiddleware) RoleRequired(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(helpers.ContextRole)
		if !exists {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("User role not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		roleStr, ok := role.(string)
		if !ok || roleStr != requiredRole {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}
