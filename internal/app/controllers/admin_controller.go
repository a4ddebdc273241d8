package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hemope/doador-api/internal/app/models/dto"
	"github.com/hemope/doador-api/internal/app/services"
	"github.com/hemope/doador-api/internal/middleware"
	"github.com/hemope/doador-api/internal/pkg/apperrors"
	"github.com/hemope/doador-api/internal/pkg/helpers"
)

// AdminController handles account administration
type AdminController struct {
	userService services.IUserService
	logger      zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(userService services.IUserService, logger zerolog.Logger) *AdminController {
	return &AdminController{userService: userService, logger: logger}
}

// SetUserStatus activates or deactivates an account
// @Summary Change account status
// @Description Activates or deactivates an account. Deactivated accounts cannot log in.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param request body dto.SetActiveRequest true "New status"
// @Success 200 {object} dto.StructuredResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID or body"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /admin/users/{id}/status [patch]
func (c *AdminController) SetUserStatus(ctx *gin.Context) {
	actorID, ok := helpers.UserIDFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenMissing)
		return
	}

	userID, ok := helpers.ParseIDParam(ctx, "id")
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("id", "id must be a positive integer"))
		return
	}

	var req dto.SetActiveRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.userService.SetActive(ctx.Request.Context(), actorID, userID, *req.Active); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Account deactivated"
	if *req.Active {
		message = "Account activated"
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(gin.H{"id": userID, "is_active": *req.Active}, message))
}
