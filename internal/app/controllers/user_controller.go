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
	"github.com/hemope/doador-api/internal/pkg/qrcard"
)

// UserController serves the authenticated account
type UserController struct {
	userService services.IUserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService services.IUserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// GetMe returns the authenticated account
// @Summary Current account
// @Description Returns the authenticated account joined with its donor record
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=models.UserProfile}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found or disabled"
// @Router /users/me [get]
func (c *UserController) GetMe(ctx *gin.Context) {
	userID, ok := helpers.UserIDFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenMissing)
		return
	}

	profile, err := c.userService.GetMe(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(profile, ""))
}

// GetCard returns the donor card QR code
// @Summary Donor card QR code
// @Description Returns a PNG QR code encoding the authenticated donor's code
// @Tags users
// @Produce png
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found or disabled"
// @Router /users/me/card.png [get]
func (c *UserController) GetCard(ctx *gin.Context) {
	userID, ok := helpers.UserIDFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenMissing)
		return
	}

	png, err := c.userService.CardPNG(ctx.Request.Context(), userID, qrcard.DefaultSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Cache-Control", "no-store")
	ctx.Data(http.StatusOK, "image/png", png)
}
