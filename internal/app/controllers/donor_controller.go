package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hemope/doador-api/internal/app/models/dto"
	"github.com/hemope/doador-api/internal/app/services"
	"github.com/hemope/doador-api/internal/middleware"
)

// DonorController serves donor lookups
type DonorController struct {
	donorService services.IDonorService
}

// NewDonorController creates a new DonorController
func NewDonorController(donorService services.IDonorService) *DonorController {
	return &DonorController{donorService: donorService}
}

// GetByCodigo returns a donor by donor code
// @Summary Get donor
// @Description Returns the donor with the given donor code
// @Tags donors
// @Produce json
// @Param codigo path string true "Donor code"
// @Success 200 {object} dto.StructuredResponse{data=models.Donor}
// @Failure 400 {object} dto.ErrorResponse "Blank donor code"
// @Failure 404 {object} dto.ErrorResponse "Donor not found"
// @Router /donors/{codigo} [get]
func (c *DonorController) GetByCodigo(ctx *gin.Context) {
	donor, err := c.donorService.GetByCodigo(ctx.Request.Context(), ctx.Param("codigo"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(donor, ""))
}
