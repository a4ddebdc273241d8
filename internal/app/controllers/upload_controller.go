package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hemope/doador-api/internal/app/models/dto"
	"github.com/hemope/doador-api/internal/app/services"
	"github.com/hemope/doador-api/internal/middleware"
	"github.com/hemope/doador-api/internal/pkg/apperrors"
	"github.com/hemope/doador-api/internal/pkg/filestorage"
	"github.com/hemope/doador-api/internal/pkg/helpers"
)

const (
	uploadField  = "file"
	xlsxMIME     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	templateName = "modelo_importacao_doadores.xlsx"
)

// multipartOverhead leaves room for boundaries and headers around the file part.
const multipartOverhead = 1 << 20

func isSpreadsheetExt(ext string) bool {
	return ext == ".xls" || ext == ".xlsx"
}

func isSpreadsheetMIME(mime string) bool {
	switch mime {
	case "application/vnd.ms-excel", xlsxMIME, "application/vnd.ms-excel.sheet.macroEnabled.12":
		return true
	}
	return false
}

// UploadController handles spreadsheet imports and their audit log
type UploadController struct {
	importService services.IImportService
	storage       filestorage.UploadStorage
	maxFileSize   int64
	logger        zerolog.Logger
}

// NewUploadController creates a new UploadController
func NewUploadController(
	importService services.IImportService,
	storage filestorage.UploadStorage,
	maxFileSize int64,
	logger zerolog.Logger,
) *UploadController {
	return &UploadController{
		importService: importService,
		storage:       storage,
		maxFileSize:   maxFileSize,
		logger:        logger,
	}
}

// checkFile accepts a spreadsheet by extension or MIME type, within the size limit
func (c *UploadController) checkFile(fh *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	mime := strings.TrimSpace(strings.SplitN(fh.Header.Get("Content-Type"), ";", 2)[0])
	if !isSpreadsheetExt(ext) && !isSpreadsheetMIME(mime) {
		return apperrors.NewCustomError(apperrors.ErrInvalidUpload,
			"Invalid file format. Only .xls and .xlsx files are allowed").WithField(uploadField)
	}
	if fh.Size > c.maxFileSize {
		return c.tooLarge()
	}
	return nil
}

func (c *UploadController) tooLarge() error {
	return apperrors.NewCustomError(apperrors.ErrInvalidUpload,
		fmt.Sprintf("File too large. Maximum size is %d MB", c.maxFileSize>>20)).WithField(uploadField)
}

// UploadXLS imports donors from a spreadsheet
// @Summary Import donors
// @Description Imports donors from an .xls/.xlsx file. Rows are upserted by donor code; invalid rows are reported and skipped.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Spreadsheet"
// @Success 200 {object} dto.StructuredResponse{data=dto.ImportSummary}
// @Failure 400 {object} dto.ErrorResponse "Missing, invalid or unreadable file"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /upload/xls [post]
func (c *UploadController) UploadXLS(ctx *gin.Context) {
	userID, ok := helpers.UserIDFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenMissing)
		return
	}

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxFileSize+multipartOverhead)
	fh, err := ctx.FormFile(uploadField)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			middleware.HandleAPIError(ctx, c.tooLarge())
			return
		}
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrInvalidUpload, "No file uploaded").WithField(uploadField))
		return
	}
	if err := c.checkFile(fh); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	path, err := c.storage.Save(fh)
	if err != nil {
		middleware.HandleAPIError(ctx, fmt.Errorf("error staging upload: %w", err))
		return
	}
	defer func() {
		if err := c.storage.Remove(path); err != nil {
			c.logger.Error().Err(err).Str("path", path).Msg("Failed to remove staged upload")
		}
	}()

	summary, err := c.importService.ProcessFile(ctx.Request.Context(), path, fh.Filename, &userID)
	if err != nil {
		c.logger.Warn().Err(err).Str("filename", fh.Filename).Msg("Import failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(summary, "File processed successfully"))
}

// ListLogs returns the latest import runs
// @Summary List imports
// @Tags upload
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries (default 50, max 200)"
// @Success 200 {object} dto.StructuredResponse{data=[]models.ImportLog}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /upload/logs [get]
func (c *UploadController) ListLogs(ctx *gin.Context) {
	logs, err := c.importService.ListLogs(ctx.Request.Context(), helpers.ParseLimit(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(logs, ""))
}

// GetLog returns one import run
// @Summary Get import
// @Tags upload
// @Produce json
// @Security BearerAuth
// @Param id path int true "Import log ID"
// @Success 200 {object} dto.StructuredResponse{data=models.ImportLog}
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /upload/logs/{id} [get]
func (c *UploadController) GetLog(ctx *gin.Context) {
	id, ok := helpers.ParseIDParam(ctx, "id")
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("id", "id must be a positive integer"))
		return
	}

	entry, err := c.importService.GetLog(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(entry, ""))
}

// Template downloads the import template
// @Summary Import template
// @Tags upload
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /upload/template [get]
func (c *UploadController) Template(ctx *gin.Context) {
	data, err := c.importService.Template()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, templateName))
	ctx.Data(http.StatusOK, xlsxMIME, data)
}
