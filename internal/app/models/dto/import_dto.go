package dto

import "github.com/hemope/doador-api/internal/app/models"

// ImportSummary is the outcome of one spreadsheet import
type ImportSummary struct {
	TotalRows         int               `json:"total_rows" example:"3"`
	SuccessfulImports int               `json:"successful_imports" example:"2"`
	FailedImports     int               `json:"failed_imports" example:"1"`
	Errors            []models.RowError `json:"errors"`
}
