package models

import "time"

// RowError describes one spreadsheet row that could not be imported.
type RowError struct {
	Row          int    `json:"row" example:"4"`
	CodigoDoador string `json:"codigo_doador" example:"D3"`
	Error        string `json:"error" example:"missing required field: tipo_sanguineo"`
}

// ImportLog is one audit record per processed spreadsheet
type ImportLog struct {
	ID                int64      `json:"id" db:"id"`
	Filename          string     `json:"filename" db:"filename"`
	TotalRows         int        `json:"total_rows" db:"total_rows"`
	SuccessfulImports int        `json:"successful_imports" db:"successful_imports"`
	FailedImports     int        `json:"failed_imports" db:"failed_imports"`
	Errors            []RowError `json:"errors" db:"errors"`
	ImportedBy        *int64     `json:"imported_by,omitempty" db:"imported_by"`
	ImportedByEmail   *string    `json:"imported_by_email,omitempty"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}
