package importer

import (
	"errors"
	"fmt"

	"github.com/hemope/doador-api/internal/app/models"
)

// UnknownCode is reported for failed rows without a donor code.
const UnknownCode = "N/A"

// MissingFieldError reports a required column that is absent or empty.
type MissingFieldError struct {
	Field Field
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// IsMissingField reports whether err is a MissingFieldError.
func IsMissingField(err error) bool {
	var mf *MissingFieldError
	return errors.As(err, &mf)
}

// MapRow extracts a donor record from row. Dates and sex values that do not
// normalize are left nil rather than failing the row.
func MapRow(row Row) (models.DonorRecord, error) {
	var rec models.DonorRecord

	code, ok := Extract(row, FieldCodigoDoador)
	if !ok {
		return rec, &MissingFieldError{Field: FieldCodigoDoador}
	}
	rec.CodigoDoador = code

	name, ok := Extract(row, FieldNomeCompleto)
	if !ok {
		return rec, &MissingFieldError{Field: FieldNomeCompleto}
	}
	rec.NomeCompleto = name

	blood, ok := Extract(row, FieldTipoSanguineo)
	if !ok {
		return rec, &MissingFieldError{Field: FieldTipoSanguineo}
	}
	rec.TipoSanguineo = blood

	if raw, ok := Extract(row, FieldDataNascimento); ok {
		if d, ok := NormalizeDate(raw); ok {
			rec.DataNascimento = &d
		}
	}
	if raw, ok := Extract(row, FieldSexo); ok {
		if s, ok := NormalizeSex(raw); ok {
			rec.Sexo = &s
		}
	}

	rec.Telefone = optional(row, FieldTelefone)
	rec.Email = optional(row, FieldEmail)
	rec.CPF = optional(row, FieldCPF)
	rec.RG = optional(row, FieldRG)
	rec.Endereco = optional(row, FieldEndereco)
	rec.Cidade = optional(row, FieldCidade)
	rec.Estado = optional(row, FieldEstado)
	rec.CEP = optional(row, FieldCEP)

	return rec, nil
}

func optional(row Row, field Field) *string {
	v, ok := Extract(row, field)
	if !ok {
		return nil
	}
	return &v
}

// RowCode returns the donor code of row, or UnknownCode.
func RowCode(row Row) string {
	if code, ok := Extract(row, FieldCodigoDoador); ok {
		return code
	}
	return UnknownCode
}

// Result accumulates the outcome of an import run.
type Result struct {
	TotalRows  int
	Successful int
	Inserted   int
	Updated    int
	Errors     []models.RowError
}

// NewResult starts a run over total data rows.
func NewResult(total int) *Result {
	return &Result{TotalRows: total}
}

// Succeeded records a stored row.
func (r *Result) Succeeded(inserted bool) {
	r.Successful++
	if inserted {
		r.Inserted++
	} else {
		r.Updated++
	}
}

// Failed records a rejected row.
func (r *Result) Failed(row Row, err error) {
	r.Errors = append(r.Errors, models.RowError{
		Row:          row.Number,
		CodigoDoador: RowCode(row),
		Error:        err.Error(),
	})
}

// Failures returns the number of rejected rows.
func (r *Result) Failures() int {
	return len(r.Errors)
}
