package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hemope/doador-api/internal/pkg/apperrors"
	"github.com/hemope/doador-api/internal/pkg/metrics"
)

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, cells := range rows {
		for c, v := range cells {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

type importFixture struct {
	donors  *fakeDonorRepo
	logs    *fakeImportLogRepo
	metrics *metrics.Metrics
	service *ImportService
}

func newImportFixture() *importFixture {
	donors := newFakeDonorRepo()
	logs := &fakeImportLogRepo{}
	m := metrics.New()
	return &importFixture{
		donors:  donors,
		logs:    logs,
		metrics: m,
		service: NewImportService(donors, logs, m, zerolog.Nop()),
	}
}

func TestImport_UpsertsByCode(t *testing.T) {
	f := newImportFixture()
	data := workbook(t, [][]any{
		{"codigo_doador", "Nome Completo", "tipo_sanguineo", "data_nascimento", "sexo"},
		{"D1", "Ana", "A+", "15/05/1990", "F"},
		{"D2", "Bruno", "O-", "", "masculino"},
		{"D1", "Ana Lima", "A+", "", ""},
	})
	adminID := int64(1)

	summary, err := f.service.Process(context.Background(), bytes.NewReader(data), "donors.xlsx", &adminID)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, 3, summary.SuccessfulImports)
	assert.Equal(t, 0, summary.FailedImports)
	assert.Empty(t, summary.Errors)
	assert.Equal(t, 2, f.donors.count())

	d1, err := f.donors.GetByCodigo(context.Background(), "D1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", d1.NomeCompleto)
	require.NotNil(t, d1.DataNascimento, "later rows without a date keep the stored one")
	assert.Equal(t, "1990-05-15", *d1.DataNascimento)

	require.Len(t, f.logs.logs, 1)
	entry := f.logs.logs[0]
	assert.Equal(t, "donors.xlsx", entry.Filename)
	assert.Equal(t, 3, entry.TotalRows)
	assert.Nil(t, entry.Errors)
	require.NotNil(t, entry.ImportedBy)
	assert.Equal(t, adminID, *entry.ImportedBy)
}

func TestImport_PartialFailure(t *testing.T) {
	f := newImportFixture()
	data := workbook(t, [][]any{
		{"codigo_doador", "nome_completo", "tipo_sanguineo"},
		{"D1", "Ana", "A+"},
		{"D2", "Bruno", "B+"},
		{"D3", "Carla", ""},
		{"", "Davi", "AB-"},
	})

	summary, err := f.service.Process(context.Background(), bytes.NewReader(data), "donors.xlsx", nil)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalRows)
	assert.Equal(t, 2, summary.SuccessfulImports)
	assert.Equal(t, 2, summary.FailedImports)
	assert.Equal(t, summary.TotalRows, summary.SuccessfulImports+summary.FailedImports)

	require.Len(t, summary.Errors, 2)
	assert.Equal(t, 4, summary.Errors[0].Row)
	assert.Equal(t, "D3", summary.Errors[0].CodigoDoador)
	assert.Contains(t, summary.Errors[0].Error, "tipo_sanguineo")
	assert.Equal(t, 5, summary.Errors[1].Row)
	assert.Equal(t, "N/A", summary.Errors[1].CodigoDoador)

	require.Len(t, f.logs.logs, 1)
	assert.Len(t, f.logs.logs[0].Errors, 2)
	assert.Nil(t, f.logs.logs[0].ImportedBy)

	assert.Equal(t, float64(2), importRows(t, f.metrics, "success"))
}

// importRows reads one series of donor_import_rows_total through the registry.
func importRows(t *testing.T, m *metrics.Metrics, result string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "donor_import_rows_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "result" && lp.GetValue() == result {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	t.Fatalf("series donor_import_rows_total{result=%q} not found", result)
	return 0
}

func TestImport_StoreFailureIsRowError(t *testing.T) {
	f := newImportFixture()
	f.donors.upsertErr = errors.New("connection reset")
	data := workbook(t, [][]any{
		{"codigo_doador", "nome_completo", "tipo_sanguineo"},
		{"D1", "Ana", "A+"},
	})

	summary, err := f.service.Process(context.Background(), bytes.NewReader(data), "donors.xlsx", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.SuccessfulImports)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "D1", summary.Errors[0].CodigoDoador)
	assert.NotContains(t, summary.Errors[0].Error, "connection reset")
}

func TestImport_FieldErrorIsRowMessage(t *testing.T) {
	f := newImportFixture()
	f.donors.upsertErr = fmt.Errorf("upsert: %w", apperrors.NewValidationError("estado", "estado exceeds 2 characters"))
	data := workbook(t, [][]any{
		{"codigo_doador", "nome_completo", "tipo_sanguineo", "estado"},
		{"D1", "Ana", "A+", "Pernambuco"},
	})

	summary, err := f.service.Process(context.Background(), bytes.NewReader(data), "donors.xlsx", nil)
	require.NoError(t, err)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "D1", summary.Errors[0].CodigoDoador)
	assert.Equal(t, "estado exceeds 2 characters", summary.Errors[0].Error)
}

func TestImport_Rejected(t *testing.T) {
	f := newImportFixture()

	_, err := f.service.Process(context.Background(), bytes.NewReader([]byte("garbage")), "bad.xlsx", nil)
	assert.ErrorIs(t, err, apperrors.ErrSpreadsheetUnreadable)

	empty := workbook(t, [][]any{{"codigo_doador", "nome_completo", "tipo_sanguineo"}})
	_, err = f.service.Process(context.Background(), bytes.NewReader(empty), "empty.xlsx", nil)
	assert.ErrorIs(t, err, apperrors.ErrSpreadsheetEmpty)

	assert.Empty(t, f.logs.logs)
	count, err := testutil.GatherAndCount(f.metrics.Registry(), "donor_import_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestImport_AuditFailurePropagates(t *testing.T) {
	f := newImportFixture()
	f.logs.createErr = errors.New("disk full")
	data := workbook(t, [][]any{
		{"codigo_doador", "nome_completo", "tipo_sanguineo"},
		{"D1", "Ana", "A+"},
	})

	_, err := f.service.Process(context.Background(), bytes.NewReader(data), "donors.xlsx", nil)
	assert.Error(t, err)
}

func TestImport_ProcessFile(t *testing.T) {
	f := newImportFixture()
	path := filepath.Join(t.TempDir(), "upload.xlsx")
	require.NoError(t, os.WriteFile(path, workbook(t, [][]any{
		{"CODIGO_DOADOR", "NOME", "Tipo-Sangue"},
		{"D9", "Zeca", "O+"},
	}), 0o600))

	summary, err := f.service.ProcessFile(context.Background(), path, "upload.xlsx", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SuccessfulImports)

	d, err := f.donors.GetByCodigo(context.Background(), "D9")
	require.NoError(t, err)
	assert.Equal(t, "Zeca", d.NomeCompleto)
	assert.Equal(t, "O+", d.TipoSanguineo)
}

func TestImport_Logs(t *testing.T) {
	f := newImportFixture()
	data := workbook(t, [][]any{
		{"codigo_doador", "nome_completo", "tipo_sanguineo"},
		{"D1", "Ana", "A+"},
	})
	for _, name := range []string{"a.xlsx", "b.xlsx", "c.xlsx"} {
		_, err := f.service.Process(context.Background(), bytes.NewReader(data), name, nil)
		require.NoError(t, err)
	}

	logs, err := f.service.ListLogs(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "c.xlsx", logs[0].Filename)

	entry, err := f.service.GetLog(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "a.xlsx", entry.Filename)

	_, err = f.service.GetLog(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestImport_Template(t *testing.T) {
	f := newImportFixture()
	data, err := f.service.Template()
	require.NoError(t, err)

	summary, err := f.service.Process(context.Background(), bytes.NewReader(data), "template.xlsx", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SuccessfulImports)
}
