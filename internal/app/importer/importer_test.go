package importer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hemope/doador-api/internal/pkg/apperrors"
)

// buildWorkbook writes rows into the first sheet of a new workbook.
func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for r, cells := range rows {
		for c, v := range cells {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func rowOf(headers []string, values ...string) Row {
	r := Row{Number: 2, Headers: headers, Values: map[string]string{}}
	for i, h := range headers {
		if i < len(values) && values[i] != "" {
			r.Values[h] = values[i]
		}
	}
	return r
}

func TestReadSheet(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{" codigo_doador ", "nome_completo", "tipo_sanguineo"},
		{"D1", " Ana ", "A+"},
		{nil, nil, nil},
		{"D2", "Bruno", "O-"},
	})

	sheet, err := ReadSheet(buf)
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", sheet.Name)
	assert.Equal(t, []string{"codigo_doador", "nome_completo", "tipo_sanguineo"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2)

	assert.Equal(t, 2, sheet.Rows[0].Number)
	v, ok := sheet.Rows[0].Get("nome_completo")
	assert.True(t, ok)
	assert.Equal(t, "Ana", v)
	assert.Equal(t, 3, sheet.Rows[1].Number)
}

func TestReadSheet_NumbersFromHeader(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{nil, nil, nil},
		{"codigo_doador", "nome_completo", "tipo_sanguineo"},
		{"D1", "Ana", "A+"},
		{nil, nil, nil},
		{nil, nil, nil},
		{"D2", "Bruno", "O-"},
	})

	sheet, err := ReadSheet(buf)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, 2, sheet.Rows[0].Number)
	assert.Equal(t, 3, sheet.Rows[1].Number)
}

func TestReadSheet_Errors(t *testing.T) {
	t.Run("not a workbook", func(t *testing.T) {
		_, err := ReadSheet(bytes.NewBufferString("plain text"))
		assert.ErrorIs(t, err, apperrors.ErrSpreadsheetUnreadable)
	})

	t.Run("header only", func(t *testing.T) {
		buf := buildWorkbook(t, [][]any{{"codigo_doador", "nome_completo"}})
		_, err := ReadSheet(buf)
		assert.ErrorIs(t, err, apperrors.ErrSpreadsheetEmpty)
	})

	t.Run("empty sheet", func(t *testing.T) {
		buf := buildWorkbook(t, nil)
		_, err := ReadSheet(buf)
		assert.ErrorIs(t, err, apperrors.ErrSpreadsheetEmpty)
	})
}

func TestHeaderVariants(t *testing.T) {
	variants := HeaderVariants("nome_completo")
	assert.Equal(t, "nome_completo", variants[0])
	assert.Contains(t, variants, "NOME_COMPLETO")
	assert.Contains(t, variants, "Nome_completo")
	assert.Contains(t, variants, "nome completo")
	assert.Contains(t, variants, "nome-completo")
	assert.Contains(t, variants, "Nome Completo")
	assert.Contains(t, variants, "NOME COMPLETO")
	assert.Contains(t, variants, "Nome-Completo")

	seen := map[string]bool{}
	for _, v := range variants {
		assert.False(t, seen[v], "duplicate variant %q", v)
		seen[v] = true
	}
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "nome_completo", NormalizeHeader("  Nome  Completo "))
	assert.Equal(t, "data_nascimento", NormalizeHeader("DATA-NASCIMENTO"))
	assert.Equal(t, "tipo_sanguineo", NormalizeHeader("Tipo__Sanguineo"))
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		values  []string
		field   Field
		want    string
		found   bool
	}{
		{"exact", []string{"nome_completo"}, []string{"Ana"}, FieldNomeCompleto, "Ana", true},
		{"title spaced", []string{"Nome Completo"}, []string{"Ana"}, FieldNomeCompleto, "Ana", true},
		{"upper hyphen", []string{"TIPO-SANGUINEO"}, []string{"AB+"}, FieldTipoSanguineo, "AB+", true},
		{"synonym", []string{"Nome"}, []string{"Ana"}, FieldNomeCompleto, "Ana", true},
		{"primary wins over synonym", []string{"nome", "nome_completo"}, []string{"Short", "Full Name"}, FieldNomeCompleto, "Full Name", true},
		{"normalized fallback", []string{"nOmE   cOmPlEtO"}, []string{"Ana"}, FieldNomeCompleto, "Ana", true},
		{"celular synonym", []string{"Celular"}, []string{"8199"}, FieldTelefone, "8199", true},
		{"empty cell is absent", []string{"cpf"}, []string{""}, FieldCPF, "", false},
		{"missing column", []string{"other"}, []string{"x"}, FieldCEP, "", false},
		{"unknown field", []string{"x"}, []string{"y"}, Field("x"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(rowOf(tt.headers, tt.values...), tt.field)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1990-05-15", "1990-05-15", true},
		{"15/05/1990", "1990-05-15", true},
		{"15-05-1990", "1990-05-15", true},
		{"5/3/2001", "2001-03-05", true},
		{"32978", "1990-04-15", true},
		{"32978.75", "1990-04-15", true},
		{"1", "1899-12-31", true},
		{"1990-05-15T10:00:00Z", "1990-05-15", true},
		{"31/02/1990", "", false},
		{"not a date", "", false},
		{"0", "", false},
		{"-5", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDate_RoundTrip(t *testing.T) {
	d := time.Date(1985, time.November, 3, 0, 0, 0, 0, time.UTC)
	canonical := d.Format("2006-01-02")

	for _, in := range []string{canonical, d.Format("02/01/2006"), d.Format("02-01-2006")} {
		got, ok := NormalizeDate(in)
		require.True(t, ok, in)
		assert.Equal(t, canonical, got)

		again, ok := NormalizeDate(got)
		require.True(t, ok)
		assert.Equal(t, got, again)
	}
}

func TestNormalizeSex(t *testing.T) {
	for in, want := range map[string]string{
		"m": "M", " Masculino ": "M", "MALE": "M",
		"f": "F", "feminino": "F", "Female": "F",
	} {
		got, ok := NormalizeSex(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "X", "outro", "homem"} {
		_, ok := NormalizeSex(in)
		assert.False(t, ok, in)
	}
}

func TestMapRow(t *testing.T) {
	headers := []string{"Codigo Doador", "Nome Completo", "Tipo Sanguineo", "Data Nascimento", "Sexo", "Email", "Cidade"}

	t.Run("full row", func(t *testing.T) {
		rec, err := MapRow(rowOf(headers, "D1", "Ana Lima", "A+", "15/05/1990", "feminino", "ana@example.com", "Recife"))
		require.NoError(t, err)
		assert.Equal(t, "D1", rec.CodigoDoador)
		assert.Equal(t, "Ana Lima", rec.NomeCompleto)
		assert.Equal(t, "A+", rec.TipoSanguineo)
		require.NotNil(t, rec.DataNascimento)
		assert.Equal(t, "1990-05-15", *rec.DataNascimento)
		require.NotNil(t, rec.Sexo)
		assert.Equal(t, "F", *rec.Sexo)
		require.NotNil(t, rec.Email)
		assert.Equal(t, "ana@example.com", *rec.Email)
		assert.Nil(t, rec.Telefone)
	})

	t.Run("lenient optional values", func(t *testing.T) {
		rec, err := MapRow(rowOf(headers, "D1", "Ana", "A+", "someday", "?"))
		require.NoError(t, err)
		assert.Nil(t, rec.DataNascimento)
		assert.Nil(t, rec.Sexo)
	})

	t.Run("required fields in order", func(t *testing.T) {
		_, err := MapRow(rowOf(headers, "", "", ""))
		require.Error(t, err)
		assert.True(t, IsMissingField(err))
		assert.Contains(t, err.Error(), "codigo_doador")

		_, err = MapRow(rowOf(headers, "D1", "", ""))
		assert.Contains(t, err.Error(), "nome_completo")

		_, err = MapRow(rowOf(headers, "D1", "Ana", ""))
		assert.Contains(t, err.Error(), "tipo_sanguineo")
	})
}

func TestResult(t *testing.T) {
	headers := []string{"codigo_doador", "nome_completo"}
	sheet := []Row{
		rowOf(headers, "D1", "Ana"),
		rowOf(headers, "", "Bruno"),
	}
	sheet[1].Number = 3

	res := NewResult(3)
	res.Succeeded(true)
	res.Succeeded(false)
	res.Failed(sheet[0], &MissingFieldError{Field: FieldTipoSanguineo})
	res.Failed(sheet[1], &MissingFieldError{Field: FieldCodigoDoador})

	assert.Equal(t, 2, res.Successful)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 2, res.Failures())
	assert.Equal(t, "D1", res.Errors[0].CodigoDoador)
	assert.Equal(t, 3, res.Errors[1].Row)
	assert.Equal(t, UnknownCode, res.Errors[1].CodigoDoador)
}

func TestTemplate(t *testing.T) {
	data, err := Template()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, TemplateSheet, f.GetSheetName(0))

	sheet, err := ReadSheet(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, TemplateHeaders(), sheet.Headers)
	require.Len(t, sheet.Rows, 1)

	rec, err := MapRow(sheet.Rows[0])
	require.NoError(t, err)
	assert.Equal(t, "D0001", rec.CodigoDoador)
}
