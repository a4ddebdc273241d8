package importer

import (
	"strings"
	"unicode"
)

// Field is the logical name of a donor attribute read from a sheet.
type Field string

const (
	FieldCodigoDoador   Field = "codigo_doador"
	FieldNomeCompleto   Field = "nome_completo"
	FieldTipoSanguineo  Field = "tipo_sanguineo"
	FieldDataNascimento Field = "data_nascimento"
	FieldSexo           Field = "sexo"
	FieldTelefone       Field = "telefone"
	FieldEmail          Field = "email"
	FieldCPF            Field = "cpf"
	FieldRG             Field = "rg"
	FieldEndereco       Field = "endereco"
	FieldCidade         Field = "cidade"
	FieldEstado         Field = "estado"
	FieldCEP            Field = "cep"
)

// column lists the header names accepted for a field, in priority order.
type column struct {
	field      Field
	candidates []string
}

// columnTable drives field extraction. Earlier candidates win over later
// synonyms when a sheet carries both.
var columnTable = []column{
	{FieldCodigoDoador, []string{"codigo_doador"}},
	{FieldNomeCompleto, []string{"nome_completo", "nome"}},
	{FieldTipoSanguineo, []string{"tipo_sanguineo", "tipo_sangue"}},
	{FieldDataNascimento, []string{"data_nascimento"}},
	{FieldSexo, []string{"sexo"}},
	{FieldTelefone, []string{"telefone", "celular"}},
	{FieldEmail, []string{"email"}},
	{FieldCPF, []string{"cpf"}},
	{FieldRG, []string{"rg"}},
	{FieldEndereco, []string{"endereco"}},
	{FieldCidade, []string{"cidade"}},
	{FieldEstado, []string{"estado"}},
	{FieldCEP, []string{"cep"}},
}

// TemplateHeaders returns the canonical header row, one per field.
func TemplateHeaders() []string {
	out := make([]string, len(columnTable))
	for i, c := range columnTable {
		out[i] = string(c.field)
	}
	return out
}

// Extract returns the first non-empty value of field in row.
func Extract(row Row, field Field) (string, bool) {
	for _, c := range columnTable {
		if c.field != field {
			continue
		}
		for _, name := range c.candidates {
			if v, ok := extractCandidate(row, name); ok {
				return v, true
			}
		}
		return "", false
	}
	return "", false
}

// extractCandidate tries the spelling variants of name, then falls back to
// comparing every header in column order after normalization.
func extractCandidate(row Row, name string) (string, bool) {
	for _, variant := range HeaderVariants(name) {
		if v, ok := row.Get(variant); ok {
			return v, true
		}
	}
	for _, header := range row.Headers {
		if NormalizeHeader(header) == name {
			if v, ok := row.Get(header); ok {
				return v, true
			}
		}
	}
	return "", false
}

// HeaderVariants lists the spellings tried for a snake_case column name:
// exact, lower, upper, capitalized, underscores as spaces, underscores as
// hyphens, then title-cased and upper-cased spaced and hyphenated forms.
func HeaderVariants(name string) []string {
	spaced := strings.ReplaceAll(name, "_", " ")
	hyphened := strings.ReplaceAll(name, "_", "-")

	candidates := []string{
		name,
		strings.ToLower(name),
		strings.ToUpper(name),
		capitalize(name),
		spaced,
		hyphened,
		titleCase(spaced, ' '),
		capitalize(spaced),
		strings.ToUpper(spaced),
		titleCase(hyphened, '-'),
		strings.ToUpper(hyphened),
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// NormalizeHeader lower-cases a header and folds spaces and hyphens to underscores.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.FieldsFunc(h, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || unicode.IsSpace(r)
	}), "_")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := []rune(strings.ToLower(s))
	lower[0] = unicode.ToUpper(lower[0])
	return string(lower)
}

func titleCase(s string, sep rune) string {
	parts := strings.Split(s, string(sep))
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, string(sep))
}
