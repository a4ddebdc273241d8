package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"

	"github.com/hemope/doador-api/internal/app/models"
	"github.com/hemope/doador-api/internal/db"
	"github.com/hemope/doador-api/internal/pkg/apperrors"
	"github.com/hemope/doador-api/internal/pkg/dberrors"
)

// IDonorRepository defines donor persistence operations
type IDonorRepository interface {
	GetByCodigo(ctx context.Context, codigo string) (*models.Donor, error)
	GetByID(ctx context.Context, id int64) (*models.Donor, error)
	// Upsert inserts the donor or, when the code exists, overwrites the
	// supplied fields. It reports whether a new row was created.
	Upsert(ctx context.Context, rec models.DonorRecord) (*models.Donor, bool, error)
	Update(ctx context.Context, id int64, upd models.DonorUpdate) error
}

// DonorRepository handles donor database operations
type DonorRepository struct {
	db db.DBTX
}

var _ IDonorRepository = (*DonorRepository)(nil)

// NewDonorRepository creates a new DonorRepository
func NewDonorRepository(conn db.DBTX) *DonorRepository {
	return &DonorRepository{db: conn}
}

const donorColumns = `id, codigo_doador, nome_completo, tipo_sanguineo, data_nascimento, sexo,
	telefone, email, cpf, rg, endereco, cidade, estado, cep, created_at, updated_at`

// scanDonor reads donorColumns (optionally followed by extra destinations) from row.
func scanDonor(row pgx.Row, extra ...any) (*models.Donor, error) {
	d := &models.Donor{}
	var birth *time.Time
	dest := []any{
		&d.ID, &d.CodigoDoador, &d.NomeCompleto, &d.TipoSanguineo, &birth, &d.Sexo,
		&d.Telefone, &d.Email, &d.CPF, &d.RG, &d.Endereco, &d.Cidade, &d.Estado, &d.CEP,
		&d.CreatedAt, &d.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	d.DataNascimento = formatDate(birth)
	return d, nil
}

// GetByCodigo retrieves a donor by its donor code
func (r *DonorRepository) GetByCodigo(ctx context.Context, codigo string) (*models.Donor, error) {
	d, err := scanDonor(r.db.QueryRow(ctx,
		`SELECT `+donorColumns+` FROM donors WHERE codigo_doador = $1`, codigo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error fetching donor %q: %w", codigo, err)
	}
	return d, nil
}

// GetByID retrieves a donor by ID
func (r *DonorRepository) GetByID(ctx context.Context, id int64) (*models.Donor, error) {
	d, err := scanDonor(r.db.QueryRow(ctx,
		`SELECT `+donorColumns+` FROM donors WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error fetching donor %d: %w", id, err)
	}
	return d, nil
}

// Upsert relies on the donors_codigo_doador_key constraint, so two
// concurrent imports of the same code converge on a single row.
func (r *DonorRepository) Upsert(ctx context.Context, rec models.DonorRecord) (*models.Donor, bool, error) {
	birth, err := parseDate(rec.DataNascimento)
	if err != nil {
		return nil, false, err
	}

	var inserted bool
	d, err := scanDonor(r.db.QueryRow(ctx, `
		INSERT INTO donors (codigo_doador, nome_completo, tipo_sanguineo, data_nascimento, sexo,
			telefone, email, cpf, rg, endereco, cidade, estado, cep)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (codigo_doador) DO UPDATE SET
			nome_completo = EXCLUDED.nome_completo,
			tipo_sanguineo = EXCLUDED.tipo_sanguineo,
			data_nascimento = COALESCE(EXCLUDED.data_nascimento, donors.data_nascimento),
			sexo = COALESCE(EXCLUDED.sexo, donors.sexo),
			telefone = COALESCE(EXCLUDED.telefone, donors.telefone),
			email = COALESCE(EXCLUDED.email, donors.email),
			cpf = COALESCE(EXCLUDED.cpf, donors.cpf),
			rg = COALESCE(EXCLUDED.rg, donors.rg),
			endereco = COALESCE(EXCLUDED.endereco, donors.endereco),
			cidade = COALESCE(EXCLUDED.cidade, donors.cidade),
			estado = COALESCE(EXCLUDED.estado, donors.estado),
			cep = COALESCE(EXCLUDED.cep, donors.cep),
			updated_at = NOW()
		RETURNING `+donorColumns+`, (xmax = 0) AS inserted`,
		rec.CodigoDoador, rec.NomeCompleto, rec.TipoSanguineo, birth, rec.Sexo,
		rec.Telefone, rec.Email, rec.CPF, rec.RG, rec.Endereco, rec.Cidade, rec.Estado, rec.CEP,
	), &inserted)
	if err != nil {
		if ferr := donorFieldError(recordValues(rec), err); ferr != nil {
			return nil, false, ferr
		}
		return nil, false, fmt.Errorf("error upserting donor %q: %w", rec.CodigoDoador, err)
	}
	return d, inserted, nil
}

// Update overwrites the non-nil fields of upd on donor id.
func (r *DonorRepository) Update(ctx context.Context, id int64, upd models.DonorUpdate) error {
	if upd.IsEmpty() {
		return nil
	}

	birth, err := parseDate(upd.DataNascimento)
	if err != nil {
		return err
	}

	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	addString := func(column string, value *string) {
		if value != nil {
			add(column, *value)
		}
	}

	addString("nome_completo", upd.NomeCompleto)
	addString("tipo_sanguineo", upd.TipoSanguineo)
	if birth != nil {
		add("data_nascimento", *birth)
	}
	addString("sexo", upd.Sexo)
	addString("telefone", upd.Telefone)
	addString("email", upd.Email)
	addString("cpf", upd.CPF)
	addString("rg", upd.RG)
	addString("endereco", upd.Endereco)
	addString("cidade", upd.Cidade)
	addString("estado", upd.Estado)
	addString("cep", upd.CEP)

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE donors SET %s, updated_at = NOW() WHERE id = $%d`,
		strings.Join(sets, ", "), len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if ferr := donorFieldError(updateValues(upd), err); ferr != nil {
			return ferr
		}
		return fmt.Errorf("error updating donor %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// donorColumnSizes are the character limits of the donors table.
var donorColumnSizes = map[string]int{
	"codigo_doador":  50,
	"nome_completo":  255,
	"tipo_sanguineo": 5,
	"sexo":           1,
	"telefone":       20,
	"email":          255,
	"cpf":            14,
	"rg":             20,
	"cidade":         100,
	"estado":         2,
	"cep":            10,
}

type columnValue struct {
	column string
	value  *string
}

func recordValues(rec models.DonorRecord) []columnValue {
	return []columnValue{
		{"codigo_doador", &rec.CodigoDoador}, {"nome_completo", &rec.NomeCompleto},
		{"tipo_sanguineo", &rec.TipoSanguineo}, {"sexo", rec.Sexo}, {"telefone", rec.Telefone},
		{"email", rec.Email}, {"cpf", rec.CPF}, {"rg", rec.RG}, {"cidade", rec.Cidade},
		{"estado", rec.Estado}, {"cep", rec.CEP},
	}
}

func updateValues(upd models.DonorUpdate) []columnValue {
	return []columnValue{
		{"nome_completo", upd.NomeCompleto}, {"tipo_sanguineo", upd.TipoSanguineo},
		{"sexo", upd.Sexo}, {"telefone", upd.Telefone}, {"email", upd.Email}, {"cpf", upd.CPF},
		{"rg", upd.RG}, {"cidade", upd.Cidade}, {"estado", upd.Estado}, {"cep", upd.CEP},
	}
}

// donorFieldError turns a rejected value into a validation error naming the
// column. It returns nil for errors that are not about a single value.
func donorFieldError(values []columnValue, err error) error {
	if name, ok := dberrors.CheckViolation(err); ok && name == "donors_sexo_check" {
		return apperrors.NewValidationError("sexo", "sexo must be M or F")
	}
	if column, ok := dberrors.NotNullViolation(err); ok {
		return apperrors.NewValidationError(column, column+" is required")
	}
	if !dberrors.IsStringTooLong(err) {
		return nil
	}
	for _, v := range values {
		size := donorColumnSizes[v.column]
		if v.value != nil && utf8.RuneCountInString(*v.value) > size {
			return apperrors.NewValidationError(v.column, fmt.Sprintf("%s exceeds %d characters", v.column, size))
		}
	}
	return apperrors.NewValidationError("", "a value exceeds its column size")
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(models.DateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", *s, err)
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(models.DateLayout)
	return &s
}
