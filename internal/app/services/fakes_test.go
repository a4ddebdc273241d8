package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hemope/doador-api/internal/app/models"
	"github.com/hemope/doador-api/internal/app/repositories"
	"github.com/hemope/doador-api/internal/pkg/apperrors"
)

// fakeDonorRepo is an in-memory IDonorRepository keyed by donor code
type fakeDonorRepo struct {
	mu        sync.Mutex
	nextID    int64
	byCode    map[string]*models.Donor
	upsertErr error
}

func newFakeDonorRepo() *fakeDonorRepo {
	return &fakeDonorRepo{byCode: map[string]*models.Donor{}}
}

func (r *fakeDonorRepo) add(code, name, blood string) *models.Donor {
	d, _, _ := r.Upsert(context.Background(), models.DonorRecord{CodigoDoador: code, NomeCompleto: name, TipoSanguineo: blood})
	return d
}

func (r *fakeDonorRepo) GetByCodigo(_ context.Context, codigo string) (*models.Donor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byCode[codigo]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDonorRepo) GetByID(_ context.Context, id int64) (*models.Donor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.byCode {
		if d.ID == id {
			cp := *d
			return &cp, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (r *fakeDonorRepo) Upsert(_ context.Context, rec models.DonorRecord) (*models.Donor, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return nil, false, r.upsertErr
	}

	d, exists := r.byCode[rec.CodigoDoador]
	if !exists {
		r.nextID++
		d = &models.Donor{ID: r.nextID, CodigoDoador: rec.CodigoDoador, CreatedAt: time.Now()}
		r.byCode[rec.CodigoDoador] = d
	}
	d.NomeCompleto = rec.NomeCompleto
	d.TipoSanguineo = rec.TipoSanguineo
	keep := func(dst **string, v *string) {
		if v != nil {
			*dst = v
		}
	}
	keep(&d.DataNascimento, rec.DataNascimento)
	keep(&d.Sexo, rec.Sexo)
	keep(&d.Telefone, rec.Telefone)
	keep(&d.Email, rec.Email)
	keep(&d.CPF, rec.CPF)
	keep(&d.RG, rec.RG)
	keep(&d.Endereco, rec.Endereco)
	keep(&d.Cidade, rec.Cidade)
	keep(&d.Estado, rec.Estado)
	keep(&d.CEP, rec.CEP)
	d.UpdatedAt = time.Now()

	cp := *d
	return &cp, !exists, nil
}

func (r *fakeDonorRepo) Update(_ context.Context, id int64, upd models.DonorUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.byCode {
		if d.ID != id {
			continue
		}
		if upd.NomeCompleto != nil {
			d.NomeCompleto = *upd.NomeCompleto
		}
		if upd.TipoSanguineo != nil {
			d.TipoSanguineo = *upd.TipoSanguineo
		}
		for _, f := range []struct {
			dst **string
			v   *string
		}{
			{&d.DataNascimento, upd.DataNascimento}, {&d.Sexo, upd.Sexo}, {&d.Telefone, upd.Telefone},
			{&d.Email, upd.Email}, {&d.CPF, upd.CPF}, {&d.RG, upd.RG}, {&d.Endereco, upd.Endereco},
			{&d.Cidade, upd.Cidade}, {&d.Estado, upd.Estado}, {&d.CEP, upd.CEP},
		} {
			if f.v != nil {
				*f.dst = f.v
			}
		}
		return nil
	}
	return apperrors.ErrResourceNotFound
}

func (r *fakeDonorRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byCode)
}

// fakeUserRepo is an in-memory IUserRepository that enforces the same
// uniqueness rules as the users table.
type fakeUserRepo struct {
	mu           sync.Mutex
	nextID       int64
	users        map[int64]*models.User
	donors       *fakeDonorRepo
	createErr    error
	lastLoginErr error
}

func newFakeUserRepo(donors *fakeDonorRepo) *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}, donors: donors}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
		if u.DonorID == user.DonorID {
			return apperrors.ErrDonorAlreadyLinked
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) DonorLinked(_ context.Context, donorID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.DonorID == donorID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) GetActiveProfile(ctx context.Context, id int64) (*models.UserProfile, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil || !u.IsActive {
		return nil, apperrors.ErrUserNotFound
	}
	d, err := r.donors.GetByID(ctx, u.DonorID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	return &models.UserProfile{
		ID: u.ID, Email: u.Email, Role: u.Role, IsActive: u.IsActive,
		LastLoginAt: u.LastLoginAt, CreatedAt: u.CreatedAt, Donor: *d,
	}, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastLoginErr != nil {
		return r.lastLoginErr
	}
	now := time.Now()
	r.users[id].LastLoginAt = &now
	return nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func (r *fakeUserRepo) AdminExists(_ context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Role == models.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

// fakeTransactor snapshots both fakes and restores them when fn fails
type fakeTransactor struct {
	users  *fakeUserRepo
	donors *fakeDonorRepo
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn repositories.TxFunc) error {
	t.donors.mu.Lock()
	donors := make(map[string]*models.Donor, len(t.donors.byCode))
	for k, d := range t.donors.byCode {
		cp := *d
		donors[k] = &cp
	}
	t.donors.mu.Unlock()

	t.users.mu.Lock()
	users := make(map[int64]*models.User, len(t.users.users))
	for k, u := range t.users.users {
		cp := *u
		users[k] = &cp
	}
	t.users.mu.Unlock()

	if err := fn(ctx, t.users, t.donors); err != nil {
		t.donors.mu.Lock()
		t.donors.byCode = donors
		t.donors.mu.Unlock()
		t.users.mu.Lock()
		t.users.users = users
		t.users.mu.Unlock()
		return err
	}
	return nil
}

// fakeImportLogRepo keeps import records in memory
type fakeImportLogRepo struct {
	mu        sync.Mutex
	logs      []models.ImportLog
	createErr error
}

func (r *fakeImportLogRepo) Create(_ context.Context, log *models.ImportLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	log.ID = int64(len(r.logs) + 1)
	log.CreatedAt = time.Now()
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeImportLogRepo) List(_ context.Context, limit int) ([]models.ImportLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]models.ImportLog(nil), r.logs...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeImportLogRepo) GetByID(_ context.Context, id int64) (*models.ImportLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.logs {
		if l.ID == id {
			cp := l
			return &cp, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}
