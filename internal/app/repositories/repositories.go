package repositories

import (
	"github.com/hemope/doador-api/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	DonorRepository     *DonorRepository
	UserRepository      *UserRepository
	ImportLogRepository *ImportLogRepository
}

// NewRepositories initializes all repositories on conn, which may be the
// pool or an open transaction.
func NewRepositories(conn db.DBTX) *Repositories {
	return &Repositories{
		DonorRepository:     NewDonorRepository(conn),
		UserRepository:      NewUserRepository(conn),
		ImportLogRepository: NewImportLogRepository(conn),
	}
}
