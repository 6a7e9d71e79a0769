package accountrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
)

// AdminRepository implementa domain.AdminRepository sobre PostgreSQL.
// Admins são provisionados por migração/seed; não há rota de registro.
type AdminRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

// NewAdminRepository cria uma nova instância do repositório de admins.
func NewAdminRepository(db *sql.DB, dbTimeout time.Duration) *AdminRepository {
	return &AdminRepository{DB: db, DBTimeout: dbTimeout}
}

const adminColumns = `id, name, email, password_hash, created_at, updated_at`

// FindByID busca um admin pelo ID.
func (r *AdminRepository) FindByID(ctx context.Context, id string) (domain.Admin, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`

	var a domain.Admin
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Admin{}, apperror.NewNotFoundError(fmt.Sprintf("Admin com ID %s não encontrado.", id))
		}
		return domain.Admin{}, apperror.NewDBError("failed to find admin by id", err)
	}
	return a, nil
}

// FindByEmail busca um admin pelo e-mail.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (domain.Admin, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT ` + adminColumns + ` FROM admins WHERE email = $1`

	var a domain.Admin
	err := r.DB.QueryRowContext(ctxTimeout, query, email).Scan(
		&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Admin{}, apperror.NewNotFoundError(fmt.Sprintf("Admin com e-mail '%s' não encontrado.", email))
		}
		return domain.Admin{}, apperror.NewDBError("failed to find admin by email", err)
	}
	return a, nil
}
