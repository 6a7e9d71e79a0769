package accountrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/database"
	"govagas/internal/pkg/logger"
)

// CompanyRepository implementa domain.CompanyRepository sobre PostgreSQL.
type CompanyRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewCompanyRepository cria uma nova instância do repositório de empresas.
func NewCompanyRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *CompanyRepository {
	return &CompanyRepository{DB: db, DBTimeout: dbTimeout, logger: log}
}

const companyColumns = `id, name, email, password_hash, cnpj, phone, city, state, description, logo_path, created_at, updated_at`

func scanCompany(row interface{ Scan(...interface{}) error }) (domain.Company, error) {
	var c domain.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.CNPJ,
		&c.Phone, &c.City, &c.State, &c.Description, &c.LogoPath,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// Save insere uma nova empresa, traduzindo os índices únicos de e-mail e
// CNPJ para conflitos específicos de campo.
func (r *CompanyRepository) Save(ctx context.Context, c domain.Company) (domain.Company, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	c.ID = uuid.NewString()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	const insertSQL = `INSERT INTO companies (` + companyColumns + `)
	                   VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		c.ID, c.Name, c.Email, c.PasswordHash, c.CNPJ,
		c.Phone, c.City, c.State, c.Description, c.LogoPath,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "email") {
			return domain.Company{}, apperror.NewConflictError(fmt.Sprintf("O e-mail '%s' já está cadastrado.", c.Email))
		}
		if database.IsUniqueViolation(err, "cnpj") {
			return domain.Company{}, apperror.NewConflictError(fmt.Sprintf("O CNPJ '%s' já está cadastrado.", c.CNPJ))
		}
		r.logger.Error("Falha ao inserir empresa no DB.", err)
		return domain.Company{}, apperror.NewDBError("failed to insert company", err)
	}

	return c, nil
}

// FindByID busca uma empresa pelo ID.
func (r *CompanyRepository) FindByID(ctx context.Context, id string) (domain.Company, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	c, err := scanCompany(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Company{}, apperror.NewNotFoundError(fmt.Sprintf("Empresa com ID %s não encontrada.", id))
		}
		return domain.Company{}, apperror.NewDBError("failed to find company by id", err)
	}
	return c, nil
}

// FindByEmail busca uma empresa pelo e-mail.
func (r *CompanyRepository) FindByEmail(ctx context.Context, email string) (domain.Company, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT ` + companyColumns + ` FROM companies WHERE email = $1`
	c, err := scanCompany(r.DB.QueryRowContext(ctxTimeout, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Company{}, apperror.NewNotFoundError(fmt.Sprintf("Empresa com e-mail '%s' não encontrada.", email))
		}
		return domain.Company{}, apperror.NewDBError("failed to find company by email", err)
	}
	return c, nil
}

// FindByCNPJ busca uma empresa pelo CNPJ.
func (r *CompanyRepository) FindByCNPJ(ctx context.Context, cnpj string) (domain.Company, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT ` + companyColumns + ` FROM companies WHERE cnpj = $1`
	c, err := scanCompany(r.DB.QueryRowContext(ctxTimeout, query, cnpj))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Company{}, apperror.NewNotFoundError("Empresa não encontrada pelo CNPJ informado.")
		}
		return domain.Company{}, apperror.NewDBError("failed to find company by cnpj", err)
	}
	return c, nil
}

// FindAll lista todas as empresas (usada na projeção unificada de clientes).
func (r *CompanyRepository) FindAll(ctx context.Context) ([]domain.Company, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		return nil, apperror.NewDBError("failed to list companies", err)
	}
	defer rows.Close()

	cs := []domain.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan company row", err)
		}
		cs = append(cs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate companies", err)
	}
	return cs, nil
}

// Update persiste os campos mutáveis do perfil da empresa (sem e-mail,
// CNPJ ou senha; ver OperatorRepository.Update).
func (r *CompanyRepository) Update(ctx context.Context, c domain.Company) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const updateSQL = `UPDATE companies
	                   SET name = $2, phone = $3, city = $4, state = $5, description = $6, logo_path = $7, updated_at = $8
	                   WHERE id = $1`

	res, err := r.DB.ExecContext(ctxTimeout, updateSQL,
		c.ID, c.Name, c.Phone, c.City, c.State, c.Description, c.LogoPath, time.Now().UTC(),
	)
	if err != nil {
		return apperror.NewDBError("failed to update company", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Empresa com ID %s não encontrada.", c.ID))
	}
	return nil
}
