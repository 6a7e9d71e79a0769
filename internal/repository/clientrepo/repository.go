package clientrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
)

// ClientRepository implementa domain.ClientRepository.
type ClientRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

// NewClientRepository cria uma nova instância do repositório de clientes.
func NewClientRepository(db *sql.DB, dbTimeout time.Duration) *ClientRepository {
	return &ClientRepository{DB: db, DBTimeout: dbTimeout}
}

const clientColumns = `id, admin_id, name, email, phone, city, state, created_at, updated_at`

func scanClient(row interface{ Scan(...interface{}) error }) (domain.Client, error) {
	var c domain.Client
	err := row.Scan(&c.ID, &c.AdminID, &c.Name, &c.Email, &c.Phone, &c.City, &c.State, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Save insere um novo cliente administrado.
func (r *ClientRepository) Save(ctx context.Context, c domain.Client) (domain.Client, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	c.ID = uuid.NewString()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	const insertSQL = `INSERT INTO clients (` + clientColumns + `)
	                   VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		c.ID, c.AdminID, c.Name, c.Email, c.Phone, c.City, c.State, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return domain.Client{}, apperror.NewDBError("failed to insert client", err)
	}
	return c, nil
}

// FindByID busca um cliente pelo ID.
func (r *ClientRepository) FindByID(ctx context.Context, id string) (domain.Client, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	c, err := scanClient(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Client{}, apperror.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado.", id))
		}
		return domain.Client{}, apperror.NewDBError("failed to find client by id", err)
	}
	return c, nil
}

// FindByAdmin lista os clientes de um admin.
func (r *ClientRepository) FindByAdmin(ctx context.Context, adminID string) ([]domain.Client, error) {
	return r.list(ctx, `SELECT `+clientColumns+` FROM clients WHERE admin_id = $1 ORDER BY created_at DESC`, adminID)
}

// FindAll lista todos os clientes (projeção unificada).
func (r *ClientRepository) FindAll(ctx context.Context) ([]domain.Client, error) {
	return r.list(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at DESC`)
}

func (r *ClientRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Client, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("failed to list clients", err)
	}
	defer rows.Close()

	cs := []domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan client row", err)
		}
		cs = append(cs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate clients", err)
	}
	return cs, nil
}

// Update persiste os campos editáveis do cliente.
func (r *ClientRepository) Update(ctx context.Context, c domain.Client) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const updateSQL = `UPDATE clients
	                   SET name = $2, email = $3, phone = $4, city = $5, state = $6, updated_at = $7
	                   WHERE id = $1`

	res, err := r.DB.ExecContext(ctxTimeout, updateSQL,
		c.ID, c.Name, c.Email, c.Phone, c.City, c.State, time.Now().UTC(),
	)
	if err != nil {
		return apperror.NewDBError("failed to update client", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado.", c.ID))
	}
	return nil
}

// Delete remove um cliente (única entidade de ator com exclusão
// definitiva nos fluxos da aplicação).
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete client", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado.", id))
	}
	return nil
}
