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

// OperatorRepository implementa domain.OperatorRepository sobre PostgreSQL.
type OperatorRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewOperatorRepository cria uma nova instância do repositório de operadores.
func NewOperatorRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *OperatorRepository {
	return &OperatorRepository{DB: db, DBTimeout: dbTimeout, logger: log}
}

const operatorColumns = `id, name, email, password_hash, cpf, phone, city, state, bio, resume_path, created_at, updated_at`

func scanOperator(row interface{ Scan(...interface{}) error }) (domain.Operator, error) {
	var op domain.Operator
	err := row.Scan(
		&op.ID, &op.Name, &op.Email, &op.PasswordHash, &op.CPF,
		&op.Phone, &op.City, &op.State, &op.Bio, &op.ResumePath,
		&op.CreatedAt, &op.UpdatedAt,
	)
	return op, err
}

// Save insere um novo operador. Violações dos índices únicos de e-mail e
// CPF são traduzidas para conflitos específicos de campo: o pré-check do
// serviço dá a mensagem amigável, mas a constraint é a fonte da verdade.
func (r *OperatorRepository) Save(ctx context.Context, op domain.Operator) (domain.Operator, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	op.ID = uuid.NewString()
	now := time.Now().UTC()
	op.CreatedAt = now
	op.UpdatedAt = now

	const insertSQL = `INSERT INTO operators (` + operatorColumns + `)
	                   VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		op.ID, op.Name, op.Email, op.PasswordHash, op.CPF,
		op.Phone, op.City, op.State, op.Bio, op.ResumePath,
		op.CreatedAt, op.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "email") {
			return domain.Operator{}, apperror.NewConflictError(fmt.Sprintf("O e-mail '%s' já está cadastrado.", op.Email))
		}
		if database.IsUniqueViolation(err, "cpf") {
			return domain.Operator{}, apperror.NewConflictError(fmt.Sprintf("O CPF '%s' já está cadastrado.", op.CPF))
		}
		r.logger.Error("Falha ao inserir operador no DB.", err)
		return domain.Operator{}, apperror.NewDBError("failed to insert operator", err)
	}

	return op, nil
}

// FindByID busca um operador pelo ID.
func (r *OperatorRepository) FindByID(ctx context.Context, id string) (domain.Operator, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT ` + operatorColumns + ` FROM operators WHERE id = $1`
	op, err := scanOperator(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Operator{}, apperror.NewNotFoundError(fmt.Sprintf("Operador com ID %s não encontrado.", id))
		}
		return domain.Operator{}, apperror.NewDBError("failed to find operator by id", err)
	}
	return op, nil
}

// FindByEmail busca um operador pelo e-mail.
func (r *OperatorRepository) FindByEmail(ctx context.Context, email string) (domain.Operator, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT ` + operatorColumns + ` FROM operators WHERE email = $1`
	op, err := scanOperator(r.DB.QueryRowContext(ctxTimeout, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Operator{}, apperror.NewNotFoundError(fmt.Sprintf("Operador com e-mail '%s' não encontrado.", email))
		}
		return domain.Operator{}, apperror.NewDBError("failed to find operator by email", err)
	}
	return op, nil
}

// FindByCPF busca um operador pelo CPF.
func (r *OperatorRepository) FindByCPF(ctx context.Context, cpf string) (domain.Operator, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT ` + operatorColumns + ` FROM operators WHERE cpf = $1`
	op, err := scanOperator(r.DB.QueryRowContext(ctxTimeout, query, cpf))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Operator{}, apperror.NewNotFoundError("Operador não encontrado pelo CPF informado.")
		}
		return domain.Operator{}, apperror.NewDBError("failed to find operator by cpf", err)
	}
	return op, nil
}

// FindAll lista todos os operadores (rota exclusiva de admin).
func (r *OperatorRepository) FindAll(ctx context.Context) ([]domain.Operator, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT ` + operatorColumns + ` FROM operators ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		return nil, apperror.NewDBError("failed to list operators", err)
	}
	defer rows.Close()

	ops := []domain.Operator{}
	for rows.Next() {
		op, err := scanOperator(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan operator row", err)
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate operators", err)
	}
	return ops, nil
}

// Update persiste os campos mutáveis do perfil. E-mail, CPF e senha não
// aparecem no UPDATE: a remoção de tentativas de alteração acontece no
// serviço e o SQL não dá caminho para elas.
func (r *OperatorRepository) Update(ctx context.Context, op domain.Operator) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const updateSQL = `UPDATE operators
	                   SET name = $2, phone = $3, city = $4, state = $5, bio = $6, resume_path = $7, updated_at = $8
	                   WHERE id = $1`

	res, err := r.DB.ExecContext(ctxTimeout, updateSQL,
		op.ID, op.Name, op.Phone, op.City, op.State, op.Bio, op.ResumePath, time.Now().UTC(),
	)
	if err != nil {
		return apperror.NewDBError("failed to update operator", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Operador com ID %s não encontrado.", op.ID))
	}
	return nil
}

// SaveExperience insere um item de experiência do operador.
func (r *OperatorRepository) SaveExperience(ctx context.Context, exp domain.Experience) (domain.Experience, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	exp.ID = uuid.NewString()

	const insertSQL = `INSERT INTO experiences (id, operator_id, company_name, role, description, started_at, ended_at)
	                   VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		exp.ID, exp.OperatorID, exp.CompanyName, exp.Role, exp.Description, exp.StartedAt, exp.EndedAt,
	)
	if err != nil {
		return domain.Experience{}, apperror.NewDBError("failed to insert experience", err)
	}
	return exp, nil
}

// FindExperiences lista as experiências de um operador.
func (r *OperatorRepository) FindExperiences(ctx context.Context, operatorID string) ([]domain.Experience, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, operator_id, company_name, role, description, started_at, ended_at
	               FROM experiences WHERE operator_id = $1 ORDER BY started_at DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query, operatorID)
	if err != nil {
		return nil, apperror.NewDBError("failed to list experiences", err)
	}
	defer rows.Close()

	exps := []domain.Experience{}
	for rows.Next() {
		var exp domain.Experience
		if err := rows.Scan(&exp.ID, &exp.OperatorID, &exp.CompanyName, &exp.Role, &exp.Description, &exp.StartedAt, &exp.EndedAt); err != nil {
			return nil, apperror.NewDBError("failed to scan experience row", err)
		}
		exps = append(exps, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate experiences", err)
	}
	return exps, nil
}

// FindExperienceByID busca uma experiência pelo ID (para o guard de dono).
func (r *OperatorRepository) FindExperienceByID(ctx context.Context, id string) (domain.Experience, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, operator_id, company_name, role, description, started_at, ended_at
	               FROM experiences WHERE id = $1`

	var exp domain.Experience
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&exp.ID, &exp.OperatorID, &exp.CompanyName, &exp.Role, &exp.Description, &exp.StartedAt, &exp.EndedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Experience{}, apperror.NewNotFoundError(fmt.Sprintf("Experiência com ID %s não encontrada.", id))
		}
		return domain.Experience{}, apperror.NewDBError("failed to find experience", err)
	}
	return exp, nil
}

// DeleteExperience remove uma experiência.
func (r *OperatorRepository) DeleteExperience(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM experiences WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete experience", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Experiência com ID %s não encontrada.", id))
	}
	return nil
}
