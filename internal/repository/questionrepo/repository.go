package questionrepo

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

// QuestionRepository implementa domain.QuestionRepository.
type QuestionRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

// NewQuestionRepository cria uma nova instância do repositório de perguntas.
func NewQuestionRepository(db *sql.DB, dbTimeout time.Duration) *QuestionRepository {
	return &QuestionRepository{DB: db, DBTimeout: dbTimeout}
}

func scanQuestion(row interface{ Scan(...interface{}) error }) (domain.Question, error) {
	var (
		q                   domain.Question
		companyID, clientID sql.NullString
	)
	err := row.Scan(&q.ID, &companyID, &clientID, &q.Text, &q.CreatedAt)
	if err != nil {
		return domain.Question{}, err
	}
	if companyID.Valid {
		q.Owner = domain.CompanyOwner(companyID.String)
	} else if clientID.Valid {
		q.Owner = domain.ClientOwner(clientID.String)
	}
	return q, nil
}

// Save insere uma nova pergunta.
func (r *QuestionRepository) Save(ctx context.Context, q domain.Question) (domain.Question, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	q.ID = uuid.NewString()
	q.CreatedAt = time.Now().UTC()

	var companyID, clientID sql.NullString
	switch q.Owner.Kind {
	case domain.OwnerCompany:
		companyID = sql.NullString{String: q.Owner.ID, Valid: true}
	case domain.OwnerClient:
		clientID = sql.NullString{String: q.Owner.ID, Valid: true}
	}

	const insertSQL = `INSERT INTO questions (id, company_id, client_id, text, created_at)
	                   VALUES ($1,$2,$3,$4,$5)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL, q.ID, companyID, clientID, q.Text, q.CreatedAt)
	if err != nil {
		return domain.Question{}, apperror.NewDBError("failed to insert question", err)
	}
	return q, nil
}

// FindByID busca uma pergunta pelo ID.
func (r *QuestionRepository) FindByID(ctx context.Context, id string) (domain.Question, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, company_id, client_id, text, created_at FROM questions WHERE id = $1`
	q, err := scanQuestion(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Question{}, apperror.NewNotFoundError(fmt.Sprintf("Pergunta com ID %s não encontrada.", id))
		}
		return domain.Question{}, apperror.NewDBError("failed to find question", err)
	}
	return q, nil
}

// FindByOwner lista as perguntas de um dono.
func (r *QuestionRepository) FindByOwner(ctx context.Context, owner domain.Owner) ([]domain.Question, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var query string
	switch owner.Kind {
	case domain.OwnerCompany:
		query = `SELECT id, company_id, client_id, text, created_at FROM questions WHERE company_id = $1 ORDER BY created_at DESC`
	case domain.OwnerClient:
		query = `SELECT id, company_id, client_id, text, created_at FROM questions WHERE client_id = $1 ORDER BY created_at DESC`
	default:
		return nil, apperror.NewValidationError("Dono de pergunta inválido.")
	}

	rows, err := r.DB.QueryContext(ctxTimeout, query, owner.ID)
	if err != nil {
		return nil, apperror.NewDBError("failed to list questions", err)
	}
	defer rows.Close()

	qs := []domain.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan question row", err)
		}
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate questions", err)
	}
	return qs, nil
}

// Update altera o texto de uma pergunta.
func (r *QuestionRepository) Update(ctx context.Context, q domain.Question) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `UPDATE questions SET text = $2 WHERE id = $1`, q.ID, q.Text)
	if err != nil {
		return apperror.NewDBError("failed to update question", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Pergunta com ID %s não encontrada.", q.ID))
	}
	return nil
}

// Delete remove uma pergunta.
func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete question", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Pergunta com ID %s não encontrada.", id))
	}
	return nil
}

// ReplaceJobQuestions substitui, em uma transação, o conjunto ordenado
// de perguntas associadas a uma vaga. A posição de exibição é o índice
// na lista recebida.
func (r *QuestionRepository) ReplaceJobQuestions(ctx context.Context, jobID string, questionIDs []string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return apperror.NewDBError("failed to start tx", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctxTimeout, `DELETE FROM job_questions WHERE job_id = $1`, jobID); err != nil {
		return apperror.NewDBError("failed to clear job questions", err)
	}

	const insertSQL = `INSERT INTO job_questions (id, job_id, question_id, position) VALUES ($1,$2,$3,$4)`
	for i, qid := range questionIDs {
		if _, err = tx.ExecContext(ctxTimeout, insertSQL, uuid.NewString(), jobID, qid, i); err != nil {
			return apperror.NewDBError("failed to insert job question", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return apperror.NewDBError("failed to commit tx", err)
	}
	return nil
}

// FindByJob lista as perguntas de uma vaga na ordem de exibição.
func (r *QuestionRepository) FindByJob(ctx context.Context, jobID string) ([]domain.Question, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT q.id, q.company_id, q.client_id, q.text, q.created_at
	               FROM questions q
	               JOIN job_questions jq ON jq.question_id = q.id
	               WHERE jq.job_id = $1
	               ORDER BY jq.position`

	rows, err := r.DB.QueryContext(ctxTimeout, query, jobID)
	if err != nil {
		return nil, apperror.NewDBError("failed to list job questions", err)
	}
	defer rows.Close()

	qs := []domain.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan question row", err)
		}
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate job questions", err)
	}
	return qs, nil
}
