package applicationrepo

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

// ApplicationRepository implementa domain.ApplicationRepository.
type ApplicationRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewApplicationRepository cria uma nova instância do repositório de candidaturas.
func NewApplicationRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *ApplicationRepository {
	return &ApplicationRepository{DB: db, DBTimeout: dbTimeout, logger: log}
}

const applicationColumns = `id, job_id, operator_id, status, created_at, updated_at`

func scanApplication(row interface{ Scan(...interface{}) error }) (domain.Application, error) {
	var app domain.Application
	err := row.Scan(&app.ID, &app.JobID, &app.OperatorID, &app.Status, &app.CreatedAt, &app.UpdatedAt)
	return app, err
}

// SaveWithAnswers insere a candidatura e suas respostas em uma única
// transação: uma falha no meio das respostas desfaz tudo, sem deixar
// candidatura órfã travando a retentativa. O índice único
// (job_id, operator_id) é a fonte da verdade da deduplicação: o
// pré-check do serviço produz a mensagem amigável, a constraint fecha
// a janela de corrida.
func (r *ApplicationRepository) SaveWithAnswers(ctx context.Context, app domain.Application, answers []domain.ApplicationAnswer) (domain.Application, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	app.ID = uuid.NewString()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Application{}, apperror.NewDBError("failed to begin transaction", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const insertApp = `INSERT INTO applications (` + applicationColumns + `)
	                   VALUES ($1,$2,$3,$4,$5,$6)`

	if _, err = tx.ExecContext(ctxTimeout, insertApp,
		app.ID, app.JobID, app.OperatorID, app.Status, app.CreatedAt, app.UpdatedAt,
	); err != nil {
		if database.IsUniqueViolation(err, "job_operator") {
			return domain.Application{}, apperror.NewConflictError("Você já se candidatou a esta vaga.")
		}
		r.logger.Error("Falha ao inserir candidatura no DB.", err)
		return domain.Application{}, apperror.NewDBError("failed to insert application", err)
	}

	const insertAnswer = `INSERT INTO application_answers (id, application_id, question_id, answer, created_at)
	                      VALUES ($1,$2,$3,$4,$5)`

	for _, ans := range answers {
		if _, err = tx.ExecContext(ctxTimeout, insertAnswer,
			uuid.NewString(), app.ID, ans.QuestionID, ans.Answer, now,
		); err != nil {
			if database.IsUniqueViolation(err, "application_question") {
				return domain.Application{}, apperror.NewConflictError("Esta pergunta já foi respondida nesta candidatura.")
			}
			return domain.Application{}, apperror.NewDBError("failed to insert application answer", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Application{}, apperror.NewDBError("failed to commit transaction", err)
	}
	return app, nil
}

// FindByID busca uma candidatura pelo ID.
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (domain.Application, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	app, err := scanApplication(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Application{}, apperror.NewNotFoundError(fmt.Sprintf("Candidatura com ID %s não encontrada.", id))
		}
		return domain.Application{}, apperror.NewDBError("failed to find application", err)
	}
	return app, nil
}

// FindByJobAndOperator busca a candidatura de um operador a uma vaga
// (pré-check de deduplicação).
func (r *ApplicationRepository) FindByJobAndOperator(ctx context.Context, jobID, operatorID string) (domain.Application, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = $1 AND operator_id = $2`
	app, err := scanApplication(r.DB.QueryRowContext(ctxTimeout, query, jobID, operatorID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Application{}, apperror.NewNotFoundError("Candidatura não encontrada para este par vaga/operador.")
		}
		return domain.Application{}, apperror.NewDBError("failed to find application by job/operator", err)
	}
	return app, nil
}

// FindByJob lista as candidaturas de uma vaga (visão do dono).
func (r *ApplicationRepository) FindByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 ORDER BY created_at DESC`, jobID)
}

// FindByOperator lista as candidaturas de um operador.
func (r *ApplicationRepository) FindByOperator(ctx context.Context, operatorID string) ([]domain.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE operator_id = $1 ORDER BY created_at DESC`, operatorID)
}

func (r *ApplicationRepository) list(ctx context.Context, query string, arg interface{}) ([]domain.Application, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, arg)
	if err != nil {
		return nil, apperror.NewDBError("failed to list applications", err)
	}
	defer rows.Close()

	apps := []domain.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan application row", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate applications", err)
	}
	return apps, nil
}

// UpdateStatus transiciona o status da candidatura.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC(),
	)
	if err != nil {
		return apperror.NewDBError("failed to update application status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Candidatura com ID %s não encontrada.", id))
	}
	return nil
}

// FindAnswers lista as respostas de uma candidatura.
func (r *ApplicationRepository) FindAnswers(ctx context.Context, applicationID string) ([]domain.ApplicationAnswer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, application_id, question_id, answer, created_at
	               FROM application_answers WHERE application_id = $1 ORDER BY created_at`

	rows, err := r.DB.QueryContext(ctxTimeout, query, applicationID)
	if err != nil {
		return nil, apperror.NewDBError("failed to list answers", err)
	}
	defer rows.Close()

	answers := []domain.ApplicationAnswer{}
	for rows.Next() {
		var ans domain.ApplicationAnswer
		if err := rows.Scan(&ans.ID, &ans.ApplicationID, &ans.QuestionID, &ans.Answer, &ans.CreatedAt); err != nil {
			return nil, apperror.NewDBError("failed to scan answer row", err)
		}
		answers = append(answers, ans)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate answers", err)
	}
	return answers, nil
}
