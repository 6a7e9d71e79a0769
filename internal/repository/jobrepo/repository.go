package jobrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/cache"
	"govagas/internal/pkg/logger"
)

// JobRepository implementa domain.JobRepository sobre PostgreSQL, com
// cache-aside no Redis para a leitura por ID (a vaga pública é a
// leitura mais quente do sistema).
type JobRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewJobRepository cria uma nova instância do repositório de vagas.
func NewJobRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, log logger.Logger) *JobRepository {
	return &JobRepository{DB: db, Cache: cacheClient, DBTimeout: dbTimeout, logger: log}
}

const jobCacheKey = "job:%s"
const jobCacheTTL = 5 * time.Minute

const jobColumns = `id, company_id, client_id, title, description, sector_id, city, state, salary, job_type, status, created_at, updated_at`

// ownerToColumns converte a união Owner nas duas FKs anuláveis do schema.
// O CHECK da tabela garante exclusividade também no nível do banco.
func ownerToColumns(o domain.Owner) (companyID, clientID sql.NullString) {
	switch o.Kind {
	case domain.OwnerCompany:
		companyID = sql.NullString{String: o.ID, Valid: true}
	case domain.OwnerClient:
		clientID = sql.NullString{String: o.ID, Valid: true}
	}
	return
}

// columnsToOwner reconstrói a união Owner a partir das FKs anuláveis.
func columnsToOwner(companyID, clientID sql.NullString) domain.Owner {
	if companyID.Valid {
		return domain.CompanyOwner(companyID.String)
	}
	if clientID.Valid {
		return domain.ClientOwner(clientID.String)
	}
	return domain.Owner{}
}

func scanJob(row interface{ Scan(...interface{}) error }) (domain.Job, error) {
	var (
		job                domain.Job
		companyID, clientID sql.NullString
		sectorID            sql.NullString
	)
	err := row.Scan(
		&job.ID, &companyID, &clientID, &job.Title, &job.Description,
		&sectorID, &job.City, &job.State, &job.Salary, &job.JobType,
		&job.Status, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return domain.Job{}, err
	}
	job.Owner = columnsToOwner(companyID, clientID)
	job.SectorID = sectorID.String
	return job, nil
}

// Save insere uma nova vaga.
func (r *JobRepository) Save(ctx context.Context, job domain.Job) (domain.Job, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	job.ID = uuid.NewString()
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	companyID, clientID := ownerToColumns(job.Owner)
	sectorID := sql.NullString{String: job.SectorID, Valid: job.SectorID != ""}

	const insertSQL = `INSERT INTO jobs (` + jobColumns + `)
	                   VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		job.ID, companyID, clientID, job.Title, job.Description,
		sectorID, job.City, job.State, job.Salary, job.JobType,
		job.Status, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir vaga no DB.", err)
		return domain.Job{}, apperror.NewDBError("failed to insert job", err)
	}

	return job, nil
}

// FindByID busca uma vaga pelo ID com estratégia cache-aside.
func (r *JobRepository) FindByID(ctx context.Context, id string) (domain.Job, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(jobCacheKey, id)
	var job domain.Job

	// 1. Tentar o cache.
	cached, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		if json.Unmarshal([]byte(cached), &job) == nil {
			return job, nil
		}
		// Desserialização falhou: segue para o DB.
	}

	// 2. Banco de dados.
	const query = `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	job, err = scanJob(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Job{}, apperror.NewNotFoundError(fmt.Sprintf("Vaga com ID %s não encontrada.", id))
		}
		return domain.Job{}, apperror.NewDBError("failed to find job by id", err)
	}

	// 3. Popular o cache (falha de cache não derruba a leitura).
	if payload, marshalErr := json.Marshal(job); marshalErr == nil {
		_ = r.Cache.Set(ctxTimeout, key, payload, jobCacheTTL)
	}

	return job, nil
}

// FindAll lista vagas com filtros e paginação (listagem pública).
func (r *JobRepository) FindAll(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if filter.ActiveOnly {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, domain.JobActive)
		idx++
	}
	if filter.SectorID != "" {
		query += fmt.Sprintf(" AND sector_id = $%d", idx)
		args = append(args, filter.SectorID)
		idx++
	}
	if filter.City != "" {
		query += fmt.Sprintf(" AND city ILIKE $%d", idx)
		args = append(args, filter.City)
		idx++
	}
	if filter.State != "" {
		query += fmt.Sprintf(" AND state = $%d", idx)
		args = append(args, filter.State)
		idx++
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("failed to list jobs", err)
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan job row", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate jobs", err)
	}
	return jobs, nil
}

// FindByOwner lista as vagas de um dono específico.
func (r *JobRepository) FindByOwner(ctx context.Context, owner domain.Owner) ([]domain.Job, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var query string
	switch owner.Kind {
	case domain.OwnerCompany:
		query = `SELECT ` + jobColumns + ` FROM jobs WHERE company_id = $1 ORDER BY created_at DESC`
	case domain.OwnerClient:
		query = `SELECT ` + jobColumns + ` FROM jobs WHERE client_id = $1 ORDER BY created_at DESC`
	default:
		return nil, apperror.NewValidationError("Dono de vaga inválido.")
	}

	rows, err := r.DB.QueryContext(ctxTimeout, query, owner.ID)
	if err != nil {
		return nil, apperror.NewDBError("failed to list jobs by owner", err)
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan job row", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate jobs", err)
	}
	return jobs, nil
}

// Update persiste os campos editáveis da vaga (dono e status intocados).
func (r *JobRepository) Update(ctx context.Context, job domain.Job) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	sectorID := sql.NullString{String: job.SectorID, Valid: job.SectorID != ""}

	const updateSQL = `UPDATE jobs
	                   SET title = $2, description = $3, sector_id = $4, city = $5, state = $6,
	                       salary = $7, job_type = $8, updated_at = $9
	                   WHERE id = $1`

	res, err := r.DB.ExecContext(ctxTimeout, updateSQL,
		job.ID, job.Title, job.Description, sectorID, job.City, job.State,
		job.Salary, job.JobType, time.Now().UTC(),
	)
	if err != nil {
		return apperror.NewDBError("failed to update job", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Vaga com ID %s não encontrada.", job.ID))
	}

	r.invalidate(ctxTimeout, job.ID)
	return nil
}

// UpdateStatus alterna o status da vaga (active ↔ suspended).
func (r *JobRepository) UpdateStatus(ctx context.Context, id string, status domain.JobStatus) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE jobs SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC(),
	)
	if err != nil {
		return apperror.NewDBError("failed to update job status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Vaga com ID %s não encontrada.", id))
	}

	r.invalidate(ctxTimeout, id)
	return nil
}

// Delete remove uma vaga.
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete job", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Vaga com ID %s não encontrada.", id))
	}

	r.invalidate(ctxTimeout, id)
	return nil
}

// invalidate remove a vaga do cache após mutação.
func (r *JobRepository) invalidate(ctx context.Context, id string) {
	if err := r.Cache.Delete(ctx, fmt.Sprintf(jobCacheKey, id)); err != nil && err != cache.ErrCacheMiss {
		r.logger.Warn("Falha ao invalidar cache de vaga.", map[string]interface{}{"job_id": id, "error": err.Error()})
	}
}
