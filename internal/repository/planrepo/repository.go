package planrepo

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
)

// PlanRepository implementa domain.PlanRepository (planos e compras).
type PlanRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

// NewPlanRepository cria uma nova instância do repositório de planos.
func NewPlanRepository(db *sql.DB, dbTimeout time.Duration) *PlanRepository {
	return &PlanRepository{DB: db, DBTimeout: dbTimeout}
}

const planColumns = `id, name, description, price_cents, credits, is_active, created_at, updated_at`

func scanPlan(row interface{ Scan(...interface{}) error }) (domain.Plan, error) {
	var p domain.Plan
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Credits, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// SavePlan insere um novo plano.
func (r *PlanRepository) SavePlan(ctx context.Context, p domain.Plan) (domain.Plan, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	p.ID = uuid.NewString()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	const insertSQL = `INSERT INTO plans (` + planColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		p.ID, p.Name, p.Description, p.PriceCents, p.Credits, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return domain.Plan{}, apperror.NewDBError("failed to insert plan", err)
	}
	return p, nil
}

// FindPlanByID busca um plano pelo ID.
func (r *PlanRepository) FindPlanByID(ctx context.Context, id string) (domain.Plan, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT ` + planColumns + ` FROM plans WHERE id = $1`
	p, err := scanPlan(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Plan{}, apperror.NewNotFoundError(fmt.Sprintf("Plano com ID %s não encontrado.", id))
		}
		return domain.Plan{}, apperror.NewDBError("failed to find plan", err)
	}
	return p, nil
}

// FindAllPlans lista todos os planos.
func (r *PlanRepository) FindAllPlans(ctx context.Context) ([]domain.Plan, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+planColumns+` FROM plans ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperror.NewDBError("failed to list plans", err)
	}
	defer rows.Close()

	ps := []domain.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan plan row", err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate plans", err)
	}
	return ps, nil
}

// UpdatePlan persiste os campos editáveis do plano.
func (r *PlanRepository) UpdatePlan(ctx context.Context, p domain.Plan) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const updateSQL = `UPDATE plans
	                   SET name = $2, description = $3, price_cents = $4, credits = $5, is_active = $6, updated_at = $7
	                   WHERE id = $1`

	res, err := r.DB.ExecContext(ctxTimeout, updateSQL,
		p.ID, p.Name, p.Description, p.PriceCents, p.Credits, p.IsActive, time.Now().UTC(),
	)
	if err != nil {
		return apperror.NewDBError("failed to update plan", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Plano com ID %s não encontrado.", p.ID))
	}
	return nil
}

// DeletePlan exclui um plano. O serviço faz o pré-check de compras para
// a mensagem amigável; a FK ON DELETE RESTRICT fecha a janela de corrida
// e é traduzida aqui para o mesmo conflito.
func (r *PlanRepository) DeletePlan(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperror.NewConflictError("O plano possui compras associadas e não pode ser excluído. Considere desativá-lo.")
		}
		return apperror.NewDBError("failed to delete plan", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Plano com ID %s não encontrado.", id))
	}
	return nil
}

// CountPurchasesByPlan conta as compras que referenciam um plano.
func (r *PlanRepository) CountPurchasesByPlan(ctx context.Context, planID string) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var count int
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT COUNT(*) FROM purchases WHERE plan_id = $1`, planID,
	).Scan(&count)
	if err != nil {
		return 0, apperror.NewDBError("failed to count purchases", err)
	}
	return count, nil
}

// SavePurchase insere uma compra (append-only para a aplicação).
func (r *PlanRepository) SavePurchase(ctx context.Context, p domain.Purchase) (domain.Purchase, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()

	const insertSQL = `INSERT INTO purchases (id, client_id, plan_id, credits, used_credits, status, created_at)
	                   VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		p.ID, p.ClientID, p.PlanID, p.Credits, p.UsedCredits, p.Status, p.CreatedAt,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return domain.Purchase{}, apperror.NewNotFoundError("Cliente ou plano referenciado não existe.")
		}
		return domain.Purchase{}, apperror.NewDBError("failed to insert purchase", err)
	}
	return p, nil
}

// FindPurchaseByID busca uma compra pelo ID (para o guard de dono).
func (r *PlanRepository) FindPurchaseByID(ctx context.Context, id string) (domain.Purchase, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, client_id, plan_id, credits, used_credits, status, created_at
	               FROM purchases WHERE id = $1`

	var p domain.Purchase
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&p.ID, &p.ClientID, &p.PlanID, &p.Credits, &p.UsedCredits, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Purchase{}, apperror.NewNotFoundError(fmt.Sprintf("Compra com ID %s não encontrada.", id))
		}
		return domain.Purchase{}, apperror.NewDBError("failed to find purchase", err)
	}
	return p, nil
}

// FindPurchasesByClient lista as compras de um cliente.
func (r *PlanRepository) FindPurchasesByClient(ctx context.Context, clientID string) ([]domain.Purchase, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, client_id, plan_id, credits, used_credits, status, created_at
	               FROM purchases WHERE client_id = $1 ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query, clientID)
	if err != nil {
		return nil, apperror.NewDBError("failed to list purchases", err)
	}
	defer rows.Close()

	ps := []domain.Purchase{}
	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(&p.ID, &p.ClientID, &p.PlanID, &p.Credits, &p.UsedCredits, &p.Status, &p.CreatedAt); err != nil {
			return nil, apperror.NewDBError("failed to scan purchase row", err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate purchases", err)
	}
	return ps, nil
}

// DeletePurchase remove uma compra.
func (r *PlanRepository) DeletePurchase(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete purchase", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Compra com ID %s não encontrada.", id))
	}
	return nil
}
