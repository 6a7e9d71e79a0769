package accountrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
)

// CredentialRepository implementa domain.PasswordUpdater despachando
// sobre o tipo do ator. Usado apenas pelo fluxo de redefinição de senha;
// a atualização geral de perfil nunca toca em password_hash.
type CredentialRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

// NewCredentialRepository cria o repositório de credenciais.
func NewCredentialRepository(db *sql.DB, dbTimeout time.Duration) *CredentialRepository {
	return &CredentialRepository{DB: db, DBTimeout: dbTimeout}
}

// UpdatePasswordHash grava o novo hash na tabela do tipo de ator.
func (r *CredentialRepository) UpdatePasswordHash(ctx context.Context, kind domain.ActorKind, actorID string, hash string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var table string
	switch kind {
	case domain.KindOperator:
		table = "operators"
	case domain.KindCompany:
		table = "companies"
	case domain.KindAdmin:
		table = "admins"
	default:
		return apperror.NewValidationError(fmt.Sprintf("Tipo de ator desconhecido: %s.", kind))
	}

	// Tabela vem de uma lista fechada acima; os valores são parâmetros.
	query := fmt.Sprintf(`UPDATE %s SET password_hash = $2, updated_at = $3 WHERE id = $1`, table)

	res, err := r.DB.ExecContext(ctxTimeout, query, actorID, hash, time.Now().UTC())
	if err != nil {
		return apperror.NewDBError("failed to update password hash", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError("Ator não encontrado para atualização de senha.")
	}
	return nil
}
