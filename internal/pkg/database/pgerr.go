package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// Códigos de erro do PostgreSQL relevantes para as invariantes de
// unicidade e integridade referencial impostas no schema.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// IsUniqueViolation indica violação de índice único. Quando constraint é
// informado, exige que o nome da constraint violada o contenha — é assim
// que os repositórios distinguem "e-mail já cadastrado" de "CPF já
// cadastrado" vindos da mesma tabela.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if string(pqErr.Code) != codeUniqueViolation {
		return false
	}
	if constraint == "" {
		return true
	}
	return strings.Contains(pqErr.Constraint, constraint)
}

// IsForeignKeyViolation indica violação de chave estrangeira (inclusive
// ON DELETE RESTRICT, usado no guard de exclusão de planos).
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == codeForeignKeyViolation
}
