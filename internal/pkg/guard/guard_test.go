package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"govagas/internal/domain"
	"govagas/internal/pkg/guard"
)

// TestCanManageOwned_Company testa a posse de recursos de empresa.
func TestCanManageOwned_Company(t *testing.T) {
	owner := domain.CompanyOwner("company-1")

	dona := domain.Principal{ActorID: "company-1", Kind: domain.KindCompany}
	outra := domain.Principal{ActorID: "company-2", Kind: domain.KindCompany}
	operador := domain.Principal{ActorID: "company-1", Kind: domain.KindOperator}
	admin := domain.Principal{ActorID: "admin-1", Kind: domain.KindAdmin}

	assert.True(t, guard.CanManageOwned(dona, owner, ""))
	assert.False(t, guard.CanManageOwned(outra, owner, ""))
	assert.False(t, guard.CanManageOwned(operador, owner, ""))
	// Admin não tem override sobre recursos de empresa registrada.
	assert.False(t, guard.CanManageOwned(admin, owner, ""))
}

// TestCanManageOwned_Client testa a posse via admin dono do cliente.
func TestCanManageOwned_Client(t *testing.T) {
	owner := domain.ClientOwner("client-1")

	adminDono := domain.Principal{ActorID: "admin-1", Kind: domain.KindAdmin}
	adminOutro := domain.Principal{ActorID: "admin-2", Kind: domain.KindAdmin}
	empresa := domain.Principal{ActorID: "client-1", Kind: domain.KindCompany}

	assert.True(t, guard.CanManageOwned(adminDono, owner, "admin-1"))
	assert.False(t, guard.CanManageOwned(adminOutro, owner, "admin-1"))
	assert.False(t, guard.CanManageOwned(empresa, owner, "admin-1"))
	// Sem resolução do admin dono, a decisão é sempre negar.
	assert.False(t, guard.CanManageOwned(adminDono, owner, ""))
}

// TestCanManageOperatorResource testa recursos exclusivos do operador.
func TestCanManageOperatorResource(t *testing.T) {
	dono := domain.Principal{ActorID: "op-1", Kind: domain.KindOperator}
	outro := domain.Principal{ActorID: "op-2", Kind: domain.KindOperator}
	admin := domain.Principal{ActorID: "op-1", Kind: domain.KindAdmin}

	assert.True(t, guard.CanManageOperatorResource(dono, "op-1"))
	assert.False(t, guard.CanManageOperatorResource(outro, "op-1"))
	// Admins não têm override sobre recursos de operador.
	assert.False(t, guard.CanManageOperatorResource(admin, "op-1"))
}

// TestCanManageClient testa a posse de clientes administrados.
func TestCanManageClient(t *testing.T) {
	cliente := domain.Client{ID: "client-1", AdminID: "admin-1"}

	assert.True(t, guard.CanManageClient(domain.Principal{ActorID: "admin-1", Kind: domain.KindAdmin}, cliente))
	assert.False(t, guard.CanManageClient(domain.Principal{ActorID: "admin-2", Kind: domain.KindAdmin}, cliente))
	assert.False(t, guard.CanManageClient(domain.Principal{ActorID: "admin-1", Kind: domain.KindCompany}, cliente))
}
