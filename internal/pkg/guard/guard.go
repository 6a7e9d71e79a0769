package guard

import (
	"govagas/internal/domain"
)

// Funções puras de decisão de autorização sobre recursos com dono.
// As rotas exclusivas de admin (setores, eventos, banners, planos,
// configurações, listagem de atores) não passam por aqui: qualquer
// admin é permitido via middleware.RequireKind.

// CanManageOwned decide se o principal pode mutar um recurso cujo dono é
// a união Owner. Para recursos de cliente, o chamador resolve o admin
// dono do cliente vinculado e o informa em clientAdminID.
func CanManageOwned(p domain.Principal, owner domain.Owner, clientAdminID string) bool {
	switch p.Kind {
	case domain.KindCompany:
		return owner.Kind == domain.OwnerCompany && owner.ID == p.ActorID
	case domain.KindAdmin:
		return owner.Kind == domain.OwnerClient && clientAdminID != "" && clientAdminID == p.ActorID
	default:
		return false
	}
}

// CanManageOperatorResource decide se o principal pode mutar um recurso
// pertencente a um operador (perfil, experiências). Admins não têm
// override sobre recursos de operador.
func CanManageOperatorResource(p domain.Principal, operatorID string) bool {
	return p.Kind == domain.KindOperator && p.ActorID == operatorID
}

// CanManageClient decide se o principal (admin) pode mutar um cliente.
func CanManageClient(p domain.Principal, c domain.Client) bool {
	return p.Kind == domain.KindAdmin && c.AdminID == p.ActorID
}
