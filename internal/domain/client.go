package domain

import (
	"context"
	"time"
)

// Client é a entrada curada por um administrador representando uma
// empresa que não se auto-registrou. Única entidade de ator com
// exclusão definitiva nos fluxos observados.
type Client struct {
	ID        string    `json:"id"`
	AdminID   string    `json:"admin_id"` // admin dono desta entrada
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientSource etiqueta a origem de uma entrada na listagem unificada.
type ClientSource string

const (
	SourceAdminClient       ClientSource = "admin_client"
	SourceRegisteredCompany ClientSource = "registered_company"
)

// ClientView é a projeção de leitura que unifica clientes administrados
// e empresas registradas em uma única lista etiquetada. A etiqueta
// Source é obrigatória: a escrita despacha de volta para a tabela certa.
type ClientView struct {
	ID     string       `json:"id"`
	Source ClientSource `json:"source"`
	Name   string       `json:"name"`
	Email  string       `json:"email"`
	Phone  string       `json:"phone"`
	City   string       `json:"city"`
	State  string       `json:"state"`
	Color  string       `json:"color"` // esquema fixo de cores da listagem
}

// ClientInput é o payload de criação/edição de cliente.
type ClientInput struct {
	Name  string `json:"name" validate:"required,min=3"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,min=8"`
	City  string `json:"city"`
	State string `json:"state" validate:"omitempty,len=2"`
}

// Plan é um plano comercial vendável a clientes.
// Invariante: só pode ser excluído com zero compras associadas.
type Plan struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Credits     int       `json:"credits"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlanInput é o payload de criação/edição de plano.
type PlanInput struct {
	Name        string `json:"name" validate:"required,min=3"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
	Credits     int    `json:"credits" validate:"gte=0"`
	IsActive    *bool  `json:"is_active"`
}

// Purchase registra a compra de um plano por um cliente.
// Append-only do ponto de vista da aplicação (sem rota de update).
type Purchase struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	PlanID      string    `json:"plan_id"`
	Credits     int       `json:"credits"`
	UsedCredits int       `json:"used_credits"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// PurchaseInput é o payload de criação de compra.
type PurchaseInput struct {
	ClientID string `json:"client_id" validate:"required,uuid"`
	PlanID   string `json:"plan_id" validate:"required,uuid"`
}

// ClientRepository define o contrato de persistência de clientes.
type ClientRepository interface {
	Save(ctx context.Context, c Client) (Client, error)
	FindByID(ctx context.Context, id string) (Client, error)
	FindByAdmin(ctx context.Context, adminID string) ([]Client, error)
	FindAll(ctx context.Context) ([]Client, error)
	Update(ctx context.Context, c Client) error
	Delete(ctx context.Context, id string) error
}

// PlanRepository define o contrato de persistência de planos e compras.
type PlanRepository interface {
	SavePlan(ctx context.Context, p Plan) (Plan, error)
	FindPlanByID(ctx context.Context, id string) (Plan, error)
	FindAllPlans(ctx context.Context) ([]Plan, error)
	UpdatePlan(ctx context.Context, p Plan) error
	DeletePlan(ctx context.Context, id string) error
	CountPurchasesByPlan(ctx context.Context, planID string) (int, error)

	SavePurchase(ctx context.Context, p Purchase) (Purchase, error)
	FindPurchaseByID(ctx context.Context, id string) (Purchase, error)
	FindPurchasesByClient(ctx context.Context, clientID string) ([]Purchase, error)
	DeletePurchase(ctx context.Context, id string) error
}
