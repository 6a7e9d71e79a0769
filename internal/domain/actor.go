package domain

import (
	"context"
	"time"
)

// ActorKind identifica o tipo de ator autenticado no sistema.
// O domínio trata os três tipos como uma união etiquetada: cada rota
// despacha sobre o Kind em vez de herdar estruturas.
type ActorKind string

const (
	KindOperator ActorKind = "operator"
	KindCompany  ActorKind = "company"
	KindAdmin    ActorKind = "admin"
)

// Principal é a identidade extraída da sessão e anexada ao contexto da
// requisição: exatamente um ator (id + tipo), nunca estado global.
type Principal struct {
	ActorID string
	Kind    ActorKind
}

// Operator representa o profissional que cria perfil e se candidata a vagas.
type Operator struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Nunca serializado nas respostas
	CPF          string    `json:"cpf"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Bio          string    `json:"bio"`
	ResumePath   string    `json:"resume_path"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Experience é um item de experiência profissional do operador.
// Recurso pertencente exclusivamente ao operador dono (sem override de admin).
type Experience struct {
	ID          string    `json:"id"`
	OperatorID  string    `json:"operator_id"`
	CompanyName string    `json:"company_name"`
	Role        string    `json:"role"`
	Description string    `json:"description"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}

// Company representa a empresa auto-registrada que publica vagas.
type Company struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CNPJ         string    `json:"cnpj"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Description  string    `json:"description"`
	LogoPath     string    `json:"logo_path"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Admin representa o administrador do site (gerencia clientes, setores,
// eventos, banners, planos e configurações globais).
type Admin struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OperatorRegistration é o payload de entrada para registro de operador.
// As tags validate declaram o "insert shape" verificado também no servidor.
type OperatorRegistration struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	CPF      string `json:"cpf" validate:"required,len=11,numeric"`
	Phone    string `json:"phone" validate:"omitempty,min=8"`
	City     string `json:"city" validate:"omitempty"`
	State    string `json:"state" validate:"omitempty,len=2"`
}

// CompanyRegistration é o payload de entrada para registro de empresa.
type CompanyRegistration struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	CNPJ     string `json:"cnpj" validate:"required,len=14,numeric"`
	Phone    string `json:"phone" validate:"omitempty,min=8"`
	City     string `json:"city" validate:"omitempty"`
	State    string `json:"state" validate:"omitempty,len=2"`
}

// ProfileUpdate é o payload parcial de atualização de perfil.
// Campos de identidade (email, CPF/CNPJ, senha) NUNCA passam por aqui:
// o serviço descarta qualquer tentativa, mesmo que o cliente os envie.
type ProfileUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=3"`
	Phone       *string `json:"phone" validate:"omitempty,min=8"`
	City        *string `json:"city"`
	State       *string `json:"state" validate:"omitempty,len=2"`
	Bio         *string `json:"bio"`
	Description *string `json:"description"`
}

// ExperienceInput é o payload de criação de experiência profissional.
type ExperienceInput struct {
	CompanyName string     `json:"company_name" validate:"required,min=2"`
	Role        string     `json:"role" validate:"required,min=2"`
	Description string     `json:"description"`
	StartedAt   time.Time  `json:"started_at" validate:"required"`
	EndedAt     *time.Time `json:"ended_at"`
}

// --- Contratos de Persistência ---

// OperatorRepository define o contrato de persistência para operadores.
type OperatorRepository interface {
	Save(ctx context.Context, op Operator) (Operator, error)
	FindByID(ctx context.Context, id string) (Operator, error)
	FindByEmail(ctx context.Context, email string) (Operator, error)
	FindByCPF(ctx context.Context, cpf string) (Operator, error)
	FindAll(ctx context.Context) ([]Operator, error)
	Update(ctx context.Context, op Operator) error
	SaveExperience(ctx context.Context, exp Experience) (Experience, error)
	FindExperiences(ctx context.Context, operatorID string) ([]Experience, error)
	DeleteExperience(ctx context.Context, id string) error
	FindExperienceByID(ctx context.Context, id string) (Experience, error)
}

// CompanyRepository define o contrato de persistência para empresas.
type CompanyRepository interface {
	Save(ctx context.Context, c Company) (Company, error)
	FindByID(ctx context.Context, id string) (Company, error)
	FindByEmail(ctx context.Context, email string) (Company, error)
	FindByCNPJ(ctx context.Context, cnpj string) (Company, error)
	FindAll(ctx context.Context) ([]Company, error)
	Update(ctx context.Context, c Company) error
}

// AdminRepository define o contrato de persistência para administradores.
type AdminRepository interface {
	FindByID(ctx context.Context, id string) (Admin, error)
	FindByEmail(ctx context.Context, email string) (Admin, error)
}

// UpdatePassword é compartilhado pelos três tipos de ator no fluxo de
// redefinição de senha; a implementação despacha sobre o ActorKind.
type PasswordUpdater interface {
	UpdatePasswordHash(ctx context.Context, kind ActorKind, actorID string, hash string) error
}
