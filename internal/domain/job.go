package domain

import (
	"context"
	"time"
)

// JobStatus é a máquina de estados da vaga: exatamente dois estados,
// alternados pelo dono. Estados exibidos como "encerrada"/"preenchida"
// são derivados na apresentação, nunca persistidos.
type JobStatus string

const (
	JobActive    JobStatus = "active"
	JobSuspended JobStatus = "suspended"
)

// Job representa uma vaga publicada por uma empresa ou por um cliente
// administrado. A propriedade é exclusiva (ver Owner).
type Job struct {
	ID          string    `json:"id"`
	Owner       Owner     `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SectorID    string    `json:"sector_id"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Salary      string    `json:"salary"` // texto livre, ex: "R$ 5.000 - R$ 8.000"
	JobType     string    `json:"job_type"`
	Status      JobStatus `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JobInput é o payload de criação/edição de vaga.
type JobInput struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"required,min=10"`
	SectorID    string `json:"sector_id" validate:"omitempty,uuid"`
	City        string `json:"city" validate:"omitempty"`
	State       string `json:"state" validate:"omitempty,len=2"`
	Salary      string `json:"salary"`
	JobType     string `json:"job_type"`
	// ClientID só é aceito quando o criador é admin (vaga de cliente).
	ClientID string `json:"client_id" validate:"omitempty,uuid"`
}

// JobFilter define os parâmetros de busca da listagem pública.
type JobFilter struct {
	Page       int
	Limit      int
	SectorID   string
	City       string
	State      string
	ActiveOnly bool
}

// JobRepository define o contrato de persistência de vagas.
type JobRepository interface {
	Save(ctx context.Context, job Job) (Job, error)
	FindByID(ctx context.Context, id string) (Job, error)
	FindAll(ctx context.Context, filter JobFilter) ([]Job, error)
	FindByOwner(ctx context.Context, owner Owner) ([]Job, error)
	Update(ctx context.Context, job Job) error
	UpdateStatus(ctx context.Context, id string, status JobStatus) error
	Delete(ctx context.Context, id string) error
}
