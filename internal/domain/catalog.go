package domain

import (
	"context"
	"time"
)

// Entidades de configuração do site, administradas por QUALQUER admin
// (não há dono por admin nessas tabelas).

// Sector é um setor de atuação usado para classificar vagas.
type Sector struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Subsector é uma subdivisão de um setor.
type Subsector struct {
	ID       string `json:"id"`
	SectorID string `json:"sector_id"`
	Name     string `json:"name"`
}

// Event é um evento divulgado no site. O "ocultamento" após EndsAt é
// computado na leitura, nunca um estado persistido.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Banner é um banner exibido publicamente enquanto ativo.
type Banner struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ImagePath string    `json:"image_path"`
	LinkURL   string    `json:"link_url"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Settings é o registro único de configurações globais, incluindo os
// parâmetros SMTP consumidos pelo colaborador de e-mail.
type Settings struct {
	ID           string    `json:"id"`
	SiteName     string    `json:"site_name"`
	ContactEmail string    `json:"contact_email"`
	SMTPHost     string    `json:"smtp_host"`
	SMTPPort     int       `json:"smtp_port"`
	SMTPUser     string    `json:"smtp_user"`
	SMTPPassword string    `json:"-"`
	SMTPFrom     string    `json:"smtp_from"`
	EmailActive  bool      `json:"email_active"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SiteVisit registra um acesso ao site; país/região vêm do colaborador
// de geolocalização e podem ficar vazios quando ele falha.
type SiteVisit struct {
	ID        string    `json:"id"`
	IP        string    `json:"ip"`
	Path      string    `json:"path"`
	Country   string    `json:"country"`
	Region    string    `json:"region"`
	CreatedAt time.Time `json:"created_at"`
}

// Payloads de entrada do catálogo.

type SectorInput struct {
	Name string `json:"name" validate:"required,min=2"`
}

type SubsectorInput struct {
	SectorID string `json:"sector_id" validate:"required,uuid"`
	Name     string `json:"name" validate:"required,min=2"`
}

type EventInput struct {
	Title       string    `json:"title" validate:"required,min=3"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
}

type BannerInput struct {
	Title     string `json:"title" validate:"required,min=3"`
	ImagePath string `json:"image_path" validate:"required"`
	LinkURL   string `json:"link_url" validate:"omitempty,url"`
	IsActive  *bool  `json:"is_active"`
}

type SettingsInput struct {
	SiteName     string `json:"site_name" validate:"omitempty,min=2"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port" validate:"omitempty,gte=1,lte=65535"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"smtp_password"`
	SMTPFrom     string `json:"smtp_from" validate:"omitempty,email"`
	EmailActive  *bool  `json:"email_active"`
}

// CatalogRepository define o contrato de persistência do catálogo do site.
type CatalogRepository interface {
	SaveSector(ctx context.Context, s Sector) (Sector, error)
	FindAllSectors(ctx context.Context) ([]Sector, error)
	DeleteSector(ctx context.Context, id string) error
	SaveSubsector(ctx context.Context, s Subsector) (Subsector, error)
	FindSubsectors(ctx context.Context, sectorID string) ([]Subsector, error)
	DeleteSubsector(ctx context.Context, id string) error

	SaveEvent(ctx context.Context, e Event) (Event, error)
	FindEvents(ctx context.Context) ([]Event, error)
	DeleteEvent(ctx context.Context, id string) error

	SaveBanner(ctx context.Context, b Banner) (Banner, error)
	FindBanners(ctx context.Context, activeOnly bool) ([]Banner, error)
	UpdateBanner(ctx context.Context, b Banner) error
	DeleteBanner(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (Settings, error)
	UpdateSettings(ctx context.Context, s Settings) (Settings, error)

	SaveVisit(ctx context.Context, v SiteVisit) error
	CountVisits(ctx context.Context, since time.Time) (int, error)
}
