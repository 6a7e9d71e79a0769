package catalogservice

import (
	"context"
	"fmt"
	"time"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/geo"
	"govagas/internal/pkg/logger"
	"govagas/internal/pkg/validate"
)

// Service implementa o catálogo do site: setores, eventos, banners,
// configurações globais e o registro de visitas.
type Service struct {
	Catalog domain.CatalogRepository
	Locator geo.Locator
	logger  logger.Logger
}

// NewService cria uma nova instância do serviço de catálogo.
func NewService(catalog domain.CatalogRepository, locator geo.Locator, log logger.Logger) *Service {
	return &Service{Catalog: catalog, Locator: locator, logger: log}
}

// --- Setores ---

func (s *Service) CreateSector(ctx context.Context, input domain.SectorInput) (domain.Sector, error) {
	if err := validate.Struct(input); err != nil {
		return domain.Sector{}, err
	}
	return s.Catalog.SaveSector(ctx, domain.Sector{Name: input.Name})
}

func (s *Service) ListSectors(ctx context.Context) ([]domain.Sector, error) {
	return s.Catalog.FindAllSectors(ctx)
}

func (s *Service) DeleteSector(ctx context.Context, id string) error {
	return s.Catalog.DeleteSector(ctx, id)
}

func (s *Service) CreateSubsector(ctx context.Context, input domain.SubsectorInput) (domain.Subsector, error) {
	if err := validate.Struct(input); err != nil {
		return domain.Subsector{}, err
	}
	return s.Catalog.SaveSubsector(ctx, domain.Subsector{SectorID: input.SectorID, Name: input.Name})
}

func (s *Service) ListSubsectors(ctx context.Context, sectorID string) ([]domain.Subsector, error) {
	return s.Catalog.FindSubsectors(ctx, sectorID)
}

func (s *Service) DeleteSubsector(ctx context.Context, id string) error {
	return s.Catalog.DeleteSubsector(ctx, id)
}

// --- Eventos ---

func (s *Service) CreateEvent(ctx context.Context, input domain.EventInput) (domain.Event, error) {
	if err := validate.Struct(input); err != nil {
		return domain.Event{}, err
	}
	return s.Catalog.SaveEvent(ctx, domain.Event{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
	})
}

// ListPublicEvents retorna só os eventos ainda não encerrados. O corte
// por EndsAt é computado aqui, na leitura; nada é persistido.
func (s *Service) ListPublicEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.Catalog.FindEvents(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	visible := []domain.Event{}
	for _, e := range events {
		if e.EndsAt.After(now) {
			visible = append(visible, e)
		}
	}
	return visible, nil
}

// ListAllEvents retorna todos os eventos, inclusive encerrados (painel).
func (s *Service) ListAllEvents(ctx context.Context) ([]domain.Event, error) {
	return s.Catalog.FindEvents(ctx)
}

func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	return s.Catalog.DeleteEvent(ctx, id)
}

// --- Banners ---

func (s *Service) CreateBanner(ctx context.Context, input domain.BannerInput) (domain.Banner, error) {
	if err := validate.Struct(input); err != nil {
		return domain.Banner{}, err
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	return s.Catalog.SaveBanner(ctx, domain.Banner{
		Title:     input.Title,
		ImagePath: input.ImagePath,
		LinkURL:   input.LinkURL,
		IsActive:  active,
	})
}

// ListBanners lista banners; a vitrine pública passa activeOnly=true.
func (s *Service) ListBanners(ctx context.Context, activeOnly bool) ([]domain.Banner, error) {
	return s.Catalog.FindBanners(ctx, activeOnly)
}

func (s *Service) UpdateBanner(ctx context.Context, id string, input domain.BannerInput) (domain.Banner, error) {
	if err := validate.Struct(input); err != nil {
		return domain.Banner{}, err
	}
	banners, err := s.Catalog.FindBanners(ctx, false)
	if err != nil {
		return domain.Banner{}, err
	}
	for _, b := range banners {
		if b.ID != id {
			continue
		}
		b.Title = input.Title
		b.ImagePath = input.ImagePath
		b.LinkURL = input.LinkURL
		if input.IsActive != nil {
			b.IsActive = *input.IsActive
		}
		if err := s.Catalog.UpdateBanner(ctx, b); err != nil {
			return domain.Banner{}, err
		}
		return b, nil
	}
	return domain.Banner{}, apperror.NewNotFoundError(fmt.Sprintf("Banner com ID %s não encontrado.", id))
}

func (s *Service) DeleteBanner(ctx context.Context, id string) error {
	return s.Catalog.DeleteBanner(ctx, id)
}

// --- Configurações ---

func (s *Service) GetSettings(ctx context.Context) (domain.Settings, error) {
	return s.Catalog.GetSettings(ctx)
}

// UpdateSettings aplica uma atualização parcial ao registro único.
// Senha SMTP vazia preserva a senha atual.
func (s *Service) UpdateSettings(ctx context.Context, input domain.SettingsInput) (domain.Settings, error) {
	if err := validate.Struct(input); err != nil {
		return domain.Settings{}, err
	}

	current, err := s.Catalog.GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	if input.SiteName != "" {
		current.SiteName = input.SiteName
	}
	if input.ContactEmail != "" {
		current.ContactEmail = input.ContactEmail
	}
	if input.SMTPHost != "" {
		current.SMTPHost = input.SMTPHost
	}
	if input.SMTPPort != 0 {
		current.SMTPPort = input.SMTPPort
	}
	if input.SMTPUser != "" {
		current.SMTPUser = input.SMTPUser
	}
	if input.SMTPPassword != "" {
		current.SMTPPassword = input.SMTPPassword
	}
	if input.SMTPFrom != "" {
		current.SMTPFrom = input.SMTPFrom
	}
	if input.EmailActive != nil {
		current.EmailActive = *input.EmailActive
	}

	return s.Catalog.UpdateSettings(ctx, current)
}

// --- Visitas ---

// RecordVisit registra um acesso ao site. A geolocalização é melhor
// esforço: falha do colaborador nunca impede o registro da visita.
func (s *Service) RecordVisit(ctx context.Context, ip, path string) error {
	visit := domain.SiteVisit{IP: ip, Path: path}

	if loc, err := s.Locator.Lookup(ctx, ip); err == nil {
		visit.Country = loc.Country
		visit.Region = loc.Region
	} else {
		s.logger.Warn("Geolocalização indisponível para a visita.", map[string]interface{}{"ip": ip})
	}

	return s.Catalog.SaveVisit(ctx, visit)
}

// CountVisits conta as visitas desde um instante (painel do admin).
func (s *Service) CountVisits(ctx context.Context, since time.Time) (int, error) {
	return s.Catalog.CountVisits(ctx, since)
}
