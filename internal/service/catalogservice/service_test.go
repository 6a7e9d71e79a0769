package catalogservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"govagas/internal/domain"
	"govagas/internal/pkg/geo"
	"govagas/internal/pkg/logger"
	"govagas/internal/service/catalogservice"
)

// MockCatalogRepository é uma implementação mock da interface CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) SaveSector(ctx context.Context, s domain.Sector) (domain.Sector, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(domain.Sector), args.Error(1)
}

func (m *MockCatalogRepository) FindAllSectors(ctx context.Context) ([]domain.Sector, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Sector), args.Error(1)
}

func (m *MockCatalogRepository) DeleteSector(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) SaveSubsector(ctx context.Context, s domain.Subsector) (domain.Subsector, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(domain.Subsector), args.Error(1)
}

func (m *MockCatalogRepository) FindSubsectors(ctx context.Context, sectorID string) ([]domain.Subsector, error) {
	args := m.Called(ctx, sectorID)
	return args.Get(0).([]domain.Subsector), args.Error(1)
}

func (m *MockCatalogRepository) DeleteSubsector(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) SaveEvent(ctx context.Context, e domain.Event) (domain.Event, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *MockCatalogRepository) FindEvents(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockCatalogRepository) DeleteEvent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) SaveBanner(ctx context.Context, b domain.Banner) (domain.Banner, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(domain.Banner), args.Error(1)
}

func (m *MockCatalogRepository) FindBanners(ctx context.Context, activeOnly bool) ([]domain.Banner, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]domain.Banner), args.Error(1)
}

func (m *MockCatalogRepository) UpdateBanner(ctx context.Context, b domain.Banner) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockCatalogRepository) DeleteBanner(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetSettings(ctx context.Context) (domain.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Settings), args.Error(1)
}

func (m *MockCatalogRepository) UpdateSettings(ctx context.Context, s domain.Settings) (domain.Settings, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(domain.Settings), args.Error(1)
}

func (m *MockCatalogRepository) SaveVisit(ctx context.Context, v domain.SiteVisit) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockCatalogRepository) CountVisits(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

// stubLocator devolve uma localização fixa ou um erro.
type stubLocator struct {
	loc geo.Location
	err error
}

func (s *stubLocator) Lookup(ctx context.Context, ip string) (geo.Location, error) {
	return s.loc, s.err
}

// TestRecordVisit_GeoFailureSwallowed testa que a falha da geolocalização
// nunca impede o registro da visita: ela entra sem país/região.
func TestRecordVisit_GeoFailureSwallowed(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	svc := catalogservice.NewService(mockRepo, &stubLocator{err: errors.New("provedor fora do ar")}, logger.NewLogger("debug"))

	mockRepo.On("SaveVisit", mock.Anything, mock.MatchedBy(func(v domain.SiteVisit) bool {
		return v.IP == "203.0.113.7" && v.Country == "" && v.Region == ""
	})).Return(nil)

	err := svc.RecordVisit(context.Background(), "203.0.113.7", "/")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestRecordVisit_WithGeo testa o enriquecimento com país/região.
func TestRecordVisit_WithGeo(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	svc := catalogservice.NewService(mockRepo, &stubLocator{loc: geo.Location{Country: "Brazil", Region: "São Paulo"}}, logger.NewLogger("debug"))

	mockRepo.On("SaveVisit", mock.Anything, mock.MatchedBy(func(v domain.SiteVisit) bool {
		return v.Country == "Brazil" && v.Region == "São Paulo"
	})).Return(nil)

	err := svc.RecordVisit(context.Background(), "203.0.113.7", "/vagas")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestListPublicEvents_HidesEnded testa o corte por EndsAt na leitura.
func TestListPublicEvents_HidesEnded(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	svc := catalogservice.NewService(mockRepo, &stubLocator{}, logger.NewLogger("debug"))

	now := time.Now().UTC()
	mockRepo.On("FindEvents", mock.Anything).Return([]domain.Event{
		{ID: "ev-1", Title: "Feira de Empregos", EndsAt: now.Add(24 * time.Hour)},
		{ID: "ev-2", Title: "Workshop Encerrado", EndsAt: now.Add(-time.Hour)},
	}, nil)

	events, err := svc.ListPublicEvents(context.Background())

	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "ev-1", events[0].ID)
}

// TestUpdateSettings_PreservesPassword testa que senha SMTP vazia no
// payload preserva a senha atual.
func TestUpdateSettings_PreservesPassword(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	svc := catalogservice.NewService(mockRepo, &stubLocator{}, logger.NewLogger("debug"))

	mockRepo.On("GetSettings", mock.Anything).Return(domain.Settings{
		SiteName: "GoVagas", SMTPPassword: "segredo-atual",
	}, nil)
	mockRepo.On("UpdateSettings", mock.Anything, mock.MatchedBy(func(s domain.Settings) bool {
		return s.SiteName == "GoVagas Empregos" && s.SMTPPassword == "segredo-atual"
	})).Return(domain.Settings{SiteName: "GoVagas Empregos"}, nil)

	_, err := svc.UpdateSettings(context.Background(), domain.SettingsInput{SiteName: "GoVagas Empregos"})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestUpdateBanner_NotFound testa o erro para banner inexistente.
func TestUpdateBanner_NotFound(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	svc := catalogservice.NewService(mockRepo, &stubLocator{}, logger.NewLogger("debug"))

	mockRepo.On("FindBanners", mock.Anything, false).Return([]domain.Banner{}, nil)

	_, err := svc.UpdateBanner(context.Background(), "banner-1", domain.BannerInput{
		Title: "Promoção", ImagePath: "banners/promo.png",
	})

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "UpdateBanner", mock.Anything, mock.Anything)
}
