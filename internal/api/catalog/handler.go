package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/logger"
)

// CatalogService define o contrato que o Handler espera da camada de Serviço.
type CatalogService interface {
	CreateSector(ctx context.Context, input domain.SectorInput) (domain.Sector, error)
	ListSectors(ctx context.Context) ([]domain.Sector, error)
	DeleteSector(ctx context.Context, id string) error
	CreateSubsector(ctx context.Context, input domain.SubsectorInput) (domain.Subsector, error)
	ListSubsectors(ctx context.Context, sectorID string) ([]domain.Subsector, error)
	DeleteSubsector(ctx context.Context, id string) error

	CreateEvent(ctx context.Context, input domain.EventInput) (domain.Event, error)
	ListPublicEvents(ctx context.Context) ([]domain.Event, error)
	ListAllEvents(ctx context.Context) ([]domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	CreateBanner(ctx context.Context, input domain.BannerInput) (domain.Banner, error)
	ListBanners(ctx context.Context, activeOnly bool) ([]domain.Banner, error)
	UpdateBanner(ctx context.Context, id string, input domain.BannerInput) (domain.Banner, error)
	DeleteBanner(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (domain.Settings, error)
	UpdateSettings(ctx context.Context, input domain.SettingsInput) (domain.Settings, error)

	RecordVisit(ctx context.Context, ip, path string) error
	CountVisits(ctx context.Context, since time.Time) (int, error)
}

// Handler agrupa os métodos de Handler do catálogo do site.
type Handler struct {
	Service CatalogService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc CatalogService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
				http.Error(w, "Erro ao codificar resposta", http.StatusInternalServerError)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{Code: status, Category: category, Message: message})
}

// --- Setores ---

// CreateSectorHandler lida com a requisição POST /v1/sectors.
// @Summary Cria um setor
// @Tags catalog
// @Accept json
// @Produce json
// @Param sector body domain.SectorInput true "Nome do setor"
// @Success 201 {object} domain.Sector "Setor criado"
// @Router /sectors [post]
func (h *Handler) CreateSectorHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.SectorInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	s, err := h.Service.CreateSector(r.Context(), input)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, s, nil, http.StatusCreated)
}

// ListSectorsHandler lida com a requisição GET /v1/sectors (pública).
// @Summary Lista os setores
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Sector "Setores"
// @Router /sectors [get]
func (h *Handler) ListSectorsHandler(w http.ResponseWriter, r *http.Request) {
	sectors, err := h.Service.ListSectors(r.Context())
	h.handleServiceResponse(w, r, sectors, err, http.StatusOK)
}

// DeleteSectorHandler lida com a requisição DELETE /v1/sectors/{id}.
// @Summary Exclui um setor
// @Tags catalog
// @Param id path string true "ID do setor"
// @Success 204 "Setor excluído"
// @Router /sectors/{id} [delete]
func (h *Handler) DeleteSectorHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteSector(r.Context(), r.PathValue("id")); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// CreateSubsectorHandler lida com a requisição POST /v1/subsectors.
// @Summary Cria um subsetor
// @Tags catalog
// @Accept json
// @Produce json
// @Param subsector body domain.SubsectorInput true "Setor pai e nome"
// @Success 201 {object} domain.Subsector "Subsetor criado"
// @Router /subsectors [post]
func (h *Handler) CreateSubsectorHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.SubsectorInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	s, err := h.Service.CreateSubsector(r.Context(), input)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, s, nil, http.StatusCreated)
}

// ListSubsectorsHandler lida com a requisição GET /v1/sectors/{id}/subsectors (pública).
// @Summary Lista os subsetores de um setor
// @Tags catalog
// @Produce json
// @Param id path string true "ID do setor"
// @Success 200 {array} domain.Subsector "Subsetores"
// @Router /sectors/{id}/subsectors [get]
func (h *Handler) ListSubsectorsHandler(w http.ResponseWriter, r *http.Request) {
	subsectors, err := h.Service.ListSubsectors(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, subsectors, err, http.StatusOK)
}

// DeleteSubsectorHandler lida com a requisição DELETE /v1/subsectors/{id}.
// @Summary Exclui um subsetor
// @Tags catalog
// @Param id path string true "ID do subsetor"
// @Success 204 "Subsetor excluído"
// @Router /subsectors/{id} [delete]
func (h *Handler) DeleteSubsectorHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteSubsector(r.Context(), r.PathValue("id")); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// --- Eventos ---

// CreateEventHandler lida com a requisição POST /v1/events.
// @Summary Cria um evento
// @Tags catalog
// @Accept json
// @Produce json
// @Param event body domain.EventInput true "Dados do evento"
// @Success 201 {object} domain.Event "Evento criado"
// @Router /events [post]
func (h *Handler) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.EventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	e, err := h.Service.CreateEvent(r.Context(), input)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, e, nil, http.StatusCreated)
}

// ListEventsHandler lida com a requisição GET /v1/events (pública).
// @Summary Lista os eventos ainda não encerrados
// @Description O corte por data fim é computado na leitura.
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Event "Eventos visíveis"
// @Router /events [get]
func (h *Handler) ListEventsHandler(w http.ResponseWriter, r *http.Request) {
	events, err := h.Service.ListPublicEvents(r.Context())
	h.handleServiceResponse(w, r, events, err, http.StatusOK)
}

// ListAllEventsHandler lida com a requisição GET /v1/admin/events.
// @Summary Lista todos os eventos, inclusive encerrados
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Event "Todos os eventos"
// @Router /admin/events [get]
func (h *Handler) ListAllEventsHandler(w http.ResponseWriter, r *http.Request) {
	events, err := h.Service.ListAllEvents(r.Context())
	h.handleServiceResponse(w, r, events, err, http.StatusOK)
}

// DeleteEventHandler lida com a requisição DELETE /v1/events/{id}.
// @Summary Exclui um evento
// @Tags catalog
// @Param id path string true "ID do evento"
// @Success 204 "Evento excluído"
// @Router /events/{id} [delete]
func (h *Handler) DeleteEventHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// --- Banners ---

// CreateBannerHandler lida com a requisição POST /v1/banners.
// @Summary Cria um banner
// @Tags catalog
// @Accept json
// @Produce json
// @Param banner body domain.BannerInput true "Dados do banner"
// @Success 201 {object} domain.Banner "Banner criado"
// @Router /banners [post]
func (h *Handler) CreateBannerHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.BannerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	b, err := h.Service.CreateBanner(r.Context(), input)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, b, nil, http.StatusCreated)
}

// ListBannersHandler lida com a requisição GET /v1/banners (pública).
// @Summary Lista os banners ativos
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Banner "Banners ativos"
// @Router /banners [get]
func (h *Handler) ListBannersHandler(w http.ResponseWriter, r *http.Request) {
	banners, err := h.Service.ListBanners(r.Context(), true)
	h.handleServiceResponse(w, r, banners, err, http.StatusOK)
}

// ListAllBannersHandler lida com a requisição GET /v1/admin/banners.
// @Summary Lista todos os banners, inclusive inativos
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Banner "Todos os banners"
// @Router /admin/banners [get]
func (h *Handler) ListAllBannersHandler(w http.ResponseWriter, r *http.Request) {
	banners, err := h.Service.ListBanners(r.Context(), false)
	h.handleServiceResponse(w, r, banners, err, http.StatusOK)
}

// UpdateBannerHandler lida com a requisição PUT /v1/banners/{id}.
// @Summary Edita um banner
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "ID do banner"
// @Param banner body domain.BannerInput true "Dados do banner"
// @Success 200 {object} domain.Banner "Banner atualizado"
// @Router /banners/{id} [put]
func (h *Handler) UpdateBannerHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.BannerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	b, err := h.Service.UpdateBanner(r.Context(), r.PathValue("id"), input)
	h.handleServiceResponse(w, r, b, err, http.StatusOK)
}

// DeleteBannerHandler lida com a requisição DELETE /v1/banners/{id}.
// @Summary Exclui um banner
// @Tags catalog
// @Param id path string true "ID do banner"
// @Success 204 "Banner excluído"
// @Router /banners/{id} [delete]
func (h *Handler) DeleteBannerHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteBanner(r.Context(), r.PathValue("id")); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// --- Configurações ---

// GetSettingsHandler lida com a requisição GET /v1/settings.
// @Summary Retorna as configurações globais do site
// @Tags settings
// @Produce json
// @Success 200 {object} domain.Settings "Configurações"
// @Router /settings [get]
func (h *Handler) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Service.GetSettings(r.Context())
	h.handleServiceResponse(w, r, settings, err, http.StatusOK)
}

// UpdateSettingsHandler lida com a requisição PUT /v1/settings.
// @Summary Atualiza as configurações globais (parcial)
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body domain.SettingsInput true "Campos a atualizar"
// @Success 200 {object} domain.Settings "Configurações atualizadas"
// @Router /settings [put]
func (h *Handler) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.SettingsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	settings, err := h.Service.UpdateSettings(r.Context(), input)
	h.handleServiceResponse(w, r, settings, err, http.StatusOK)
}

// --- Visitas ---

type visitPayload struct {
	Path string `json:"path"`
}

// RecordVisitHandler lida com a requisição POST /v1/visits (pública).
// @Summary Registra uma visita ao site
// @Description Geolocalização por IP é melhor esforço.
// @Tags visits
// @Accept json
// @Success 202 "Visita registrada"
// @Router /visits [post]
func (h *Handler) RecordVisitHandler(w http.ResponseWriter, r *http.Request) {
	var payload visitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		payload.Path = "/"
	}

	if err := h.Service.RecordVisit(r.Context(), clientIP(r), payload.Path); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, nil, nil, http.StatusAccepted)
}

// CountVisitsHandler lida com a requisição GET /v1/admin/visits/count.
// @Summary Conta as visitas dos últimos N dias
// @Tags visits
// @Produce json
// @Param days query int false "Janela em dias (padrão 30)"
// @Success 200 {object} map[string]int "Contagem"
// @Router /admin/visits/count [get]
func (h *Handler) CountVisitsHandler(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &days); err != nil || days <= 0 {
			days = 30
		}
	}

	count, err := h.Service.CountVisits(r.Context(), time.Now().UTC().AddDate(0, 0, -days))
	h.handleServiceResponse(w, r, map[string]int{"count": count}, err, http.StatusOK)
}

// clientIP extrai o IP do cliente, respeitando o X-Forwarded-For quando
// a aplicação está atrás de um proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
