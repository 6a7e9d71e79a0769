package job

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/logger"
	"govagas/internal/pkg/middleware"
)

// JobService define o contrato que o Handler espera da camada de Serviço.
type JobService interface {
	Create(ctx context.Context, p domain.Principal, input domain.JobInput) (domain.Job, error)
	Get(ctx context.Context, id string) (domain.Job, error)
	ListPublic(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error)
	ListMine(ctx context.Context, p domain.Principal) ([]domain.Job, error)
	Update(ctx context.Context, p domain.Principal, id string, input domain.JobInput) (domain.Job, error)
	SetStatus(ctx context.Context, p domain.Principal, id string, status domain.JobStatus) (domain.Job, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
}

// Handler agrupa todos os métodos de Handler de vagas.
type Handler struct {
	Service JobService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc JobService, log logger.Logger) *Handler {
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

// CreateJobHandler lida com a requisição POST /v1/jobs.
// @Summary Publica uma vaga
// @Description Empresas publicam em nome próprio; admins informam client_id.
// @Tags jobs
// @Accept json
// @Produce json
// @Param job body domain.JobInput true "Dados da vaga"
// @Success 201 {object} domain.Job "Vaga publicada"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 403 {object} domain.ErrorResponse "Sem permissão"
// @Router /jobs [post]
func (h *Handler) CreateJobHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	var input domain.JobInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	job, err := h.Service.Create(r.Context(), p, input)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, job, nil, http.StatusCreated)
}

// ListJobsHandler lida com a requisição GET /v1/jobs (vitrine pública).
// @Summary Lista vagas ativas
// @Description Listagem pública com filtros; vagas suspensas nunca aparecem.
// @Tags jobs
// @Produce json
// @Param page query int false "Página"
// @Param limit query int false "Itens por página"
// @Param sector_id query string false "Filtro por setor"
// @Param city query string false "Filtro por cidade"
// @Param state query string false "Filtro por UF"
// @Success 200 {array} domain.Job "Vagas"
// @Router /jobs [get]
func (h *Handler) ListJobsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	jobs, err := h.Service.ListPublic(r.Context(), domain.JobFilter{
		Page:     page,
		Limit:    limit,
		SectorID: q.Get("sector_id"),
		City:     q.Get("city"),
		State:    q.Get("state"),
	})
	h.handleServiceResponse(w, r, jobs, err, http.StatusOK)
}

// GetJobHandler lida com a requisição GET /v1/jobs/{id}.
// @Summary Obtém uma vaga por ID
// @Tags jobs
// @Produce json
// @Param id path string true "ID da vaga"
// @Success 200 {object} domain.Job "Vaga encontrada"
// @Failure 404 {object} domain.ErrorResponse "Vaga não encontrada"
// @Router /jobs/{id} [get]
func (h *Handler) GetJobHandler(w http.ResponseWriter, r *http.Request) {
	job, err := h.Service.Get(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, job, err, http.StatusOK)
}

// ListMyJobsHandler lida com a requisição GET /v1/my/jobs.
// @Summary Lista as vagas do dono logado
// @Description Inclui vagas suspensas; admins veem as vagas de seus clientes.
// @Tags jobs
// @Produce json
// @Success 200 {array} domain.Job "Vagas"
// @Router /my/jobs [get]
func (h *Handler) ListMyJobsHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	jobs, err := h.Service.ListMine(r.Context(), p)
	h.handleServiceResponse(w, r, jobs, err, http.StatusOK)
}

// UpdateJobHandler lida com a requisição PUT /v1/jobs/{id}.
// @Summary Edita uma vaga do dono
// @Tags jobs
// @Accept json
// @Produce json
// @Param id path string true "ID da vaga"
// @Param job body domain.JobInput true "Dados da vaga"
// @Success 200 {object} domain.Job "Vaga atualizada"
// @Failure 403 {object} domain.ErrorResponse "Vaga de outra conta"
// @Router /jobs/{id} [put]
func (h *Handler) UpdateJobHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	var input domain.JobInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	job, err := h.Service.Update(r.Context(), p, r.PathValue("id"), input)
	h.handleServiceResponse(w, r, job, err, http.StatusOK)
}

type statusPayload struct {
	Status domain.JobStatus `json:"status"`
}

// SetJobStatusHandler lida com a requisição PATCH /v1/jobs/{id}/status.
// @Summary Alterna o status de uma vaga do dono
// @Description Transição bidirecional active↔suspended; repetir o status atual é no-op.
// @Tags jobs
// @Accept json
// @Produce json
// @Param id path string true "ID da vaga"
// @Param status body statusPayload true "Novo status"
// @Success 200 {object} domain.Job "Vaga com status atualizado"
// @Failure 403 {object} domain.ErrorResponse "Vaga de outra conta"
// @Router /jobs/{id}/status [patch]
func (h *Handler) SetJobStatusHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	job, err := h.Service.SetStatus(r.Context(), p, r.PathValue("id"), payload.Status)
	h.handleServiceResponse(w, r, job, err, http.StatusOK)
}

// DeleteJobHandler lida com a requisição DELETE /v1/jobs/{id}.
// @Summary Exclui uma vaga do dono
// @Tags jobs
// @Param id path string true "ID da vaga"
// @Success 204 "Vaga excluída"
// @Failure 403 {object} domain.ErrorResponse "Vaga de outra conta"
// @Router /jobs/{id} [delete]
func (h *Handler) DeleteJobHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	if err := h.Service.Delete(r.Context(), p, r.PathValue("id")); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}
