package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/logger"
	"govagas/internal/pkg/middleware"
)

// ApplicationService define o contrato que o Handler espera da camada de Serviço.
type ApplicationService interface {
	Apply(ctx context.Context, p domain.Principal, input domain.ApplicationInput) (domain.Application, error)
	ListMine(ctx context.Context, p domain.Principal) ([]domain.Application, error)
	ListForJob(ctx context.Context, p domain.Principal, jobID string) ([]domain.Application, error)
	SetStatus(ctx context.Context, p domain.Principal, applicationID string, status domain.ApplicationStatus) (domain.Application, error)
	Answers(ctx context.Context, p domain.Principal, applicationID string) ([]domain.ApplicationAnswer, error)
}

// Handler agrupa todos os métodos de Handler de candidaturas.
type Handler struct {
	Service ApplicationService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ApplicationService, log logger.Logger) *Handler {
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

// ApplyHandler lida com a requisição POST /v1/applications.
// @Summary Candidata o operador logado a uma vaga
// @Description No máximo uma candidatura por par (vaga, operador).
// @Tags applications
// @Accept json
// @Produce json
// @Param application body domain.ApplicationInput true "Vaga e respostas de triagem"
// @Success 201 {object} domain.Application "Candidatura registrada"
// @Failure 409 {object} domain.ErrorResponse "Já candidatado ou vaga suspensa"
// @Router /applications [post]
func (h *Handler) ApplyHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	var input domain.ApplicationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	app, err := h.Service.Apply(r.Context(), p, input)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, app, nil, http.StatusCreated)
}

// ListMyApplicationsHandler lida com a requisição GET /v1/my/applications.
// @Summary Lista as candidaturas do operador logado
// @Tags applications
// @Produce json
// @Success 200 {array} domain.Application "Candidaturas"
// @Router /my/applications [get]
func (h *Handler) ListMyApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	apps, err := h.Service.ListMine(r.Context(), p)
	h.handleServiceResponse(w, r, apps, err, http.StatusOK)
}

// ListJobApplicationsHandler lida com a requisição GET /v1/jobs/{id}/applications.
// @Summary Lista as candidaturas de uma vaga (dono)
// @Tags applications
// @Produce json
// @Param id path string true "ID da vaga"
// @Success 200 {array} domain.Application "Candidaturas"
// @Failure 403 {object} domain.ErrorResponse "Vaga de outra conta"
// @Router /jobs/{id}/applications [get]
func (h *Handler) ListJobApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	apps, err := h.Service.ListForJob(r.Context(), p, r.PathValue("id"))
	h.handleServiceResponse(w, r, apps, err, http.StatusOK)
}

type statusPayload struct {
	Status domain.ApplicationStatus `json:"status"`
}

// SetApplicationStatusHandler lida com a requisição PATCH /v1/applications/{id}/status.
// @Summary Transiciona o status de uma candidatura (dono da vaga)
// @Description pending→accepted, pending→rejected e accepted↔rejected; nunca de volta a pending.
// @Tags applications
// @Accept json
// @Produce json
// @Param id path string true "ID da candidatura"
// @Param status body statusPayload true "Novo status"
// @Success 200 {object} domain.Application "Candidatura atualizada"
// @Failure 403 {object} domain.ErrorResponse "Vaga de outra conta"
// @Router /applications/{id}/status [patch]
func (h *Handler) SetApplicationStatusHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	app, err := h.Service.SetStatus(r.Context(), p, r.PathValue("id"), payload.Status)
	h.handleServiceResponse(w, r, app, err, http.StatusOK)
}

// ListAnswersHandler lida com a requisição GET /v1/applications/{id}/answers.
// @Summary Lista as respostas de triagem de uma candidatura
// @Description Visível ao dono da vaga e ao próprio candidato.
// @Tags applications
// @Produce json
// @Param id path string true "ID da candidatura"
// @Success 200 {array} domain.ApplicationAnswer "Respostas"
// @Failure 403 {object} domain.ErrorResponse "Candidatura de outra conta"
// @Router /applications/{id}/answers [get]
func (h *Handler) ListAnswersHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	answers, err := h.Service.Answers(r.Context(), p, r.PathValue("id"))
	h.handleServiceResponse(w, r, answers, err, http.StatusOK)
}
