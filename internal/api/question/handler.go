package question

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

// QuestionService define o contrato que o Handler espera da camada de Serviço.
type QuestionService interface {
	Create(ctx context.Context, p domain.Principal, input domain.QuestionInput) (domain.Question, error)
	ListMine(ctx context.Context, p domain.Principal, clientID string) ([]domain.Question, error)
	Update(ctx context.Context, p domain.Principal, id string, input domain.QuestionInput) (domain.Question, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
	AttachToJob(ctx context.Context, p domain.Principal, input domain.JobQuestionInput) error
	ListForJob(ctx context.Context, jobID string) ([]domain.Question, error)
}

// Handler agrupa todos os métodos de Handler de perguntas de triagem.
type Handler struct {
	Service QuestionService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc QuestionService, log logger.Logger) *Handler {
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

// CreateQuestionHandler lida com a requisição POST /v1/questions.
// @Summary Cria uma pergunta de triagem
// @Tags questions
// @Accept json
// @Produce json
// @Param question body domain.QuestionInput true "Texto da pergunta"
// @Success 201 {object} domain.Question "Pergunta criada"
// @Failure 403 {object} domain.ErrorResponse "Sem permissão"
// @Router /questions [post]
func (h *Handler) CreateQuestionHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	var input domain.QuestionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	q, err := h.Service.Create(r.Context(), p, input)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, q, nil, http.StatusCreated)
}

// ListQuestionsHandler lida com a requisição GET /v1/questions.
// @Summary Lista as perguntas do dono logado
// @Description Admins informam ?client_id= para ver o banco de um cliente.
// @Tags questions
// @Produce json
// @Param client_id query string false "Cliente (apenas admins)"
// @Success 200 {array} domain.Question "Perguntas"
// @Router /questions [get]
func (h *Handler) ListQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	qs, err := h.Service.ListMine(r.Context(), p, r.URL.Query().Get("client_id"))
	h.handleServiceResponse(w, r, qs, err, http.StatusOK)
}

// UpdateQuestionHandler lida com a requisição PUT /v1/questions/{id}.
// @Summary Edita uma pergunta do dono
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "ID da pergunta"
// @Param question body domain.QuestionInput true "Novo texto"
// @Success 200 {object} domain.Question "Pergunta atualizada"
// @Failure 403 {object} domain.ErrorResponse "Pergunta de outra conta"
// @Router /questions/{id} [put]
func (h *Handler) UpdateQuestionHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	var input domain.QuestionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	q, err := h.Service.Update(r.Context(), p, r.PathValue("id"), input)
	h.handleServiceResponse(w, r, q, err, http.StatusOK)
}

// DeleteQuestionHandler lida com a requisição DELETE /v1/questions/{id}.
// @Summary Exclui uma pergunta do dono
// @Tags questions
// @Param id path string true "ID da pergunta"
// @Success 204 "Pergunta excluída"
// @Failure 403 {object} domain.ErrorResponse "Pergunta de outra conta"
// @Router /questions/{id} [delete]
func (h *Handler) DeleteQuestionHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	if err := h.Service.Delete(r.Context(), p, r.PathValue("id")); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// AttachQuestionsHandler lida com a requisição PUT /v1/jobs/{id}/questions.
// @Summary Substitui o conjunto ordenado de perguntas de uma vaga
// @Tags questions
// @Accept json
// @Param id path string true "ID da vaga"
// @Param questions body domain.JobQuestionInput true "IDs ordenados das perguntas"
// @Success 204 "Perguntas associadas"
// @Failure 403 {object} domain.ErrorResponse "Vaga ou pergunta de outra conta"
// @Router /jobs/{id}/questions [put]
func (h *Handler) AttachQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	var input domain.JobQuestionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}
	input.JobID = r.PathValue("id") // o id da URL prevalece

	if err := h.Service.AttachToJob(r.Context(), p, input); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// ListJobQuestionsHandler lida com a requisição GET /v1/jobs/{id}/questions.
// @Summary Lista as perguntas de uma vaga na ordem de exibição
// @Description Leitura pública: o operador as vê antes de se candidatar.
// @Tags questions
// @Produce json
// @Param id path string true "ID da vaga"
// @Success 200 {array} domain.Question "Perguntas ordenadas"
// @Router /jobs/{id}/questions [get]
func (h *Handler) ListJobQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	qs, err := h.Service.ListForJob(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, qs, err, http.StatusOK)
}
