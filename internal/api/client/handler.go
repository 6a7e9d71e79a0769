package client

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

// ClientService define o contrato que o Handler espera da camada de Serviço.
type ClientService interface {
	CreateClient(ctx context.Context, p domain.Principal, input domain.ClientInput) (domain.Client, error)
	GetClient(ctx context.Context, p domain.Principal, id string) (domain.Client, error)
	DeleteClient(ctx context.Context, p domain.Principal, id string) error
	ListUnified(ctx context.Context, p domain.Principal) ([]domain.ClientView, error)
	UpdateUnified(ctx context.Context, p domain.Principal, id string, input domain.ClientInput) (domain.ClientView, error)

	CreatePlan(ctx context.Context, input domain.PlanInput) (domain.Plan, error)
	ListPlans(ctx context.Context) ([]domain.Plan, error)
	UpdatePlan(ctx context.Context, id string, input domain.PlanInput) (domain.Plan, error)
	DeletePlan(ctx context.Context, id string) error

	CreatePurchase(ctx context.Context, p domain.Principal, input domain.PurchaseInput) (domain.Purchase, error)
	ListPurchases(ctx context.Context, p domain.Principal, clientID string) ([]domain.Purchase, error)
	DeletePurchase(ctx context.Context, p domain.Principal, id string) error
}

// Handler agrupa os métodos de Handler de clientes, planos e compras.
// Todas as rotas deste pacote são exclusivas de administradores.
type Handler struct {
	Service ClientService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ClientService, log logger.Logger) *Handler {
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

// --- Clientes ---

// CreateClientHandler lida com a requisição POST /v1/clients.
// @Summary Cadastra um cliente administrado
// @Tags clients
// @Accept json
// @Produce json
// @Param client body domain.ClientInput true "Dados do cliente"
// @Success 201 {object} domain.Client "Cliente criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Router /clients [post]
func (h *Handler) CreateClientHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	var input domain.ClientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	c, err := h.Service.CreateClient(r.Context(), p, input)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, c, nil, http.StatusCreated)
}

// ListClientsHandler lida com a requisição GET /v1/clients.
// @Summary Lista unificada de clientes e empresas registradas
// @Description Projeção etiquetada pela origem (admin_client | registered_company).
// @Tags clients
// @Produce json
// @Success 200 {array} domain.ClientView "Listagem unificada"
// @Router /clients [get]
func (h *Handler) ListClientsHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	views, err := h.Service.ListUnified(r.Context(), p)
	h.handleServiceResponse(w, r, views, err, http.StatusOK)
}

// GetClientHandler lida com a requisição GET /v1/clients/{id}.
// @Summary Obtém um cliente do admin logado
// @Tags clients
// @Produce json
// @Param id path string true "ID do cliente"
// @Success 200 {object} domain.Client "Cliente"
// @Failure 403 {object} domain.ErrorResponse "Cliente de outro administrador"
// @Router /clients/{id} [get]
func (h *Handler) GetClientHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	c, err := h.Service.GetClient(r.Context(), p, r.PathValue("id"))
	h.handleServiceResponse(w, r, c, err, http.StatusOK)
}

// UpdateClientHandler lida com a requisição PUT /v1/clients/{id}.
// @Summary Edita uma entrada da listagem unificada
// @Description Resolve primeiro a tabela de clientes, com fallback para empresas.
// @Tags clients
// @Accept json
// @Produce json
// @Param id path string true "ID do cliente ou empresa"
// @Param client body domain.ClientInput true "Dados de contato"
// @Success 200 {object} domain.ClientView "Entrada atualizada"
// @Failure 404 {object} domain.ErrorResponse "ID não existe em nenhuma das tabelas"
// @Router /clients/{id} [put]
func (h *Handler) UpdateClientHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	var input domain.ClientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	view, err := h.Service.UpdateUnified(r.Context(), p, r.PathValue("id"), input)
	h.handleServiceResponse(w, r, view, err, http.StatusOK)
}

// DeleteClientHandler lida com a requisição DELETE /v1/clients/{id}.
// @Summary Exclui um cliente do admin logado
// @Tags clients
// @Param id path string true "ID do cliente"
// @Success 204 "Cliente excluído"
// @Failure 403 {object} domain.ErrorResponse "Cliente de outro administrador"
// @Router /clients/{id} [delete]
func (h *Handler) DeleteClientHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	if err := h.Service.DeleteClient(r.Context(), p, r.PathValue("id")); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// --- Planos ---

// CreatePlanHandler lida com a requisição POST /v1/plans.
// @Summary Cadastra um plano comercial
// @Tags plans
// @Accept json
// @Produce json
// @Param plan body domain.PlanInput true "Dados do plano"
// @Success 201 {object} domain.Plan "Plano criado"
// @Router /plans [post]
func (h *Handler) CreatePlanHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.PlanInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	plan, err := h.Service.CreatePlan(r.Context(), input)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, plan, nil, http.StatusCreated)
}

// ListPlansHandler lida com a requisição GET /v1/plans.
// @Summary Lista todos os planos
// @Tags plans
// @Produce json
// @Success 200 {array} domain.Plan "Planos"
// @Router /plans [get]
func (h *Handler) ListPlansHandler(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Service.ListPlans(r.Context())
	h.handleServiceResponse(w, r, plans, err, http.StatusOK)
}

// UpdatePlanHandler lida com a requisição PUT /v1/plans/{id}.
// @Summary Edita um plano
// @Tags plans
// @Accept json
// @Produce json
// @Param id path string true "ID do plano"
// @Param plan body domain.PlanInput true "Dados do plano"
// @Success 200 {object} domain.Plan "Plano atualizado"
// @Failure 404 {object} domain.ErrorResponse "Plano não encontrado"
// @Router /plans/{id} [put]
func (h *Handler) UpdatePlanHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.PlanInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	plan, err := h.Service.UpdatePlan(r.Context(), r.PathValue("id"), input)
	h.handleServiceResponse(w, r, plan, err, http.StatusOK)
}

// DeletePlanHandler lida com a requisição DELETE /v1/plans/{id}.
// @Summary Exclui um plano sem compras
// @Description Bloqueado com a contagem de compras quando há compras associadas.
// @Tags plans
// @Param id path string true "ID do plano"
// @Success 204 "Plano excluído"
// @Failure 409 {object} domain.ErrorResponse "Plano com compras associadas"
// @Router /plans/{id} [delete]
func (h *Handler) DeletePlanHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeletePlan(r.Context(), r.PathValue("id")); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// --- Compras ---

// CreatePurchaseHandler lida com a requisição POST /v1/purchases.
// @Summary Registra a compra de um plano por um cliente
// @Tags purchases
// @Accept json
// @Produce json
// @Param purchase body domain.PurchaseInput true "Cliente e plano"
// @Success 201 {object} domain.Purchase "Compra registrada"
// @Failure 409 {object} domain.ErrorResponse "Plano inativo"
// @Router /purchases [post]
func (h *Handler) CreatePurchaseHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	var input domain.PurchaseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	purchase, err := h.Service.CreatePurchase(r.Context(), p, input)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, purchase, nil, http.StatusCreated)
}

// ListPurchasesHandler lida com a requisição GET /v1/clients/{id}/purchases.
// @Summary Lista as compras de um cliente do admin logado
// @Tags purchases
// @Produce json
// @Param id path string true "ID do cliente"
// @Success 200 {array} domain.Purchase "Compras"
// @Router /clients/{id}/purchases [get]
func (h *Handler) ListPurchasesHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	purchases, err := h.Service.ListPurchases(r.Context(), p, r.PathValue("id"))
	h.handleServiceResponse(w, r, purchases, err, http.StatusOK)
}

// DeletePurchaseHandler lida com a requisição DELETE /v1/purchases/{id}.
// @Summary Remove uma compra (rota de limpeza)
// @Tags purchases
// @Param id path string true "ID da compra"
// @Success 204 "Compra removida"
// @Router /purchases/{id} [delete]
func (h *Handler) DeletePurchaseHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	if err := h.Service.DeletePurchase(r.Context(), p, r.PathValue("id")); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}
