package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/logger"
	"govagas/internal/pkg/middleware"
	"govagas/internal/pkg/session"
)

// AuthService define o contrato que o Handler espera da camada de Serviço.
type AuthService interface {
	RegisterOperator(ctx context.Context, reg domain.OperatorRegistration) (domain.Operator, session.Session, error)
	RegisterCompany(ctx context.Context, reg domain.CompanyRegistration) (domain.Company, session.Session, error)
	Login(ctx context.Context, kind domain.ActorKind, email, password string) (interface{}, session.Session, error)
	Logout(ctx context.Context, sessionID string) error
	GetProfile(ctx context.Context, p domain.Principal) (interface{}, error)
	UpdateProfile(ctx context.Context, p domain.Principal, update domain.ProfileUpdate) (interface{}, error)
	AddExperience(ctx context.Context, p domain.Principal, input domain.ExperienceInput) (domain.Experience, error)
	ListExperiences(ctx context.Context, p domain.Principal) ([]domain.Experience, error)
	DeleteExperience(ctx context.Context, p domain.Principal, id string) error
	RequestPasswordReset(ctx context.Context, kind domain.ActorKind, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	ListOperators(ctx context.Context) ([]domain.Operator, error)
	ListCompanies(ctx context.Context) ([]domain.Company, error)
}

// Handler agrupa todos os métodos de Handler de autenticação e perfil.
type Handler struct {
	Service    AuthService
	Logger     logger.Logger
	SessionTTL time.Duration
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc AuthService, log logger.Logger, sessionTTL time.Duration) *Handler {
	return &Handler{Service: svc, Logger: log, SessionTTL: sessionTTL}
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

// RegisterOperatorHandler lida com a requisição POST /v1/operators/register.
// @Summary Registra um novo operador
// @Description Cria a conta do operador e estabelece a sessão via cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body domain.OperatorRegistration true "Dados de registro"
// @Success 201 {object} domain.Operator "Operador criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "E-mail ou CPF já cadastrado"
// @Router /operators/register [post]
func (h *Handler) RegisterOperatorHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.OperatorRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	op, sess, err := h.Service.RegisterOperator(r.Context(), reg)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	session.WriteCookie(w, sess, h.SessionTTL)
	h.handleServiceResponse(w, r, op, nil, http.StatusCreated)
}

// RegisterCompanyHandler lida com a requisição POST /v1/companies/register.
// @Summary Registra uma nova empresa
// @Description Cria a conta da empresa e estabelece a sessão via cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body domain.CompanyRegistration true "Dados de registro"
// @Success 201 {object} domain.Company "Empresa criada com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "E-mail ou CNPJ já cadastrado"
// @Router /companies/register [post]
func (h *Handler) RegisterCompanyHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.CompanyRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	c, sess, err := h.Service.RegisterCompany(r.Context(), reg)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	session.WriteCookie(w, sess, h.SessionTTL)
	h.handleServiceResponse(w, r, c, nil, http.StatusCreated)
}

type loginPayload struct {
	Kind     domain.ActorKind `json:"kind"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
}

// LoginHandler lida com a requisição POST /v1/auth/login.
// @Summary Autentica um ator
// @Description Autentica operador, empresa ou admin e estabelece a sessão via cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginPayload true "Credenciais"
// @Success 200 {object} interface{} "Conta autenticada"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Router /auth/login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	account, sess, err := h.Service.Login(r.Context(), payload.Kind, payload.Email, payload.Password)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	session.WriteCookie(w, sess, h.SessionTTL)
	h.handleServiceResponse(w, r, account, nil, http.StatusOK)
}

// LogoutHandler lida com a requisição POST /v1/auth/logout.
// @Summary Encerra a sessão
// @Tags auth
// @Success 204 "Sessão encerrada"
// @Router /auth/logout [post]
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Sessão ausente."), http.StatusOK)
		return
	}

	if err := h.Service.Logout(r.Context(), sess.ID); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	session.ClearCookie(w)
	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// GetProfileHandler lida com a requisição GET /v1/profile.
// @Summary Retorna o perfil do ator logado
// @Tags profile
// @Produce json
// @Success 200 {object} interface{} "Perfil"
// @Failure 401 {object} domain.ErrorResponse "Não autenticado"
// @Router /profile [get]
func (h *Handler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	profile, err := h.Service.GetProfile(r.Context(), p)
	h.handleServiceResponse(w, r, profile, err, http.StatusOK)
}

// UpdateProfileHandler lida com a requisição PUT /v1/profile.
// @Summary Atualiza o perfil do ator logado
// @Description Atualização parcial; campos de identidade são ignorados.
// @Tags profile
// @Accept json
// @Produce json
// @Param profile body domain.ProfileUpdate true "Campos a atualizar"
// @Success 200 {object} interface{} "Perfil atualizado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Router /profile [put]
func (h *Handler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	var update domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	profile, err := h.Service.UpdateProfile(r.Context(), p, update)
	h.handleServiceResponse(w, r, profile, err, http.StatusOK)
}

// AddExperienceHandler lida com a requisição POST /v1/profile/experiences.
// @Summary Adiciona uma experiência profissional
// @Tags profile
// @Accept json
// @Produce json
// @Param experience body domain.ExperienceInput true "Dados da experiência"
// @Success 201 {object} domain.Experience "Experiência criada"
// @Failure 403 {object} domain.ErrorResponse "Apenas operadores"
// @Router /profile/experiences [post]
func (h *Handler) AddExperienceHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	var input domain.ExperienceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	exp, err := h.Service.AddExperience(r.Context(), p, input)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, exp, nil, http.StatusCreated)
}

// ListExperiencesHandler lida com a requisição GET /v1/profile/experiences.
// @Summary Lista as experiências do operador logado
// @Tags profile
// @Produce json
// @Success 200 {array} domain.Experience "Experiências"
// @Router /profile/experiences [get]
func (h *Handler) ListExperiencesHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	exps, err := h.Service.ListExperiences(r.Context(), p)
	h.handleServiceResponse(w, r, exps, err, http.StatusOK)
}

// DeleteExperienceHandler lida com a requisição DELETE /v1/profile/experiences/{id}.
// @Summary Exclui uma experiência do operador logado
// @Tags profile
// @Param id path string true "ID da experiência"
// @Success 204 "Experiência excluída"
// @Failure 403 {object} domain.ErrorResponse "Experiência de outro operador"
// @Router /profile/experiences/{id} [delete]
func (h *Handler) DeleteExperienceHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	id := r.PathValue("id")

	if err := h.Service.DeleteExperience(r.Context(), p, id); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

type resetRequestPayload struct {
	Kind  domain.ActorKind `json:"kind"`
	Email string           `json:"email"`
}

// RequestPasswordResetHandler lida com a requisição POST /v1/auth/password-reset/request.
// @Summary Solicita a redefinição de senha
// @Description Resposta sempre neutra: não revela se o e-mail existe.
// @Tags auth
// @Accept json
// @Success 202 "Solicitação registrada"
// @Router /auth/password-reset/request [post]
func (h *Handler) RequestPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	var payload resetRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	if err := h.Service.RequestPasswordReset(r.Context(), payload.Kind, payload.Email); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, map[string]string{"message": "Se o e-mail existir, as instruções foram enviadas."}, nil, http.StatusAccepted)
}

type resetConfirmPayload struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ConfirmPasswordResetHandler lida com a requisição POST /v1/auth/password-reset/confirm.
// @Summary Confirma a redefinição de senha
// @Tags auth
// @Accept json
// @Success 204 "Senha redefinida"
// @Failure 401 {object} domain.ErrorResponse "Token inválido ou expirado"
// @Router /auth/password-reset/confirm [post]
func (h *Handler) ConfirmPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	var payload resetConfirmPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	if err := h.Service.ConfirmPasswordReset(r.Context(), payload.Token, payload.Password); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// ListOperatorsHandler lida com a requisição GET /v1/admin/operators.
// @Summary Lista todos os operadores (painel do admin)
// @Tags admin
// @Produce json
// @Success 200 {array} domain.Operator
// @Router /admin/operators [get]
func (h *Handler) ListOperatorsHandler(w http.ResponseWriter, r *http.Request) {
	ops, err := h.Service.ListOperators(r.Context())
	h.handleServiceResponse(w, r, ops, err, http.StatusOK)
}

// ListCompaniesHandler lida com a requisição GET /v1/admin/companies.
// @Summary Lista todas as empresas registradas (painel do admin)
// @Tags admin
// @Produce json
// @Success 200 {array} domain.Company
// @Router /admin/companies [get]
func (h *Handler) ListCompaniesHandler(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Service.ListCompanies(r.Context())
	h.handleServiceResponse(w, r, companies, err, http.StatusOK)
}
