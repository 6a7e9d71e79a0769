package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/logger"
	"govagas/internal/pkg/middleware"
)

// UploadService define o contrato que o Handler espera da camada de Serviço.
type UploadService interface {
	GetUploadURL(ctx context.Context) (string, error)
	ConfirmResume(ctx context.Context, p domain.Principal, objectPath string) error
	ConfirmLogo(ctx context.Context, p domain.Principal, objectPath string) error
	DownloadResume(ctx context.Context, p domain.Principal, operatorID string) (io.ReadCloser, error)
}

// Handler agrupa os métodos de Handler de upload de arquivos.
type Handler struct {
	Service UploadService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UploadService, log logger.Logger) *Handler {
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

// GetUploadURLHandler lida com a requisição POST /v1/uploads/url.
// @Summary Obtém uma URL pré-assinada de upload
// @Description Primeira fase do upload em duas fases.
// @Tags uploads
// @Produce json
// @Success 200 {object} map[string]string "URL de upload"
// @Router /uploads/url [post]
func (h *Handler) GetUploadURLHandler(w http.ResponseWriter, r *http.Request) {
	url, err := h.Service.GetUploadURL(r.Context())
	h.handleServiceResponse(w, r, map[string]string{"upload_url": url}, err, http.StatusOK)
}

type confirmPayload struct {
	Path string `json:"path"`
}

// ConfirmResumeHandler lida com a requisição POST /v1/uploads/resume.
// @Summary Confirma o upload do currículo do operador logado
// @Description Fixa a ACL privada e grava o caminho no perfil.
// @Tags uploads
// @Accept json
// @Success 204 "Currículo confirmado"
// @Failure 502 {object} domain.ErrorResponse "Falha ao fixar a ACL"
// @Router /uploads/resume [post]
func (h *Handler) ConfirmResumeHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	var payload confirmPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	if err := h.Service.ConfirmResume(r.Context(), p, payload.Path); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// ConfirmLogoHandler lida com a requisição POST /v1/uploads/logo.
// @Summary Confirma o upload do logotipo da empresa logada
// @Description Fixa a ACL pública e grava o caminho no perfil.
// @Tags uploads
// @Accept json
// @Success 204 "Logotipo confirmado"
// @Failure 502 {object} domain.ErrorResponse "Falha ao fixar a ACL"
// @Router /uploads/logo [post]
func (h *Handler) ConfirmLogoHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	var payload confirmPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	if err := h.Service.ConfirmLogo(r.Context(), p, payload.Path); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// DownloadResumeHandler lida com a requisição GET /v1/operators/{id}/resume.
// @Summary Baixa o currículo de um operador
// @Description Acessível ao próprio operador e aos avaliadores de candidaturas.
// @Tags uploads
// @Produce application/octet-stream
// @Param id path string true "ID do operador"
// @Success 200 {file} binary "Conteúdo do currículo"
// @Failure 404 {object} domain.ErrorResponse "Currículo não enviado"
// @Router /operators/{id}/resume [get]
func (h *Handler) DownloadResumeHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	body, err := h.Service.DownloadResume(r.Context(), p, r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.Logger.Error("Falha ao transmitir o currículo", err)
	}
}
