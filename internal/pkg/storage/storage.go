package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperror "govagas/internal/errors"
	"govagas/internal/pkg/logger"
)

// ACLPolicy descreve a política de acesso de um objeto recém-enviado.
type ACLPolicy struct {
	Owner      string `json:"owner"`
	Visibility string `json:"visibility"` // "public" | "private"
}

// ObjectStore define o contrato do colaborador de object storage.
// O upload é em duas fases: o cliente obtém uma URL pré-assinada, envia
// o arquivo diretamente e em seguida a aplicação fixa a ACL do objeto.
// A propagação da ACL é eventualmente consistente: SetACLPolicy é a
// única chamada externa com retry.
type ObjectStore interface {
	GetUploadURL(ctx context.Context) (string, error)
	SetACLPolicy(ctx context.Context, objectPath string, policy ACLPolicy) error
	GetFileByPath(ctx context.Context, path string) (io.ReadCloser, error)
}

// Parâmetros do retry da ACL: 3 tentativas espaçadas de 1 segundo.
const (
	aclMaxAttempts = 3
	aclRetryDelay  = time.Second
)

// HTTPStore implementa ObjectStore contra o sidecar de assinatura de
// URLs configurado em STORAGE_BASE_URL.
type HTTPStore struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

// NewHTTPStore cria o colaborador de object storage.
func NewHTTPStore(baseURL string, log logger.Logger) *HTTPStore {
	return &HTTPStore{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  log,
	}
}

// GetUploadURL solicita uma URL pré-assinada de upload ao sidecar.
func (s *HTTPStore) GetUploadURL(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/object-storage/signed-url", nil)
	if err != nil {
		return "", apperror.NewInternalError("Falha ao montar requisição de upload.", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", apperror.NewExternalError("Object storage indisponível.", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperror.NewExternalError(fmt.Sprintf("Object storage respondeu %d ao pedir URL de upload.", resp.StatusCode), nil)
	}

	var body struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", apperror.NewExternalError("Resposta inválida do object storage.", err)
	}
	return body.UploadURL, nil
}

// SetACLPolicy fixa a política de acesso do objeto após o upload.
// O object store propaga ACLs de forma eventualmente consistente, então
// a chamada é repetida até 3 vezes com 1 segundo de espaçamento.
func (s *HTTPStore) SetACLPolicy(ctx context.Context, objectPath string, policy ACLPolicy) error {
	payload, err := json.Marshal(map[string]interface{}{
		"path":   objectPath,
		"policy": policy,
	})
	if err != nil {
		return apperror.NewInternalError("Falha ao serializar política de ACL.", err)
	}

	var lastErr error
	for attempt := 1; attempt <= aclMaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = s.putACL(ctx, payload)
		if lastErr == nil {
			return nil
		}

		if attempt < aclMaxAttempts {
			s.logger.Warn("Falha ao fixar ACL; tentando novamente.", map[string]interface{}{
				"attempt": attempt,
				"path":    objectPath,
				"error":   lastErr.Error(),
			})
			time.Sleep(aclRetryDelay)
		}
	}

	return apperror.NewExternalError(
		fmt.Sprintf("Falha ao fixar ACL do objeto após %d tentativas.", aclMaxAttempts), lastErr)
}

func (s *HTTPStore) putACL(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.baseURL+"/object-storage/acl", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("object storage respondeu %d", resp.StatusCode)
	}
	return nil
}

// GetFileByPath baixa um objeto pelo caminho. O chamador fecha o reader.
func (s *HTTPStore) GetFileByPath(ctx context.Context, path string) (io.ReadCloser, error) {
	u := s.baseURL + "/object-storage/object?path=" + url.QueryEscape(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apperror.NewInternalError("Falha ao montar requisição de download.", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperror.NewExternalError("Object storage indisponível.", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Objeto '%s' não existe.", path))
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, apperror.NewExternalError(fmt.Sprintf("Object storage respondeu %d.", resp.StatusCode), nil)
	}

	return resp.Body, nil
}
