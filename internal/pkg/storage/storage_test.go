package storage_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	apperror "govagas/internal/errors"
	"govagas/internal/pkg/logger"
	"govagas/internal/pkg/storage"
)

// TestSetACLPolicy_RetryUntilSuccess testa que a propagação eventual da
// ACL é tolerada: as duas primeiras tentativas falham, a terceira passa.
func TestSetACLPolicy_RetryUntilSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := storage.NewHTTPStore(srv.URL, logger.NewLogger("debug"))

	err := store.SetACLPolicy(context.Background(), "resumes/op-1.pdf", storage.ACLPolicy{
		Owner: "op-1", Visibility: "private",
	})

	assert.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

// TestSetACLPolicy_ExhaustsAttempts testa o erro externo após três falhas.
func TestSetACLPolicy_ExhaustsAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := storage.NewHTTPStore(srv.URL, logger.NewLogger("debug"))

	err := store.SetACLPolicy(context.Background(), "resumes/op-1.pdf", storage.ACLPolicy{
		Owner: "op-1", Visibility: "private",
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ExternalError{}, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

// TestGetUploadURL testa a solicitação de URL pré-assinada ao sidecar.
func TestGetUploadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/object-storage/signed-url", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"upload_url": "https://bucket.example/presigned/abc"}`))
	}))
	defer srv.Close()

	store := storage.NewHTTPStore(srv.URL, logger.NewLogger("debug"))

	url, err := store.GetUploadURL(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "https://bucket.example/presigned/abc", url)
}

// TestGetFileByPath_NotFound testa o mapeamento de 404 do sidecar.
func TestGetFileByPath_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	store := storage.NewHTTPStore(srv.URL, logger.NewLogger("debug"))

	_, err := store.GetFileByPath(context.Background(), "resumes/nao-existe.pdf")

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}
