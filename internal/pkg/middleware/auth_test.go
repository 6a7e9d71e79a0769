package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"govagas/internal/domain"
	"govagas/internal/pkg/middleware"
	"govagas/internal/pkg/session"
)

// fakeFinder responde se um ator existe a partir de um mapa fixo.
type fakeFinder struct {
	existing map[string]bool
}

func (f *fakeFinder) ActorExists(ctx context.Context, kind domain.ActorKind, actorID string) (bool, error) {
	return f.existing[actorID], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithSession(sessID string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	if sessID != "" {
		r.AddCookie(&http.Cookie{Name: session.CookieName, Value: sessID})
	}
	return r
}

// TestRequireSession_MissingCookie testa a negação sem cookie.
func TestRequireSession_MissingCookie(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	handler := middleware.RequireSession(store, &fakeFinder{})(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithSession(""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestRequireSession_ValidSession testa a passagem com o principal no contexto.
func TestRequireSession_ValidSession(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess, _ := store.Create(context.Background(), "op-1", domain.KindOperator)

	var seen domain.Principal
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = middleware.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.RequireSession(store, &fakeFinder{existing: map[string]bool{"op-1": true}})(inner)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithSession(sess.ID))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "op-1", seen.ActorID)
	assert.Equal(t, domain.KindOperator, seen.Kind)
}

// TestRequireSession_SelfHealing testa a autocura: sessão apontando para
// ator excluído é destruída no acesso e a requisição negada.
func TestRequireSession_SelfHealing(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess, _ := store.Create(context.Background(), "op-1", domain.KindOperator)

	// O ator não existe mais no banco.
	handler := middleware.RequireSession(store, &fakeFinder{existing: map[string]bool{}})(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithSession(sess.ID))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A sessão órfã foi removida do store.
	_, err := store.Get(context.Background(), sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

// TestRequireKind testa o filtro de tipo aplicado após a sessão.
func TestRequireKind(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess, _ := store.Create(context.Background(), "op-1", domain.KindOperator)
	finder := &fakeFinder{existing: map[string]bool{"op-1": true}}

	adminOnly := middleware.RequireSession(store, finder)(middleware.RequireKind(domain.KindAdmin)(okHandler()))
	operatorOK := middleware.RequireSession(store, finder)(middleware.RequireKind(domain.KindOperator, domain.KindAdmin)(okHandler()))

	rec := httptest.NewRecorder()
	adminOnly.ServeHTTP(rec, requestWithSession(sess.ID))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	operatorOK.ServeHTTP(rec, requestWithSession(sess.ID))
	assert.Equal(t, http.StatusOK, rec.Code)
}
