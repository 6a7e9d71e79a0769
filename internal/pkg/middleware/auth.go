package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/session"
)

// ContextKey é o tipo das chaves de contexto deste pacote. Um tipo
// próprio evita colisão com chaves string de outros pacotes.
type ContextKey int

const (
	PrincipalKey ContextKey = iota
	SessionKey
)

// ActorFinder verifica se o ator referenciado por uma sessão ainda
// existe. Implementado pelo serviço de autenticação.
type ActorFinder interface {
	ActorExists(ctx context.Context, kind domain.ActorKind, actorID string) (bool, error)
}

// writeError padroniza o corpo de erro dos middlewares no mesmo formato
// dos handlers.
func writeError(w http.ResponseWriter, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}

// RequireSession autentica pela sessão: lê o cookie, carrega a sessão do
// Store, confirma que o ator referenciado ainda existe (destruindo a
// sessão órfã — autocura) e anexa o Principal ao contexto.
func RequireSession(store session.Store, finder ActorFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessID := session.ReadCookie(r)
			if sessID == "" {
				writeError(w, apperror.NewUnauthorizedError("Sessão ausente. Faça login."))
				return
			}

			sess, err := store.Get(r.Context(), sessID)
			if err != nil {
				writeError(w, apperror.NewUnauthorizedError("Sessão inválida ou expirada."))
				return
			}

			exists, err := finder.ActorExists(r.Context(), sess.Kind, sess.ActorID)
			if err != nil {
				writeError(w, apperror.NewInternalError("Falha ao verificar a sessão.", err))
				return
			}
			if !exists {
				// Sessão apontando para ator excluído: destruir e negar.
				_ = store.Destroy(r.Context(), sessID)
				session.ClearCookie(w)
				writeError(w, apperror.NewUnauthorizedError("Sessão inválida ou expirada."))
				return
			}

			principal := domain.Principal{ActorID: sess.ActorID, Kind: sess.Kind}
			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			ctx = context.WithValue(ctx, SessionKey, sess)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireKind nega com 403 quando o tipo do principal não está entre os
// permitidos pela rota. Deve ser aplicado após RequireSession.
func RequireKind(kinds ...domain.ActorKind) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, apperror.NewUnauthorizedError("Sessão não processada."))
				return
			}

			for _, k := range kinds {
				if principal.Kind == k {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, apperror.NewForbiddenError("Você não tem a permissão necessária."))
		})
	}
}

// PrincipalFromContext extrai o principal anexado por RequireSession.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(domain.Principal)
	return p, ok
}

// SessionFromContext extrai a sessão anexada por RequireSession.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(SessionKey).(session.Session)
	return s, ok
}
