package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"govagas/internal/domain"
	"govagas/internal/pkg/cache"
)

// CookieName é o nome do cookie que transporta o id opaco da sessão.
const CookieName = "govagas_session"

// ErrNotFound é retornado quando o id de sessão não existe (expirada,
// destruída no logout ou nunca criada).
var ErrNotFound = errors.New("sessão não encontrada")

// Session é o vínculo efêmero entre um id opaco e um ator (id + tipo).
// Criada no login/registro, destruída no logout; destruída também de
// forma preguiçosa quando o ator referenciado deixa de existir.
type Session struct {
	ID        string           `json:"id"`
	ActorID   string           `json:"actor_id"`
	Kind      domain.ActorKind `json:"kind"`
	CreatedAt time.Time        `json:"created_at"`
}

// Store define o contrato do armazenamento de sessões do lado servidor.
type Store interface {
	Create(ctx context.Context, actorID string, kind domain.ActorKind) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Destroy(ctx context.Context, id string) error
}

// --- Implementação Redis ---

// RedisStore guarda sessões serializadas no Redis com TTL.
type RedisStore struct {
	cache cache.Client
	ttl   time.Duration
}

// NewRedisStore cria um Store sobre o cliente Redis da aplicação.
func NewRedisStore(c cache.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

func sessionKey(id string) string { return "session:" + id }

func (s *RedisStore) Create(ctx context.Context, actorID string, kind domain.ActorKind) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		ActorID:   actorID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return Session{}, err
	}
	if err := s.cache.Set(ctx, sessionKey(sess.ID), payload, s.ttl); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	raw, err := s.cache.Get(ctx, sessionKey(id))
	if err == cache.ErrCacheMiss {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, sessionKey(id))
}

// --- Transporte via cookie ---

// WriteCookie grava o cookie de sessão na resposta.
func WriteCookie(w http.ResponseWriter, sess Session, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
	})
}

// ClearCookie expira o cookie de sessão (logout).
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// ReadCookie extrai o id de sessão da requisição; vazio quando ausente.
func ReadCookie(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
