package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"govagas/internal/domain"
	"govagas/internal/pkg/session"
)

// TestMemoryStore_Lifecycle testa criar, buscar e destruir sessões.
func TestMemoryStore_Lifecycle(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	ctx := context.Background()

	sess, err := store.Create(ctx, "op-1", domain.KindOperator)
	assert.NoError(t, err)
	assert.NotEmpty(t, sess.ID)

	got, err := store.Get(ctx, sess.ID)
	assert.NoError(t, err)
	assert.Equal(t, "op-1", got.ActorID)
	assert.Equal(t, domain.KindOperator, got.Kind)

	assert.NoError(t, store.Destroy(ctx, sess.ID))

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

// TestMemoryStore_UnknownID testa o erro para id inexistente.
func TestMemoryStore_UnknownID(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)

	_, err := store.Get(context.Background(), "nao-existe")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

// TestMemoryStore_LazyExpiration testa a expiração preguiçosa por TTL.
func TestMemoryStore_LazyExpiration(t *testing.T) {
	store := session.NewMemoryStore(time.Nanosecond)
	ctx := context.Background()

	sess, err := store.Create(ctx, "op-1", domain.KindOperator)
	assert.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}
