package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/jsonview/pkg/adapters/memory"
	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/aretw0/jsonview/pkg/persistence/middleware"
	"github.com/aretw0/jsonview/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(b byte) []byte {
	return bytes.Repeat([]byte{b}, 32)
}

func secretSession() *domain.Session {
	sess := domain.NewSession("s1", "quiz")
	sess.Scopes["app"] = map[string]any{"answer": "top secret", "score": 3}
	return sess
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	ctx := context.Background()
	raw := NewMockStore()
	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key(1)})
	require.NoError(t, err)
	store := mw(raw)

	require.NoError(t, store.Save(ctx, secretSession()))

	envelope := raw.data["s1"]
	assert.Equal(t, "quiz", envelope.QuestionID)
	assert.NotContains(t, envelope.Scopes, "app")
	b, _ := json.Marshal(envelope)
	assert.NotContains(t, string(b), "top secret")

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "top secret", loaded.Scopes["app"]["answer"])

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)
	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key(7)})
	require.NoError(t, err)
	ports.RunSessionStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	ctx := context.Background()
	raw := NewMockStore()

	oldMW, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key(1)})
	require.NoError(t, err)
	require.NoError(t, oldMW(raw).Save(ctx, secretSession()))

	rotated, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    key(2),
		FallbackKeys: [][]byte{key(1)},
	})
	require.NoError(t, err)
	loaded, err := rotated(raw).Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "top secret", loaded.Scopes["app"]["answer"])

	wrong, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key(3)})
	require.NoError(t, err)
	_, err = wrong(raw).Load(ctx, "s1")
	assert.ErrorContains(t, err, "failed to decrypt session")
}

func TestEncryptionMiddleware_PlainSessionRejected(t *testing.T) {
	ctx := context.Background()
	raw := NewMockStore()
	require.NoError(t, raw.Save(ctx, secretSession()))

	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key(1)})
	require.NoError(t, err)
	_, err = mw(raw).Load(ctx, "s1")
	assert.ErrorContains(t, err, "missing encrypted data envelope")
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.ErrorIs(t, err, middleware.ErrKeySize)
}
