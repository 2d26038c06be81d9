package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		session := domain.NewSession(sessionID, "q1")
		session.Scopes["app"] = map[string]any{"score": 42, "name": "alice"}
		session.RestorePoint = map[string]map[string]any{"app": {"score": 0}}

		require.NoError(t, store.Save(ctx, session))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "q1", loaded.QuestionID)
		assert.Equal(t, "alice", loaded.Scopes["app"]["name"])
		// JSON backends turn ints into float64; only check presence.
		assert.NotNil(t, loaded.Scopes["app"]["score"])
		assert.Contains(t, loaded.RestorePoint, "app")
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		session := domain.NewSession(sessionID+"-iso", "q1")
		session.Scopes["app"] = map[string]any{"score": 1}
		require.NoError(t, store.Save(ctx, session))
		defer func() { _ = store.Delete(ctx, session.ID) }()

		session.Scopes["app"]["score"] = 99

		loaded, err := store.Load(ctx, session.ID)
		require.NoError(t, err)
		assert.NotEqual(t, 99, loaded.Scopes["app"]["score"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewSession(sessionID, "q1")))

		require.NoError(t, store.Delete(ctx, sessionID))

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, domain.NewSession(id1, "q1"))
		_ = store.Save(ctx, domain.NewSession(id2, "q1"))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
