package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	return NewStore(path, zap.NewNop())
}

func TestSetAuthPersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s := NewStore(path, zap.NewNop())
	require.NoError(t, s.SetAuth("tok-123", "alice"))

	reloaded := NewStore(path, zap.NewNop())
	assert.Equal(t, "tok-123", reloaded.Token())
	assert.Equal(t, "alice", reloaded.Username())
	assert.True(t, reloaded.Authenticated())
}

func TestClearRemovesPersistedSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := NewStore(path, zap.NewNop())
	require.NoError(t, s.SetAuth("tok-123", "alice"))
	require.NoError(t, s.Clear())

	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Username())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	reloaded := NewStore(path, zap.NewNop())
	assert.False(t, reloaded.Authenticated())
}

func TestClearWithoutSessionFile(t *testing.T) {
	s := testStore(t)
	assert.NoError(t, s.Clear())
}

func TestAuthHeader(t *testing.T) {
	s := testStore(t)

	assert.Empty(t, s.AuthHeader())

	require.NoError(t, s.SetAuth("tok-123", "alice"))
	headers := s.AuthHeader()
	require.Len(t, headers, 1)
	assert.Equal(t, "Bearer tok-123", headers["Authorization"])
}

func TestCorruptSessionFileIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := NewStore(path, zap.NewNop())
	assert.False(t, s.Authenticated())
}

func TestNavState(t *testing.T) {
	s := testStore(t)

	anon := s.NavState()
	assert.True(t, anon.ShowLogin)
	assert.True(t, anon.ShowRegister)
	assert.False(t, anon.ShowLogout)
	assert.False(t, anon.ShowOrders)

	require.NoError(t, s.SetAuth("tok-123", "alice"))
	authed := s.NavState()
	assert.False(t, authed.ShowLogin)
	assert.False(t, authed.ShowRegister)
	assert.True(t, authed.ShowLogout)
	assert.True(t, authed.ShowOrders)
}
