package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/great-escape/internal/game"
)

type failingStore struct{ err error }

func (f failingStore) SaveState(context.Context, *game.State) error   { return f.err }
func (f failingStore) LoadState(context.Context) (*game.State, error) { return nil, f.err }
func (f failingStore) AppendAudit(context.Context, string) error      { return f.err }

func TestMultiStore_SaveContinuesAfterError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	file, _, _ := newTestFileStore(t)
	multi := MultiStore{failingStore{err: boom}, file}

	err := multi.SaveState(context.Background(), stateWithPlayer("c1", 1))
	assert.ErrorIs(t, err, boom)

	loaded, err := file.LoadState(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, loaded)
}

func TestMultiStore_LoadFirstAvailable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	empty, _, _ := newTestFileStore(t)
	full, _, _ := newTestFileStore(t)
	require.NoError(t, full.SaveState(ctx, stateWithPlayer("c9", 9)))

	multi := MultiStore{failingStore{err: errors.New("down")}, empty, full}
	loaded, err := multi.LoadState(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 9, loaded.Players["c9"].Pos)
}

func TestMultiStore_LoadNothing(t *testing.T) {
	t.Parallel()

	empty, _, _ := newTestFileStore(t)
	loaded, err := MultiStore{empty}.LoadState(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFileAuditLog_Append(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "admin-actions.log")
	audit := NewFileAuditLog(path)
	audit.now = func() time.Time { return time.Date(2024, 3, 5, 10, 4, 5, 123_000_000, time.FixedZone("X", 3600)) }

	ctx := context.Background()
	require.NoError(t, audit.AppendAudit(ctx, "JOIN c1 as player"))
	require.NoError(t, audit.AppendAudit(ctx, "ADMIN c2 reset game"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	assert.Equal(t, []string{
		"[2024-03-05T09:04:05.123Z] JOIN c1 as player",
		"[2024-03-05T09:04:05.123Z] ADMIN c2 reset game",
	}, lines)
}

func TestMultiAudit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audit.log")
	boom := errors.New("boom")
	multi := MultiAudit{failingStore{err: boom}, NewFileAuditLog(path)}

	err := multi.AppendAudit(context.Background(), "DISCONNECT c1 (player)")
	assert.ErrorIs(t, err, boom)
	assert.FileExists(t, path)
}
