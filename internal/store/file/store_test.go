package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"inboxpilot-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory.json")
	return NewFileStore(path), path
}

func TestLoadMissingFile(t *testing.T) {
	st, _ := newTestStore(t)

	messages, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestAppendPreservesOrder(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Append(ctx, []models.Message{models.NewMessage(models.RoleUser, "one")}))
	require.NoError(t, st.Append(ctx, []models.Message{
		models.NewMessage(models.RoleAssistant, "two"),
		models.NewMessage(models.RoleUser, "three"),
	}))

	messages, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "one", messages[0].Content)
	assert.Equal(t, models.RoleUser, messages[0].Role)
	assert.Equal(t, "two", messages[1].Content)
	assert.Equal(t, models.RoleAssistant, messages[1].Role)
	assert.Equal(t, "three", messages[2].Content)
}

func TestAppendEmptyIsNoop(t *testing.T) {
	st, path := newTestStore(t)

	require.NoError(t, st.Append(context.Background(), nil))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestHistorySurvivesRestart(t *testing.T) {
	st, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Append(ctx, []models.Message{
		models.NewMessage(models.RoleUser, "hello"),
		models.NewMessage(models.RoleAssistant, "hi there"),
	}))

	// A fresh instance over the same file sees the same history.
	reopened := NewFileStore(path)
	messages, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, "hi there", messages[1].Content)
}

func TestCorruptFileDegradesToEmpty(t *testing.T) {
	st, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	messages, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, messages)

	// The store recovers: appends replace the corrupt document.
	require.NoError(t, st.Append(ctx, []models.Message{models.NewMessage(models.RoleUser, "fresh start")}))
	messages, err = st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "fresh start", messages[0].Content)
}

func TestClearIsIdempotent(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Append(ctx, []models.Message{
		models.NewMessage(models.RoleUser, "one"),
		models.NewMessage(models.RoleAssistant, "two"),
	}))

	require.NoError(t, st.Clear(ctx))
	require.NoError(t, st.Clear(ctx))

	messages, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, messages)

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalMessages)
	assert.NotEmpty(t, stats.LastUpdated)
}

func TestStatsCountsByRole(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Append(ctx, []models.Message{
		models.NewMessage(models.RoleUser, "a"),
		models.NewMessage(models.RoleAssistant, "b"),
		models.NewMessage(models.RoleUser, "c"),
	}))

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalMessages)
	assert.Equal(t, 2, stats.UserMessages)
	assert.Equal(t, 1, stats.AssistantMessages)
	assert.NotEmpty(t, stats.LastUpdated)
}
