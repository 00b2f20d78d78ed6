package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checklist/internal/storage"
	"checklist/internal/todo"
)

func execute(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(append([]string{"--config", configPath}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

// listBody drops the trailing "saved ..." line and returns it separately.
func listBody(out string) (body, saved string) {
	before, after, found := strings.Cut(out, "\nsaved ")
	if !found {
		return out, ""
	}
	return before + "\n", strings.TrimSpace(after)
}

func TestAddListClearCompleted(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	out, err := execute(t, cfgPath, "add", "buy", "milk")
	require.NoError(t, err)
	assert.Equal(t, "added \"buy milk\"\n", out)

	_, err = execute(t, cfgPath, "add", "walk dog")
	require.NoError(t, err)

	out, err = execute(t, cfgPath, "list")
	require.NoError(t, err)
	body, saved := listBody(out)
	assert.Equal(t, "[ ] buy milk\n[ ] walk dog\n2 left\n", body)
	_, err = time.ParseInLocation(time.DateTime, saved, time.Local)
	assert.NoError(t, err)

	// Mark the first item done directly through storage.
	store, err := storage.Open(filepath.Join(filepath.Dir(cfgPath), "todo.db"))
	require.NoError(t, err)
	items, err := todo.Load(context.Background(), store)
	require.NoError(t, err)
	items[0].Complete = true
	data, err := todo.Encode(items)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), todo.StorageKey, string(data)))
	require.NoError(t, store.Close())

	out, err = execute(t, cfgPath, "list", "--filter", "completed")
	require.NoError(t, err)
	body, _ = listBody(out)
	assert.Equal(t, "[x] buy milk\n1 left\n", body)

	out, err = execute(t, cfgPath, "clear-completed")
	require.NoError(t, err)
	assert.Equal(t, "removed 1\n", out)

	out, err = execute(t, cfgPath, "list")
	require.NoError(t, err)
	body, _ = listBody(out)
	assert.Equal(t, "[ ] walk dog\n1 left\n", body)
}

func TestListOnFreshStoreHasNoSavedLine(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	out, err := execute(t, cfgPath, "list")
	require.NoError(t, err)
	assert.Equal(t, "0 left\n", out)
}

func TestDBFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	dbPath := filepath.Join(dir, "other", "list.db")

	_, err := execute(t, cfgPath, "--db", dbPath, "add", "x")
	require.NoError(t, err)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestListRejectsUnknownFilter(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	_, err := execute(t, cfgPath, "list", "--filter", "someday")
	assert.ErrorIs(t, err, todo.ErrUnknownFilter)
}

func TestCorruptListIsNotOverwritten(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	store, err := storage.Open(filepath.Join(dir, "todo.db"))
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), todo.StorageKey, "{broken"))
	require.NoError(t, store.Close())

	_, err = execute(t, cfgPath, "add", "x")
	assert.ErrorIs(t, err, todo.ErrCorruptList)

	store, err = storage.Open(filepath.Join(dir, "todo.db"))
	require.NoError(t, err)
	defer store.Close()
	raw, _, err := store.Get(context.Background(), todo.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, "{broken", raw)
}

func TestBadLogLevel(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	_, err := execute(t, cfgPath, "--log-level", "loud", "list")
	assert.Error(t, err)
}
