package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checklist/internal/todo"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.toml")

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err, "expected config file to be created")
	assert.Equal(t, filepath.Join(dir, "sub", DefaultDBName), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "sub", DefaultLogFileName), cfg.Log.File)
	assert.Equal(t, todo.FilterAll, cfg.Filter())
	assert.Equal(t, "a", cfg.Keys.Add)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreateOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
db_path = "/data/list.db"
default_filter = "active"

[log]
level = "debug"

[keys]
add = "n"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/list.db", cfg.DBPath)
	assert.Equal(t, todo.FilterActive, cfg.Filter())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "n", cfg.Keys.Add)
	assert.Equal(t, "q", cfg.Keys.Quit, "unset keys keep their defaults")
}

func TestLoadOrCreateBlankDBPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`db_path = ""`), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultDBName), cfg.DBPath)
}

func TestLoadOrCreateRejectsBadFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`default_filter = "someday"`), 0o644))

	_, err := LoadOrCreate(path)
	assert.ErrorIs(t, err, todo.ErrUnknownFilter)
}

func TestLoadOrCreateRejectsEmptyKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[keys]\ndelete = \"\"\n"), 0o644))

	_, err := LoadOrCreate(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keys.delete")
}

func TestLoadOrCreateMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("db_path = ["), 0o644))

	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestResolveConfigPathFromEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom.toml")
	assert.Equal(t, "/tmp/custom.toml", ResolveConfigPath())
}
