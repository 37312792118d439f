package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMergesOverDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
common:
  http:
    port: 9090
  store:
    backend: sqlite
  sqlite:
    path: /tmp/users.db
  users:
    delete_grace_period: 90s
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Common.Http.Port)
	assert.Equal(t, "0.0.0.0", cfg.Common.Http.Host)
	assert.Equal(t, BackendSQLite, cfg.Common.Store.Backend)
	assert.Equal(t, "/tmp/users.db", cfg.Common.SQLite.Path)
	assert.Equal(t, 90*time.Second, cfg.Common.Users.DeleteGracePeriod)
	assert.Equal(t, "json", cfg.Common.Log.Format)
}

func TestParseRejectsUnknownBackend(t *testing.T) {
	_, err := Parse([]byte("common:\n  store:\n    backend: firestore\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store backend")
}

func TestParseRequiresNeo4jURI(t *testing.T) {
	_, err := Parse([]byte("common:\n  store:\n    backend: neo4j\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neo4j.uri")
}

func TestApplyEnvOverrides(t *testing.T) {
	LoadDefault()
	t.Setenv("USERDIR_HTTP_PORT", "7070")
	t.Setenv("USERDIR_DB_HOST", "db.internal")
	t.Setenv("USERDIR_DELETE_GRACE_PERIOD", "2m")

	require.NoError(t, ApplyEnvOverrides())

	assert.Equal(t, 7070, Http().Port)
	assert.Equal(t, "db.internal", Postgres().Host)
	assert.Equal(t, 2*time.Minute, Users().DeleteGracePeriod)
	// untouched values keep their defaults
	assert.Equal(t, "postgres", Postgres().User)
	assert.Equal(t, BackendMemory, Store().Backend)
}

func TestApplyEnvOverridesInvalidValue(t *testing.T) {
	LoadDefault()
	t.Setenv("USERDIR_HTTP_PORT", "not-a-port")

	err := ApplyEnvOverrides()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
	assert.Equal(t, 8080, Http().Port)
}

func TestLoadReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "userdir.yaml")
	require.NoError(t, os.WriteFile(path, []byte("common:\n  log:\n    level: debug\n"), 0o600))
	t.Setenv("USERDIR_CONFIG_FILE", path)

	Load()

	assert.Equal(t, "debug", Logger().Level)
	assert.Equal(t, BackendMemory, Store().Backend)
}

func TestPostgresDSNEscapesCredentials(t *testing.T) {
	c := postgresConfig{User: "app", Password: "p@ss word", Host: "db", Port: 5432, Database: "userdir"}
	assert.Equal(t, "postgres://app:p%40ss+word@db:5432/userdir?sslmode=disable", c.DSN())
}
