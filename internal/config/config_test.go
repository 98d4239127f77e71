package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/resolverstatus/internal/notion"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvNotionToken, EnvNotionDatabaseID, EnvSourceDir, EnvSnapshotPath} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.SourceDir)
	assert.Equal(t, []string{".ts"}, cfg.Extensions)
	assert.Equal(t, "resolver-status.json", cfg.SnapshotPath)
	assert.Equal(t, "@adminTypes", cfg.AdminMarker)
	assert.Equal(t, notion.DefaultBaseURL, cfg.Notion.BaseURL)
	assert.Equal(t, PropertiesConfig{Name: "Name", Type: "Type", Status: "Status"}, cfg.Properties)
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	clearEnv(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/rs.yaml", []byte(`
source_dir: ./src/resolvers/v3
extensions: [ts, ".TSX"]
admin_marker: "@admin"
history_db: .resolverstatus/history.db
filter: category == "admin"
notion:
  database_id: from-file
  requests_per_second: 1.5
properties:
  status: Deployment
`), 0o644))

	t.Setenv(EnvNotionToken, "secret")
	t.Setenv(EnvNotionDatabaseID, "from-env")

	cfg, err := Load(fs, "/etc/rs.yaml")
	require.NoError(t, err)

	assert.Equal(t, "./src/resolvers/v3", cfg.SourceDir)
	assert.Equal(t, []string{".ts", ".tsx"}, cfg.Extensions)
	assert.Equal(t, "@admin", cfg.AdminMarker)
	assert.Equal(t, ".resolverstatus/history.db", cfg.HistoryDB)
	assert.Equal(t, `category == "admin"`, cfg.Filter)
	assert.Equal(t, "secret", cfg.Notion.Token)
	assert.Equal(t, "from-env", cfg.Notion.DatabaseID)
	assert.InDelta(t, 1.5, cfg.Notion.RequestsPerSecond, 0.001)
	assert.Equal(t, notion.DefaultVersion, cfg.Notion.Version)
	assert.Equal(t, "Deployment", cfg.Properties.Status)
	assert.Equal(t, "Name", cfg.Properties.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(afero.NewMemMapFs(), "/nope.yaml")
	require.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.yaml", []byte("source_dir: [unterminated"), 0o644))
	_, err := Load(fs, "bad.yaml")
	require.Error(t, err)
}

func TestValidateReconcile(t *testing.T) {
	t.Parallel()
	cfg := Default()
	err := cfg.ValidateReconcile()
	require.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), EnvNotionToken)
	assert.Contains(t, err.Error(), EnvNotionDatabaseID)

	cfg.Notion.Token = "t"
	cfg.Notion.DatabaseID = "d"
	assert.NoError(t, cfg.ValidateReconcile())
}
