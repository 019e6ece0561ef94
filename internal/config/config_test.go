package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Search.Limit)
	assert.Equal(t, 200*time.Millisecond, cfg.Debounce())
	assert.Equal(t, "blog-search-history", cfg.History.Key)
}

func TestLoadFromPathKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[content]
dir = "/srv/blog/content"
watch = true

[search]
debounce_ms = 50

[history]
backend = "bolt"
`), 0o644))

	cfg, err := NewConfigService().LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, SourceFS, cfg.Content.Source)
	assert.Equal(t, "/srv/blog/content", cfg.Content.Dir)
	assert.True(t, cfg.Content.Watch)
	assert.Equal(t, 10, cfg.Search.Limit)
	assert.Equal(t, 50*time.Millisecond, cfg.Debounce())
	assert.Equal(t, "bolt", cfg.History.Backend)
	assert.Equal(t, "history.db", filepath.Base(cfg.HistoryPath()))
}

func TestLoadFromPathRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[search]\nlimit = 0\n"), 0o644))

	_, err := NewConfigService().LoadFromPath(path)
	assert.ErrorContains(t, err, "search.limit")
}

func TestValidateRejectsLimitAboveMax(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.Limit = MaxSearchLimit
	assert.NoError(t, cfg.Validate())

	cfg.Search.Limit = 50
	assert.ErrorContains(t, cfg.Validate(), "search.limit must be between 1 and 10")
}

func TestLoadFromPathMissingAndMalformed(t *testing.T) {
	dir := t.TempDir()
	_, err := NewConfigService().LoadFromPath(filepath.Join(dir, "nope.toml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[content\n"), 0o644))
	_, err = NewConfigService().LoadFromPath(bad)
	assert.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cs := NewConfigService()

	cfg := DefaultConfig()
	cfg.Content.Source = SourceS3
	cfg.Content.S3.Bucket = "blog"
	cfg.Content.S3.Endpoint = "http://localhost:9000"
	cfg.UI.ShowBodyPreview = false
	require.NoError(t, cs.SaveToPath(cfg, path))

	loaded, err := cs.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, SourceS3, loaded.Content.Source)
	assert.Equal(t, "blog", loaded.Content.S3.Bucket)
	assert.Equal(t, "http://localhost:9000", loaded.Content.S3.Endpoint)
	assert.False(t, loaded.UI.ShowBodyPreview)
}

func TestCredentialsComeFromEnvironment(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA_TEST")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[content]\nsource = \"s3\"\n[content.s3]\nbucket = \"b\"\n"), 0o644))

	cfg, err := NewConfigService().LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "AKIA_TEST", cfg.Content.S3.AccessKeyID)
	assert.Equal(t, "secret", cfg.Content.S3.SecretAccessKey)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "AKIA_TEST")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Content.Source = "ftp"
	cfg.History.Backend = "redis"
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "content.source")
	assert.ErrorContains(t, err, "history.backend")

	cfg = DefaultConfig()
	cfg.Content.Source = SourceS3
	cfg.Content.S3.Bucket = "b"
	cfg.Content.Watch = true
	assert.ErrorContains(t, cfg.Validate(), "content.watch")
}
