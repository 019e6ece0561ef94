package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogsearch/internal/config"
	"blogsearch/internal/kvstore"
	"blogsearch/internal/source"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Content.Dir = t.TempDir()
	cfg.History.Backend = "memory"
	return cfg
}

func TestNewBuildsFileSource(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Content.Dir, "go.json"), []byte(`{"title":"Go"}`), 0o644))

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	assert.IsType(t, &source.FileSource{}, a.Source)
	results, err := a.Engine.Query(context.Background(), "go")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "/go", results[0].Document.Path)
}

func TestNewSourceRejectsUnknownKind(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.Source = "ftp"

	_, err := NewSource(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewSourceBuildsS3Source(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.Source = config.SourceS3
	cfg.Content.S3.Bucket = "blog"
	cfg.Content.S3.Endpoint = "http://localhost:9000"
	cfg.Content.S3.AccessKeyID = "key"
	cfg.Content.S3.SecretAccessKey = "secret"

	src, err := NewSource(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &source.S3Source{}, src)
}

func TestStartWatcherOnlyWhenEnabled(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	require.NoError(t, a.StartWatcher(context.Background()))
	assert.Nil(t, a.watcher)

	cfg.Content.Watch = true
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, a.StartWatcher(ctx))
	assert.NotNil(t, a.watcher)
}

func TestNewFallsBackToMemoryHistory(t *testing.T) {
	for _, backend := range []string{"file", "bolt", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t)
			blocker := filepath.Join(t.TempDir(), "blocker")
			require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))
			cfg.History.Backend = backend
			cfg.History.Path = filepath.Join(blocker, "history.db")

			a, err := New(context.Background(), cfg, nil)
			require.NoError(t, err)
			t.Cleanup(func() { assert.NoError(t, a.Close()) })

			assert.IsType(t, &kvstore.MemoryStore{}, a.store)
			a.History.Add("go")
			assert.Equal(t, []string{"go"}, a.History.Items())
		})
	}
}
