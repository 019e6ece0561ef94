package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogsearch/internal/config"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	content := filepath.Join(root, "content")
	require.NoError(t, os.MkdirAll(content, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(content, "vue-basics.json"), []byte(`{
		"title": "Vue Basics",
		"description": "Getting started",
		"category": "frontend",
		"tags": ["vue"],
		"date": "2024-03-01"
	}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(content, "draft.json"), []byte(`{
		"title": "Vue Draft",
		"published": false
	}`), 0o644))

	cfgPath := filepath.Join(root, "config.toml")
	cfg := fmt.Sprintf(`
[content]
source = "fs"
dir = %q

[history]
backend = "file"
path = %q
`, content, filepath.Join(root, "history.json"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath
}

func TestRunPrintsHighlightedResults(t *testing.T) {
	cfgPath := writeFixture(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, options{configPath: cfgPath, query: "vue"}))

	assert.Contains(t, out.String(), "1. <mark>Vue</mark> Basics")
	assert.Contains(t, out.String(), "/vue-basics")
	assert.NotContains(t, out.String(), "Draft")
}

func TestRunNoResults(t *testing.T) {
	cfgPath := writeFixture(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, options{configPath: cfgPath, query: "xyz123"}))
	assert.Equal(t, "No results\n", out.String())
}

func TestRunRecordsAndListsHistory(t *testing.T) {
	cfgPath := writeFixture(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, options{configPath: cfgPath, query: "vue", record: true}))

	out.Reset()
	require.NoError(t, run(context.Background(), &out, options{configPath: cfgPath, listHistory: true}))
	assert.Equal(t, "vue\n", out.String())
}

func TestRunRequiresWork(t *testing.T) {
	cfgPath := writeFixture(t)

	err := run(context.Background(), &bytes.Buffer{}, options{configPath: cfgPath})
	assert.Error(t, err)
}

func TestRunListsCategories(t *testing.T) {
	cfgPath := writeFixture(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, options{configPath: cfgPath, listCategories: true}))
	assert.Equal(t, "frontend\n", out.String())
}

func TestRunFlagsFullPage(t *testing.T) {
	cfgPath := writeFixture(t)
	content := filepath.Join(filepath.Dir(cfgPath), "content")
	for i := 0; i < 12; i++ {
		doc := fmt.Sprintf(`{"title": "Vue tip %d"}`, i)
		require.NoError(t, os.WriteFile(filepath.Join(content, fmt.Sprintf("tip-%02d.json", i)), []byte(doc), 0o644))
	}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, options{configPath: cfgPath, query: "vue"}))
	assert.Contains(t, out.String(), "Showing the best 10 matches")
	assert.Contains(t, out.String(), "10. ")
	assert.NotContains(t, out.String(), "11. ")
}

func TestRunInitConfigWritesLoadableDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, options{configPath: path, initConfig: true}))
	assert.Equal(t, "Wrote "+path+"\n", out.String())

	cfg, err := config.NewConfigService().LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Search.Limit, cfg.Search.Limit)
}
