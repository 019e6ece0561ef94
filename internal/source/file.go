package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"blogsearch/internal/domain"
)

// IsContentFile reports whether name is a file FileSource reads
func IsContentFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".md":
		return true
	}
	return false
}

// FileSource reads articles from a content directory. Files that fail to
// parse are logged and skipped.
type FileSource struct {
	Dir string
}

// NewFileSource creates a source rooted at dir
func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

// FetchPublishedDocuments implements DocumentSource
func (s *FileSource) FetchPublishedDocuments(ctx context.Context) ([]domain.Document, error) {
	articles, err := s.Articles(ctx)
	if err != nil {
		return nil, err
	}
	return Documents(articles), nil
}

// Articles returns every article under Dir, published or not
func (s *FileSource) Articles(ctx context.Context) ([]Article, error) {
	info, err := os.Stat(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open content directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content path %s is not a directory", s.Dir)
	}

	var articles []Article
	err = filepath.WalkDir(s.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != s.Dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsContentFile(d.Name()) {
			return nil
		}

		a, err := readArticle(path)
		if err != nil {
			log.Printf("Skipping content file %s: %v", path, err)
			return nil
		}
		if a.Path == "" {
			a.Path = defaultPath(s.Dir, path)
		}
		articles = append(articles, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk content directory: %w", err)
	}
	return articles, nil
}

func readArticle(path string) (Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Article{}, err
	}
	if strings.EqualFold(filepath.Ext(path), ".md") {
		return ParseMarkdown(data)
	}
	var a Article
	if err := json.Unmarshal(data, &a); err != nil {
		return Article{}, fmt.Errorf("failed to parse article: %w", err)
	}
	return a, nil
}

// defaultPath maps dir/articles/vue.md to /articles/vue
func defaultPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return "/" + filepath.ToSlash(rel)
}
