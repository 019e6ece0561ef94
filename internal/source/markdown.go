package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"blogsearch/internal/domain"
)

const frontMatterFence = "+++"

type frontMatter struct {
	Path        string      `toml:"path"`
	Title       string      `toml:"title"`
	Description string      `toml:"description"`
	Date        interface{} `toml:"date"`
	Updated     interface{} `toml:"updated"`
	Category    string      `toml:"category"`
	Tags        []string    `toml:"tags"`
	Cover       string      `toml:"cover"`
	Featured    bool        `toml:"featured"`
	Published   *bool       `toml:"published"`
}

// ParseMarkdown reads an article from markdown with optional +++ TOML front
// matter. Each paragraph of the body becomes one text node.
func ParseMarkdown(data []byte) (Article, error) {
	var fm frontMatter
	body := data

	text := strings.TrimPrefix(string(data), "\ufeff")
	if strings.HasPrefix(text, frontMatterFence) {
		rest := strings.TrimPrefix(text, frontMatterFence)
		end := strings.Index(rest, "\n"+frontMatterFence)
		if end < 0 {
			return Article{}, fmt.Errorf("unterminated front matter")
		}
		if err := toml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
			return Article{}, fmt.Errorf("failed to parse front matter: %w", err)
		}
		body = []byte(rest[end+1+len(frontMatterFence):])
	}

	tree, err := json.Marshal(paragraphTree(body))
	if err != nil {
		return Article{}, fmt.Errorf("failed to encode body: %w", err)
	}

	return Article{
		Path:        fm.Path,
		Title:       fm.Title,
		Description: fm.Description,
		Date:        formatDate(fm.Date),
		Updated:     formatDate(fm.Updated),
		Category:    fm.Category,
		Tags:        fm.Tags,
		Cover:       fm.Cover,
		Featured:    fm.Featured,
		Published:   fm.Published,
		Body:        tree,
	}, nil
}

func paragraphTree(body []byte) domain.Node {
	root := domain.Node{Type: "root"}
	for _, para := range bytes.Split(bytes.ReplaceAll(body, []byte("\r\n"), []byte("\n")), []byte("\n\n")) {
		line := strings.Join(strings.Fields(string(para)), " ")
		if line == "" {
			continue
		}
		root.Children = append(root.Children, domain.Node{
			Type:     "element",
			Tag:      "p",
			Children: []domain.Node{domain.TextNode(line)},
		})
	}
	return root
}

func formatDate(v interface{}) string {
	switch d := v.(type) {
	case nil:
		return ""
	case string:
		return d
	case time.Time:
		return d.Format(time.RFC3339)
	case toml.LocalDate:
		return d.String()
	case toml.LocalDateTime:
		return d.AsTime(time.UTC).Format(time.RFC3339)
	default:
		return fmt.Sprint(d)
	}
}
