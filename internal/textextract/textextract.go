// Package textextract flattens rich-text body trees into bounded plain text
// suitable for use as a search field.
package textextract

import (
	"encoding/json"
	"strings"

	"blogsearch/internal/domain"
)

// MaxRunes is the hard cap on extracted text length
const MaxRunes = 500

// Extract joins the leaf values of n with single spaces and truncates the
// result to MaxRunes. A nil node yields "".
func Extract(n *domain.Node) string {
	if n == nil {
		return ""
	}
	var leaves []string
	collect(n, &leaves)
	return truncate(strings.Join(leaves, " "))
}

func collect(n *domain.Node, leaves *[]string) {
	if len(n.Children) == 0 {
		if n.Value != nil && *n.Value != "" {
			*leaves = append(*leaves, *n.Value)
		}
		return
	}
	for i := range n.Children {
		collect(&n.Children[i], leaves)
	}
}

// ExtractJSON is Extract over a raw JSON tree. Anything that does not look like
// a node contributes nothing; malformed input yields "".
func ExtractJSON(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return ""
	}
	var leaves []string
	collectAny(tree, &leaves)
	return truncate(strings.Join(leaves, " "))
}

func collectAny(v any, leaves *[]string) {
	node, ok := v.(map[string]any)
	if !ok {
		return
	}
	children, _ := node["children"].([]any)
	if len(children) == 0 {
		if s, ok := node["value"].(string); ok && s != "" {
			*leaves = append(*leaves, s)
		}
		return
	}
	for _, c := range children {
		collectAny(c, leaves)
	}
}

func truncate(s string) string {
	if len(s) <= MaxRunes {
		return s
	}
	r := []rune(s)
	if len(r) <= MaxRunes {
		return s
	}
	return string(r[:MaxRunes])
}
