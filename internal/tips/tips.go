// Package tips serves the password hygiene tips shown next to the generator.
package tips

import (
	"bytes"
	_ "embed"
	"html/template"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
)

//go:embed tips.md
var source string

// Markdown returns the tips as markdown.
func Markdown() string {
	return source
}

// Items returns the bullet lines without markers or emphasis.
func Items() []string {
	var items []string
	for _, line := range strings.Split(source, "\n") {
		item, ok := strings.CutPrefix(strings.TrimSpace(line), "- ")
		if !ok {
			continue
		}
		items = append(items, strings.ReplaceAll(item, "**", ""))
	}
	return items
}

// HTML returns the tips rendered with goldmark. Rendering happens once.
var HTML = sync.OnceValue(render)

func render() template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(buf.String())
}
