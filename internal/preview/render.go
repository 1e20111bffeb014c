// Package preview renders the markdown content shown in the embedded
// frame and builds the shell and frame documents the synchronizer
// toggles.
package preview

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// RenderMarkdown converts a markdown document to HTML.
func RenderMarkdown(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// Title derives a human-readable page title from a content file name.
// "getting-started.md" becomes "Getting Started".
func Title(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return titleCaser.String(base)
}

// LoadContent renders every markdown file under dir, sorted by name,
// into one HTML fragment. It returns the fragment and the number of
// files rendered.
func LoadContent(dir string) ([]byte, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("read content dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext := strings.ToLower(filepath.Ext(entry.Name())); ext == ".md" || ext == ".markdown" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var buf bytes.Buffer
	for _, name := range names {
		source, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, 0, fmt.Errorf("read content file %s: %w", name, err)
		}
		rendered, err := RenderMarkdown(source)
		if err != nil {
			return nil, 0, err
		}
		fmt.Fprintf(&buf, "<section data-page=%q>\n", Title(name))
		buf.Write(rendered)
		buf.WriteString("</section>\n")
	}

	return buf.Bytes(), len(names), nil
}
