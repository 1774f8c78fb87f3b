// Package templates provides the embedded prompt templates for the plan and
// code modes.
package templates

import (
	"embed"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
)

//go:embed prompts/*.md
var promptFS embed.FS

// Data is the substitution context for a prompt template.
type Data struct {
	Path    string // target file path, as given by the user
	Content string // current file contents; empty for new files
}

// Render executes the named prompt template (e.g. "plan", "code", "refactor")
// with the given data.
func Render(name string, data Data) (string, error) {
	raw, err := promptFS.ReadFile("prompts/" + name + ".md")
	if err != nil {
		return "", fmt.Errorf("templates: unknown prompt %q", name)
	}

	tmpl, err := template.New(name).Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("templates: parse %q: %w", name, err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("templates: render %q: %w", name, err)
	}

	return sb.String(), nil
}

// Names returns the available prompt template names, sorted.
func Names() []string {
	entries, err := promptFS.ReadDir("prompts")
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}

	sort.Strings(names)

	return names
}
