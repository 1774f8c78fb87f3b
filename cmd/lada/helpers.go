package main

import (
	"errors"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"
	"github.com/lada-dev/lada/pkg/config"
	"github.com/lada-dev/lada/pkg/llm"
	"github.com/pmezard/go-difflib/difflib"
)

// loadDotEnv loads environment variables from the given file. A missing file
// is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return godotenv.Load(path)
}

// loadConfig resolves the configuration path (explicit flag or the project
// default) and loads it.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		path = config.DefaultPath
	}

	return config.Load(path)
}

var mdRenderer *glamour.TermRenderer

// renderMarkdown renders markdown for the terminal, falling back to the raw
// text when the renderer is unavailable.
func renderMarkdown(text string) string {
	if mdRenderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return text
		}
		mdRenderer = r
	}

	out, err := mdRenderer.Render(text)
	if err != nil {
		return text
	}

	return strings.TrimRight(out, "\n")
}

// closeMatches returns up to n candidates whose similarity to name is at
// least cutoff, best first.
func closeMatches(name string, candidates []string, n int, cutoff float64) []string {
	type scored struct {
		name  string
		ratio float64
	}

	var matches []scored
	for _, c := range candidates {
		m := difflib.NewMatcher(strings.Split(name, ""), strings.Split(c, ""))
		if ratio := m.Ratio(); ratio >= cutoff {
			matches = append(matches, scored{name: c, ratio: ratio})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ratio > matches[j].ratio })

	names := make([]string, 0, min(n, len(matches)))
	for _, m := range matches[:min(n, len(matches))] {
		names = append(names, m.name)
	}

	return names
}

// availabilityHint tells the user how to start the engine that answered the
// reachability probe with false.
func availabilityHint(kind llm.EngineKind) string {
	switch kind {
	case llm.EngineOllama:
		return "Ollama is not running. Start it with 'ollama serve'."
	case llm.EngineMLX:
		return "The MLX server is not running. Start it with 'lada-mlx-server'."
	default:
		return string(kind) + " is not running. Make sure the service is active."
	}
}

// printWarnings surfaces parameters an engine ignored.
func printWarnings(warnings []string) {
	for _, w := range warnings {
		os.Stderr.WriteString(warnStyle.Render("warning: ") + w + "\n")
	}
}
