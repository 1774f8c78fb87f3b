package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	out, err := Render("plan", Data{Path: "main.go", Content: "package main"})

	require.NoError(t, err)
	assert.Contains(t, out, "File: main.go")
	assert.Contains(t, out, "package main")
}

func TestRender_AllPromptsSubstitute(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			out, err := Render(name, Data{Path: "pkg/server/server.go", Content: "func main() {}"})

			require.NoError(t, err)
			assert.Contains(t, out, "pkg/server/server.go")
		})
	}
}

func TestRender_UnknownPrompt(t *testing.T) {
	_, err := Render("nope", Data{})

	assert.ErrorContains(t, err, "unknown prompt")
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"code", "plan", "refactor"}, Names())
}
