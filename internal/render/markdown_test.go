package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookpress/backend/internal/model"
)

func TestMarkdownRenderContent(t *testing.T) {
	r := &MarkdownRenderer{Title: "Test Cookbook", Now: pinnedClock}

	out, err := r.Render(sampleRecipes())
	require.NoError(t, err)
	md := string(out)

	assert.Contains(t, md, "# Test Cookbook")
	assert.Contains(t, md, "## Grandma's Soup")
	assert.Contains(t, md, "- 2 carrots")
	assert.Contains(t, md, "1. Chop vegetables")
	assert.Contains(t, md, "2. Simmer 20 minutes")
	assert.Contains(t, md, "*Generated 2025-03-01T12:00:00Z*")

	// Toast has no ingredients.
	assert.Equal(t, 1, strings.Count(md, "### Ingredients"))
	assert.Equal(t, 2, strings.Count(md, "### Steps"))
}

func TestMarkdownRenderDeterministic(t *testing.T) {
	r := &MarkdownRenderer{Title: "Test Cookbook", Now: pinnedClock}

	first, err := r.Render(sampleRecipes())
	require.NoError(t, err)
	second, err := r.Render(sampleRecipes())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMarkdownRenderEscapesExtractedText(t *testing.T) {
	r := &MarkdownRenderer{Title: "Safe", Now: pinnedClock}
	recipes := []model.Recipe{{
		Title:       "Spicy *Hot* <b>Wings</b>",
		Ingredients: []string{"1 kg wings [frozen]", "sauce with `backticks`"},
	}}

	out, err := r.Render(recipes)
	require.NoError(t, err)
	md := string(out)

	assert.Contains(t, md, `Spicy \*Hot\* \<b\>Wings\</b\>`)
	assert.Contains(t, md, `1 kg wings \[frozen\]`)
	assert.Contains(t, md, "sauce with \\`backticks\\`")
	assert.NotContains(t, md, "<b>")
}

func TestMarkdownRenderEmptyCollection(t *testing.T) {
	r := NewMarkdownRenderer()

	out, err := r.Render(nil)
	require.NoError(t, err)

	assert.Contains(t, string(out), "# "+DefaultTitle)
	assert.Contains(t, string(out), "No recipes yet.")
	assert.Equal(t, "text/markdown; charset=utf-8", r.ContentType())
	assert.Equal(t, ".md", r.Extension())
}
