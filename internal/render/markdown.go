package render

import (
	"bytes"
	"strings"
	"time"

	"github.com/nao1215/markdown"

	"github.com/cookpress/backend/internal/model"
)

// MarkdownRenderer renders the cookbook as a Markdown document.
type MarkdownRenderer struct {
	Title string
	Now   func() time.Time
}

// NewMarkdownRenderer creates a MarkdownRenderer with the default
// collection title.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{Title: DefaultTitle, Now: time.Now}
}

// Render converts the recipe collection into Markdown bytes.
func (r *MarkdownRenderer) Render(recipes []model.Recipe) ([]byte, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.H1(escapeMarkdown(r.title()))
	md.PlainText("")

	if len(recipes) == 0 {
		md.PlainText("No recipes yet.")
	}

	for i, recipe := range recipes {
		if i > 0 {
			md.HorizontalRule()
			md.PlainText("")
		}
		md.H2(escapeMarkdown(recipe.Title))
		if len(recipe.Ingredients) > 0 {
			md.H3("Ingredients")
			md.BulletList(escapeAll(recipe.Ingredients)...)
			md.PlainText("")
		}
		if len(recipe.Steps) > 0 {
			md.H3("Steps")
			md.OrderedList(escapeAll(recipe.Steps)...)
			md.PlainText("")
		}
	}

	md.PlainTextf("*Generated %s*", r.now().UTC().Format(time.RFC3339))

	if err := md.Build(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ContentType returns the MIME type for Markdown output.
func (r *MarkdownRenderer) ContentType() string { return "text/markdown; charset=utf-8" }

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string { return ".md" }

func (r *MarkdownRenderer) title() string {
	if r.Title == "" {
		return DefaultTitle
	}
	return r.Title
}

func (r *MarkdownRenderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"#", `\#`,
	"<", `\<`,
	">", `\>`,
	"[", `\[`,
	"]", `\]`,
)

// escapeMarkdown neutralizes characters that viewers would otherwise
// interpret as markup or inline HTML.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func escapeAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = escapeMarkdown(l)
	}
	return out
}
