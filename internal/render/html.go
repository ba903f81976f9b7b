package render

import (
	"bytes"
	"html/template"
	"time"

	"github.com/cookpress/backend/internal/model"
)

// The document carries its styling inline so the file can be opened
// anywhere without network access, and stays readable on a narrow
// viewport. Every field goes through html/template's contextual escaping;
// extracted text is never trusted.
const cookbookTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; margin: 0 auto; max-width: 42rem; padding: 1rem; color: #2b2b2b; }
h1 { text-align: center; border-bottom: 2px solid #2b2b2b; padding-bottom: 0.5rem; }
article.recipe { margin: 2rem 0; padding: 1rem; border: 1px solid #ddd; border-radius: 6px; }
article.recipe h2 { margin-top: 0; }
article.recipe h3 { margin-bottom: 0.25rem; }
ul, ol { margin-top: 0.25rem; padding-left: 1.5rem; }
li { margin: 0.2rem 0; }
p.empty { text-align: center; font-style: italic; color: #777; }
footer { text-align: center; font-size: 0.8rem; color: #999; margin-top: 2rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{- if .Recipes}}
{{- range .Recipes}}
<article class="recipe">
<h2>{{.Title}}</h2>
{{- if .Ingredients}}
<h3>Ingredients</h3>
<ul>
{{- range .Ingredients}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
{{- if .Steps}}
<h3>Steps</h3>
<ol>
{{- range .Steps}}
<li>{{.}}</li>
{{- end}}
</ol>
{{- end}}
</article>
{{- end}}
{{- else}}
<p class="empty">No recipes yet.</p>
{{- end}}
<footer><time datetime="{{.GeneratedAt}}">Generated {{.GeneratedAt}}</time></footer>
</body>
</html>
`

var cookbookTmpl = template.Must(template.New("cookbook").Parse(cookbookTemplate))

// HTMLRenderer is the canonical cookbook renderer.
type HTMLRenderer struct {
	Title string
	// Now supplies the generation timestamp; tests pin it for
	// byte-for-byte comparison.
	Now func() time.Time
}

// NewHTMLRenderer returns an HTMLRenderer with the default collection
// title and wall clock.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{Title: DefaultTitle, Now: time.Now}
}

type htmlView struct {
	Title       string
	Recipes     []model.Recipe
	GeneratedAt string
}

// Render produces the composite HTML document for the collection.
func (r *HTMLRenderer) Render(recipes []model.Recipe) ([]byte, error) {
	view := htmlView{
		Title:       r.title(),
		Recipes:     recipes,
		GeneratedAt: r.now().UTC().Format(time.RFC3339),
	}
	var buf bytes.Buffer
	if err := cookbookTmpl.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ContentType returns the MIME type for HTML output.
func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string { return ".html" }

func (r *HTMLRenderer) title() string {
	if r.Title == "" {
		return DefaultTitle
	}
	return r.Title
}

func (r *HTMLRenderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}
