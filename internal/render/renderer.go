// Package render serializes an ordered recipe collection into one
// self-contained cookbook document. Renderers are deterministic: the same
// ordered input yields the same bytes, aside from the generation timestamp
// which is isolated to a single delimited location.
package render

import "github.com/cookpress/backend/internal/model"

// DefaultTitle is the collection-level heading used when none is set.
const DefaultTitle = "My Personal Cookbook"

// Renderer turns the full ordered recipe sequence into a document.
// Rendering is total: an empty collection produces a valid document with a
// "no recipes yet" indication, never an error.
type Renderer interface {
	Render(recipes []model.Recipe) ([]byte, error)
	ContentType() string
	Extension() string
}
