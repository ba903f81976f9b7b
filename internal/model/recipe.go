package model

// SourceKind records which modality a recipe was extracted from.
type SourceKind string

const (
	SourceImage SourceKind = "image"
	SourceText  SourceKind = "text"
)

// Recipe is the structured record produced by the extraction pipeline.
// Ingredient and step order is meaningful and is preserved through
// normalization, storage and rendering.
type Recipe struct {
	Title       string     `json:"title"`
	Ingredients []string   `json:"ingredients"`
	Steps       []string   `json:"steps"`
	Source      SourceKind `json:"source_kind"`
}

// Clone returns a deep copy so callers can hand out recipes without
// sharing backing slices.
func (r Recipe) Clone() Recipe {
	out := Recipe{
		Title:  r.Title,
		Source: r.Source,
	}
	if r.Ingredients != nil {
		out.Ingredients = make([]string, len(r.Ingredients))
		copy(out.Ingredients, r.Ingredients)
	}
	if r.Steps != nil {
		out.Steps = make([]string, len(r.Steps))
		copy(out.Steps, r.Steps)
	}
	return out
}
