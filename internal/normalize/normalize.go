// Package normalize cleans and validates freshly parsed recipe candidates
// before they may enter a store.
package normalize

import (
	"errors"
	"strings"

	"github.com/cookpress/backend/internal/model"
	"github.com/cookpress/backend/internal/parser"
)

// DefaultTitle is substituted when extraction yields no usable title.
const DefaultTitle = "Untitled Recipe"

// ErrInsufficientContent is returned when a candidate has neither
// ingredients nor steps after cleaning. Such a recipe is rejected rather
// than stored.
var ErrInsufficientContent = errors.New("recipe has no ingredients and no steps")

// Recipe returns the normalized form of a candidate: whitespace collapsed,
// empty and markup-artifact lines dropped, title defaulted. Normalization
// is idempotent; list order is never changed.
func Recipe(r model.Recipe) (model.Recipe, error) {
	out := model.Recipe{
		Title:       collapseWhitespace(r.Title),
		Ingredients: cleanLines(r.Ingredients),
		Steps:       cleanLines(r.Steps),
		Source:      r.Source,
	}
	if out.Title == "" {
		out.Title = DefaultTitle
	}
	if len(out.Ingredients) == 0 && len(out.Steps) == 0 {
		return model.Recipe{}, ErrInsufficientContent
	}
	return out, nil
}

// cleanLines drops lines that carry no content once markup is accounted
// for: blanks, lone list markers, and echoes of section headers the model
// sometimes repeats inside a list.
func cleanLines(lines []string) []string {
	var out []string
	for _, line := range lines {
		line = collapseWhitespace(line)
		if line == "" {
			continue
		}
		if parser.StripListMarker(line) == "" {
			continue
		}
		if parser.IsSectionHeader(line) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
