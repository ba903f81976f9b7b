// Package parser turns raw model output into a structured recipe candidate.
//
// The inference provider is asked for JSON, but model output is not
// trustworthy: it may be wrapped in markdown fences, surrounded by
// conversational filler, or not JSON at all. Parsing therefore runs a
// JSON recovery ladder first and falls back to line-level heuristic
// segmentation for free-form text.
package parser

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cookpress/backend/internal/model"
)

// ErrEmptyExtraction is returned when the raw output contains no usable lines.
var ErrEmptyExtraction = errors.New("no extractable content in model output")

var (
	ingredientsHeader = regexp.MustCompile(`^ingredients?$`)
	stepsHeader       = regexp.MustCompile(`^(?:steps?|instructions?|directions?)$`)

	// Leading list decoration: bullets, checkboxes, "1." / "1)" / "(1)"
	// numbering and "Step 1:" prefixes. Bare numbers are left alone so
	// quantities like "2 carrots" survive.
	listMarker = regexp.MustCompile(`(?i)^(?:[-*+•·‣▪–—]+|\[[ xX]?\]|\(?\d{1,3}[.):](?:\s+|$)|step\s+\d{1,3}\s*[.:)]?(?:\s+|$))\s*`)

	asciiFraction = regexp.MustCompile(`^\d+\s*/\s*\d+`)
)

const unicodeFractions = "¼½¾⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞"

// Ingredient lines in unstructured prose are recognized by measurement
// vocabulary when no section headers are present.
var unitWords = map[string]struct{}{
	"cup": {}, "cups": {},
	"tbsp": {}, "tablespoon": {}, "tablespoons": {},
	"tsp": {}, "teaspoon": {}, "teaspoons": {},
	"oz": {}, "ounce": {}, "ounces": {},
	"g": {}, "gram": {}, "grams": {}, "kg": {},
	"ml": {}, "l": {}, "liter": {}, "liters": {}, "litre": {}, "litres": {},
	"lb": {}, "lbs": {}, "pound": {}, "pounds": {},
	"pinch": {}, "dash": {},
	"clove": {}, "cloves": {},
	"slice": {}, "slices": {},
	"can": {}, "cans": {},
	"stick": {}, "sticks": {},
	"bunch": {}, "handful": {},
}

// Parse converts one raw model response into a recipe candidate tagged with
// its source modality. The result still needs to go through normalization
// before it can be stored. Parse is a pure function of its inputs.
func Parse(raw string, source model.SourceKind) (model.Recipe, error) {
	if strings.TrimSpace(raw) == "" {
		return model.Recipe{}, ErrEmptyExtraction
	}

	if recipe, ok := parseJSON(raw); ok {
		recipe.Source = source
		return recipe, nil
	}

	recipe, ok := parseLines(raw)
	if !ok {
		return model.Recipe{}, ErrEmptyExtraction
	}
	recipe.Source = source
	return recipe, nil
}

// parseLines performs heuristic line segmentation: pick a title, collect
// ingredient and step blocks under their section headers, and when no
// headers exist at all, split the remaining lines by a quantity-token
// heuristic.
func parseLines(raw string) (model.Recipe, bool) {
	var (
		recipe    model.Recipe
		section   string
		sawHeader bool
		unclaimed []string
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch sectionKind(line) {
		case "ingredients":
			section = "ingredients"
			sawHeader = true
			continue
		case "steps":
			section = "steps"
			sawHeader = true
			continue
		}

		if !sawHeader && recipe.Title == "" && !isListItem(line) {
			recipe.Title = line
			continue
		}

		switch section {
		case "ingredients":
			recipe.Ingredients = append(recipe.Ingredients, StripListMarker(line))
		case "steps":
			recipe.Steps = append(recipe.Steps, StripListMarker(line))
		default:
			unclaimed = append(unclaimed, line)
		}
	}

	// Unstructured prose: no section headers anywhere. Short lines with a
	// quantity-like token read as ingredients, everything else as a step.
	if !sawHeader {
		for _, line := range unclaimed {
			text := StripListMarker(line)
			if looksLikeIngredient(text) {
				recipe.Ingredients = append(recipe.Ingredients, text)
			} else {
				recipe.Steps = append(recipe.Steps, text)
			}
		}
	}

	if recipe.Title == "" && len(recipe.Ingredients) == 0 && len(recipe.Steps) == 0 {
		return model.Recipe{}, false
	}
	return recipe, true
}

// IsSectionHeader reports whether the line is solely an ingredients or
// steps section header, ignoring surrounding punctuation and markup.
func IsSectionHeader(line string) bool {
	return sectionKind(line) != ""
}

func sectionKind(line string) string {
	token := headerToken(line)
	switch {
	case ingredientsHeader.MatchString(token):
		return "ingredients"
	case stepsHeader.MatchString(token):
		return "steps"
	default:
		return ""
	}
}

// headerToken strips decoration ("## Ingredients:", "**Steps**") down to
// the bare word for section matching.
func headerToken(line string) string {
	return strings.ToLower(strings.TrimFunc(line, func(r rune) bool {
		return !unicode.IsLetter(r)
	}))
}

// StripListMarker removes leading list decoration from a line. Markers can
// stack ("- [ ] 2 eggs"), so stripping repeats until the line is stable.
func StripListMarker(line string) string {
	s := strings.TrimSpace(line)
	for range [3]struct{}{} {
		stripped := strings.TrimSpace(listMarker.ReplaceAllString(s, ""))
		if stripped == s {
			break
		}
		s = stripped
	}
	return s
}

func isListItem(line string) bool {
	return listMarker.MatchString(strings.TrimSpace(line))
}

func looksLikeIngredient(text string) bool {
	if utf8.RuneCountInString(text) > 64 {
		return false
	}
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return false
	}

	first := fields[0]
	if first[0] >= '0' && first[0] <= '9' {
		return true
	}
	if asciiFraction.MatchString(first) || strings.ContainsAny(first, unicodeFractions) {
		return true
	}

	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool { return !unicode.IsLetter(r) })
		if _, ok := unitWords[f]; ok {
			return true
		}
	}
	return false
}
