package parser

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/cookpress/backend/internal/model"
)

// jsonRecipe is the payload the extraction prompt asks for. Some models
// answer with "name"/"instructions" instead of "title"/"steps", so both
// spellings are accepted.
type jsonRecipe struct {
	Title        string   `json:"title"`
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Steps        []string `json:"steps"`
	Instructions []string `json:"instructions"`
}

var (
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)

	salvageTitle       = regexp.MustCompile(`(?i)"(?:title|name)"\s*:\s*"([^"]*)"`)
	salvageIngredients = regexp.MustCompile(`(?is)"ingredients"\s*:\s*\[(.*?)\]`)
	salvageSteps       = regexp.MustCompile(`(?is)"(?:steps|instructions)"\s*:\s*\[(.*?)\]`)
	quotedString       = regexp.MustCompile(`"([^"]*)"`)
)

// parseJSON runs the JSON recovery ladder: locate the outermost object
// (fences and conversational text stripped), decode it, repair trailing
// commas on failure, and as a last resort salvage fields with regexps.
func parseJSON(raw string) (model.Recipe, bool) {
	body, ok := extractJSONObject(raw)
	if !ok {
		return model.Recipe{}, false
	}

	var payload jsonRecipe
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		repaired := trailingComma.ReplaceAllString(body, "$1")
		if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
			return salvage(body)
		}
	}
	return fromPayload(payload)
}

func fromPayload(payload jsonRecipe) (model.Recipe, bool) {
	recipe := model.Recipe{
		Title:       payload.Title,
		Ingredients: payload.Ingredients,
		Steps:       payload.Steps,
	}
	if recipe.Title == "" {
		recipe.Title = payload.Name
	}
	if len(recipe.Steps) == 0 {
		recipe.Steps = payload.Instructions
	}
	// The prompt's example steps are numbered, and models copy that, so
	// JSON-sourced lines get the same marker stripping as heuristic ones.
	recipe.Ingredients = stripAll(recipe.Ingredients)
	recipe.Steps = stripAll(recipe.Steps)
	if recipe.Title == "" && len(recipe.Ingredients) == 0 && len(recipe.Steps) == 0 {
		return model.Recipe{}, false
	}
	return recipe, true
}

// salvage pulls title, ingredients and steps out of structurally broken
// JSON. A recognizable title is required; without one the caller falls
// back to line heuristics.
func salvage(body string) (model.Recipe, bool) {
	m := salvageTitle.FindStringSubmatch(body)
	if m == nil {
		return model.Recipe{}, false
	}
	recipe := model.Recipe{Title: m[1]}

	if m := salvageIngredients.FindStringSubmatch(body); m != nil {
		recipe.Ingredients = stripAll(quotedValues(m[1]))
	}
	if m := salvageSteps.FindStringSubmatch(body); m != nil {
		recipe.Steps = stripAll(quotedValues(m[1]))
	}
	return recipe, true
}

func stripAll(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, StripListMarker(line))
	}
	return out
}

func quotedValues(s string) []string {
	var out []string
	for _, m := range quotedString.FindAllStringSubmatch(s, -1) {
		out = append(out, m[1])
	}
	return out
}

// extractJSONObject locates the outermost JSON object in the response,
// stripping a leading markdown code fence first. When braces are
// unbalanced (truncated output) the last closing brace wins.
func extractJSONObject(raw string) (string, bool) {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		if idx := strings.IndexByte(text, '\n'); idx >= 0 {
			text = text[idx+1:]
		}
		if idx := strings.Index(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	end := -1
scan:
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i + 1
				break scan
			}
		}
	}
	if end < 0 {
		end = strings.LastIndexByte(text, '}') + 1
	}
	if end <= start {
		return "", false
	}
	return text[start:end], true
}
