package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cookpress/backend/internal/model"
	"github.com/cookpress/backend/internal/normalize"
	"github.com/cookpress/backend/internal/parser"
)

// ErrExtractionUnavailable is returned when the external inference
// provider fails or times out. The parser is never invoked in that case;
// the caller may retry.
var ErrExtractionUnavailable = errors.New("extraction service unavailable")

// ExtractionService runs raw input through the inference collaborator and
// the parse/normalize pipeline, yielding a store-ready recipe or a typed
// failure. It never touches a store itself, so a failed extraction cannot
// leave one partially updated.
type ExtractionService struct {
	client InferenceClient
}

// NewExtractionService creates an ExtractionService on top of an
// inference client.
func NewExtractionService(client InferenceClient) *ExtractionService {
	return &ExtractionService{client: client}
}

// ExtractFromText converts pasted recipe text into a normalized recipe.
func (s *ExtractionService) ExtractFromText(ctx context.Context, text string) (model.Recipe, error) {
	raw, err := s.client.ExtractFromText(ctx, text)
	if err != nil {
		log.Printf("[ExtractionService] text inference call failed: %v", err)
		return model.Recipe{}, fmt.Errorf("%w: %v", ErrExtractionUnavailable, err)
	}
	return s.refine(raw, model.SourceText)
}

// ExtractFromImage converts a photographed or handwritten recipe into a
// normalized recipe.
func (s *ExtractionService) ExtractFromImage(ctx context.Context, image []byte, mimeType string) (model.Recipe, error) {
	raw, err := s.client.ExtractFromImage(ctx, image, mimeType)
	if err != nil {
		log.Printf("[ExtractionService] image inference call failed: %v", err)
		return model.Recipe{}, fmt.Errorf("%w: %v", ErrExtractionUnavailable, err)
	}
	return s.refine(raw, model.SourceImage)
}

func (s *ExtractionService) refine(raw string, source model.SourceKind) (model.Recipe, error) {
	candidate, err := parser.Parse(raw, source)
	if err != nil {
		return model.Recipe{}, err
	}
	return normalize.Recipe(candidate)
}
