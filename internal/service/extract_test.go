package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookpress/backend/internal/model"
	"github.com/cookpress/backend/internal/normalize"
	"github.com/cookpress/backend/internal/parser"
)

// fakeInference stands in for the external provider and records what it
// was asked.
type fakeInference struct {
	response string
	err      error

	gotText string
	gotMime string
}

func (f *fakeInference) ExtractFromText(_ context.Context, text string) (string, error) {
	f.gotText = text
	return f.response, f.err
}

func (f *fakeInference) ExtractFromImage(_ context.Context, _ []byte, mimeType string) (string, error) {
	f.gotMime = mimeType
	return f.response, f.err
}

const goodResponse = `{"title": "Pasta", "ingredients": ["200 g spaghetti"], "steps": ["1. Boil water", "2. Add pasta"]}`

func TestExtractFromText(t *testing.T) {
	fake := &fakeInference{response: goodResponse}
	svc := NewExtractionService(fake)

	recipe, err := svc.ExtractFromText(context.Background(), "some pasted recipe")
	require.NoError(t, err)

	assert.Equal(t, "some pasted recipe", fake.gotText)
	assert.Equal(t, "Pasta", recipe.Title)
	assert.Equal(t, []string{"Boil water", "Add pasta"}, recipe.Steps)
	assert.Equal(t, model.SourceText, recipe.Source)
}

func TestExtractFromImage(t *testing.T) {
	fake := &fakeInference{response: goodResponse}
	svc := NewExtractionService(fake)

	recipe, err := svc.ExtractFromImage(context.Background(), []byte("img"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "image/png", fake.gotMime)
	assert.Equal(t, model.SourceImage, recipe.Source)
}

func TestExtractProviderFailure(t *testing.T) {
	fake := &fakeInference{err: errors.New("connection refused")}
	svc := NewExtractionService(fake)

	_, err := svc.ExtractFromText(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrExtractionUnavailable)

	_, err = svc.ExtractFromImage(context.Background(), []byte("img"), "image/png")
	assert.ErrorIs(t, err, ErrExtractionUnavailable)
}

func TestExtractEmptyResponse(t *testing.T) {
	fake := &fakeInference{response: "   \n  "}
	svc := NewExtractionService(fake)

	_, err := svc.ExtractFromText(context.Background(), "anything")
	assert.ErrorIs(t, err, parser.ErrEmptyExtraction)
}

func TestExtractInsufficientContent(t *testing.T) {
	fake := &fakeInference{response: `{"title": "Just a Title", "ingredients": [], "steps": []}`}
	svc := NewExtractionService(fake)

	_, err := svc.ExtractFromText(context.Background(), "anything")
	assert.ErrorIs(t, err, normalize.ErrInsufficientContent)
}
