package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookpress/backend/internal/middleware"
	"github.com/cookpress/backend/internal/model"
	"github.com/cookpress/backend/internal/service"
	"github.com/cookpress/backend/internal/store"
)

// fakeInference returns a canned model response so handler tests never
// touch the network.
type fakeInference struct {
	response string
	err      error
}

func (f *fakeInference) ExtractFromText(context.Context, string) (string, error) {
	return f.response, f.err
}

func (f *fakeInference) ExtractFromImage(context.Context, []byte, string) (string, error) {
	return f.response, f.err
}

func newTestRouter(fake service.InferenceClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	sessions := store.NewSessions(time.Hour)
	extractor := service.NewExtractionService(fake)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Session("test-secret", time.Hour))
	NewRecipeHandler(sessions, extractor).RegisterRoutes(v1)
	NewExportHandler(sessions, "Test Cookbook", nil).RegisterRoutes(v1)
	return router
}

type client struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

// do performs one request, keeping the session token across calls so a
// test acts as a single client.
func (c *client) do(method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	if token := w.Header().Get(middleware.TokenHeader); token != "" {
		c.token = token
	}
	return w
}

func (c *client) extractText(text string) *httptest.ResponseRecorder {
	body, err := json.Marshal(map[string]string{"text": text})
	require.NoError(c.t, err)
	return c.do(http.MethodPost, "/api/v1/extract", "application/json", body)
}

func (c *client) listTitles() []string {
	w := c.do(http.MethodGet, "/api/v1/recipes", "", nil)
	require.Equal(c.t, http.StatusOK, w.Code)

	var resp struct {
		Recipes []model.Recipe `json:"recipes"`
		Count   int            `json:"count"`
	}
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(c.t, resp.Recipes, resp.Count)

	titles := make([]string, len(resp.Recipes))
	for i, r := range resp.Recipes {
		titles[i] = r.Title
	}
	return titles
}

const soupResponse = `{"title": "Grandma's Soup", "ingredients": ["2 carrots", "1 onion"], "steps": ["1. Chop vegetables", "2. Simmer 20 minutes"]}`

func namedResponse(title string) string {
	return `{"title": "` + title + `", "ingredients": ["1 thing"], "steps": ["do it"]}`
}

func TestExtractText(t *testing.T) {
	c := &client{t: t, router: newTestRouter(&fakeInference{response: soupResponse})}

	w := c.extractText("grandma's handwritten soup recipe")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Recipe   model.Recipe `json:"recipe"`
		Position int          `json:"position"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Position)
	assert.Equal(t, "Grandma's Soup", resp.Recipe.Title)
	assert.Equal(t, []string{"2 carrots", "1 onion"}, resp.Recipe.Ingredients)
	assert.Equal(t, []string{"Chop vegetables", "Simmer 20 minutes"}, resp.Recipe.Steps)
	assert.Equal(t, model.SourceText, resp.Recipe.Source)

	// The recipe landed in this session's collection.
	assert.Equal(t, []string{"Grandma's Soup"}, c.listTitles())
}

func TestExtractImage(t *testing.T) {
	c := &client{t: t, router: newTestRouter(&fakeInference{response: soupResponse})}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "recipe.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := c.do(http.MethodPost, "/api/v1/extract", mw.FormDataContentType(), buf.Bytes())
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Recipe model.Recipe `json:"recipe"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.SourceImage, resp.Recipe.Source)
}

func TestExtractErrorMapping(t *testing.T) {
	t.Run("provider unavailable", func(t *testing.T) {
		c := &client{t: t, router: newTestRouter(&fakeInference{err: errors.New("timeout")})}
		w := c.extractText("anything")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "extraction_unavailable")
	})

	t.Run("empty extraction", func(t *testing.T) {
		c := &client{t: t, router: newTestRouter(&fakeInference{response: "  \n "})}
		w := c.extractText("anything")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "empty_extraction")
	})

	t.Run("insufficient content", func(t *testing.T) {
		c := &client{t: t, router: newTestRouter(&fakeInference{response: `{"title": "Just a Title"}`})}
		w := c.extractText("anything")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "insufficient_content")
	})

	t.Run("missing text field", func(t *testing.T) {
		c := &client{t: t, router: newTestRouter(&fakeInference{response: soupResponse})}
		w := c.do(http.MethodPost, "/api/v1/extract", "application/json", []byte(`{"nope": 1}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("multipart without image", func(t *testing.T) {
		c := &client{t: t, router: newTestRouter(&fakeInference{response: soupResponse})}
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("note", "no file here"))
		require.NoError(t, mw.Close())

		w := c.do(http.MethodPost, "/api/v1/extract", mw.FormDataContentType(), buf.Bytes())
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	// A failed extraction must not grow the collection.
	c := &client{t: t, router: newTestRouter(&fakeInference{response: ""})}
	c.extractText("anything")
	assert.Empty(t, c.listTitles())
}

func TestSessionsAreIsolated(t *testing.T) {
	router := newTestRouter(&fakeInference{response: soupResponse})

	alice := &client{t: t, router: router}
	alice.extractText("soup")
	assert.Len(t, alice.listTitles(), 1)

	bob := &client{t: t, router: router}
	assert.Empty(t, bob.listTitles())
}

func TestRemoveRecipe(t *testing.T) {
	fake := &fakeInference{response: namedResponse("r1")}
	c := &client{t: t, router: newTestRouter(fake)}

	c.extractText("one")
	fake.response = namedResponse("r2")
	c.extractText("two")

	w := c.do(http.MethodDelete, "/api/v1/recipes/0", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"r2"}, c.listTitles())

	t.Run("out of range", func(t *testing.T) {
		w := c.do(http.MethodDelete, "/api/v1/recipes/5", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, []string{"r2"}, c.listTitles())
	})

	t.Run("not a number", func(t *testing.T) {
		w := c.do(http.MethodDelete, "/api/v1/recipes/abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReorderRecipes(t *testing.T) {
	fake := &fakeInference{}
	c := &client{t: t, router: newTestRouter(fake)}
	for _, title := range []string{"r1", "r2", "r3"} {
		fake.response = namedResponse(title)
		c.extractText(title)
	}

	w := c.do(http.MethodPost, "/api/v1/recipes/reorder", "application/json", []byte(`{"from": 0, "to": 2}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"r2", "r3", "r1"}, c.listTitles())

	t.Run("to front", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/v1/recipes/reorder", "application/json", []byte(`{"from": 2, "to": 0}`))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"r1", "r2", "r3"}, c.listTitles())
	})

	t.Run("out of range", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/v1/recipes/reorder", "application/json", []byte(`{"from": 0, "to": 9}`))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, []string{"r1", "r2", "r3"}, c.listTitles())
	})

	t.Run("missing field", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/v1/recipes/reorder", "application/json", []byte(`{"from": 0}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("position zero binds", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/v1/recipes/reorder", "application/json", []byte(`{"from": 0, "to": 0}`))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestExport(t *testing.T) {
	c := &client{t: t, router: newTestRouter(&fakeInference{response: soupResponse})}
	c.extractText("soup")

	t.Run("html is the default format", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/v1/export", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="cookbook.html"`, w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Body.String(), "Grandma&#39;s Soup")
		assert.Contains(t, w.Body.String(), "<li>2 carrots</li>")
	})

	t.Run("pdf", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/v1/export?format=pdf", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
	})

	t.Run("markdown", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/v1/export?format=markdown", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "## Grandma's Soup")
	})

	t.Run("unsupported format", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/v1/export?format=docx", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty collection still renders", func(t *testing.T) {
		empty := &client{t: t, router: c.router}
		w := empty.do(http.MethodGet, "/api/v1/export", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No recipes yet.")
	})

	t.Run("share is unavailable without storage", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/v1/export/share", "application/json", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
