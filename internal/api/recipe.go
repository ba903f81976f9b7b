package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cookpress/backend/internal/middleware"
	"github.com/cookpress/backend/internal/model"
	"github.com/cookpress/backend/internal/normalize"
	"github.com/cookpress/backend/internal/parser"
	"github.com/cookpress/backend/internal/service"
	"github.com/cookpress/backend/internal/store"
)

// RecipeHandler serves extraction and collection management for the
// calling session's cookbook.
type RecipeHandler struct {
	sessions  *store.Sessions
	extractor *service.ExtractionService
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(sessions *store.Sessions, extractor *service.ExtractionService) *RecipeHandler {
	return &RecipeHandler{
		sessions:  sessions,
		extractor: extractor,
	}
}

// RegisterRoutes registers the recipe routes. Extra middleware (the
// extraction rate limiter) applies only to the extraction endpoint.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, extractGuards ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, extractGuards...), h.Extract)
	router.POST("/extract", handlers...)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.DELETE("/:index", h.RemoveRecipe)
		recipes.POST("/reorder", h.ReorderRecipes)
	}
}

// Extract runs one extraction pass: raw input to the inference provider,
// response through parse and normalize, and only a fully valid recipe into
// the session store. Accepts either JSON {"text": ...} or a multipart
// "image" file.
func (h *RecipeHandler) Extract(c *gin.Context) {
	sessionStore, ok := h.sessionStore(c)
	if !ok {
		return
	}

	var (
		recipe model.Recipe
		err    error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		recipe, err = h.extractImage(c)
	} else {
		recipe, err = h.extractText(c)
	}
	if err != nil {
		writeExtractionError(c, err)
		return
	}

	position := sessionStore.Add(recipe)
	c.JSON(http.StatusCreated, gin.H{
		"recipe":   recipe,
		"position": position,
	})
}

func (h *RecipeHandler) extractText(c *gin.Context) (model.Recipe, error) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return model.Recipe{}, errBadRequest(err)
	}
	return h.extractor.ExtractFromText(c.Request.Context(), req.Text)
}

func (h *RecipeHandler) extractImage(c *gin.Context) (model.Recipe, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return model.Recipe{}, errBadRequest(err)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return model.Recipe{}, errBadRequest(err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return model.Recipe{}, errBadRequest(err)
	}
	return h.extractor.ExtractFromImage(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"))
}

// ListRecipes returns the session's collection in display order.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	sessionStore, ok := h.sessionStore(c)
	if !ok {
		return
	}
	recipes := sessionStore.All()
	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"count":   len(recipes),
	})
}

// RemoveRecipe deletes the recipe at the given position.
func (h *RecipeHandler) RemoveRecipe(c *gin.Context) {
	sessionStore, ok := h.sessionStore(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe index"})
		return
	}

	if err := sessionStore.Remove(index); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe removed successfully",
		"index":   index,
	})
}

// ReorderRecipes moves one recipe to a new position.
func (h *RecipeHandler) ReorderRecipes(c *gin.Context) {
	sessionStore, ok := h.sessionStore(c)
	if !ok {
		return
	}

	var req struct {
		From *int `json:"from" binding:"required"`
		To   *int `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := sessionStore.Reorder(*req.From, *req.To); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe moved successfully",
		"from":    *req.From,
		"to":      *req.To,
	})
}

func (h *RecipeHandler) sessionStore(c *gin.Context) (*store.Store, bool) {
	id, ok := middleware.SessionID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
		return nil, false
	}
	return h.sessions.Get(id), true
}

// badRequestError marks binding failures so writeExtractionError can tell
// them apart from pipeline failures.
type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }

func errBadRequest(err error) error { return badRequestError{err: err} }

func writeExtractionError(c *gin.Context, err error) {
	var badReq badRequestError
	switch {
	case errors.As(err, &badReq):
		c.JSON(http.StatusBadRequest, gin.H{"error": badReq.Error()})
	case errors.Is(err, service.ErrExtractionUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "extraction service unavailable", "code": "extraction_unavailable"})
	case errors.Is(err, parser.ErrEmptyExtraction):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no recipe content found in the input", "code": "empty_extraction"})
	case errors.Is(err, normalize.ErrInsufficientContent):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "extracted recipe had no ingredients and no steps", "code": "insufficient_content"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to extract recipe"})
	}
}
