package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cookpress/backend/internal/middleware"
	"github.com/cookpress/backend/internal/render"
	"github.com/cookpress/backend/internal/service"
	"github.com/cookpress/backend/internal/store"
)

// ExportHandler renders the session's collection into one composite
// cookbook document.
type ExportHandler struct {
	sessions  *store.Sessions
	renderers map[string]render.Renderer
	share     *service.ShareService
}

// NewExportHandler creates an ExportHandler. share may be nil, which
// disables the share endpoint.
func NewExportHandler(sessions *store.Sessions, title string, share *service.ShareService) *ExportHandler {
	return &ExportHandler{
		sessions: sessions,
		renderers: map[string]render.Renderer{
			"html":     &render.HTMLRenderer{Title: title},
			"pdf":      &render.PDFRenderer{Title: title},
			"markdown": &render.MarkdownRenderer{Title: title},
		},
		share: share,
	}
}

// RegisterRoutes registers the export routes
func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	export := router.Group("/export")
	{
		export.GET("", h.Export)
		export.POST("/share", h.Share)
	}
}

// Export renders the full collection in the requested format. An empty
// collection still renders a valid document.
func (h *ExportHandler) Export(c *gin.Context) {
	renderer, ok := h.renderer(c)
	if !ok {
		return
	}
	sessionStore, ok := h.sessionStore(c)
	if !ok {
		return
	}

	data, err := renderer.Render(sessionStore.All())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render cookbook"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="cookbook`+renderer.Extension()+`"`)
	c.Data(http.StatusOK, renderer.ContentType(), data)
}

// Share renders the collection and uploads it to S3, returning a public
// URL.
func (h *ExportHandler) Share(c *gin.Context) {
	if h.share == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sharing is not configured"})
		return
	}
	renderer, ok := h.renderer(c)
	if !ok {
		return
	}
	sessionStore, ok := h.sessionStore(c)
	if !ok {
		return
	}

	data, err := renderer.Render(sessionStore.All())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render cookbook"})
		return
	}

	url, err := h.share.Upload(c.Request.Context(), data, renderer.ContentType(), renderer.Extension())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to upload cookbook"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *ExportHandler) renderer(c *gin.Context) (render.Renderer, bool) {
	format := c.DefaultQuery("format", "html")
	renderer, ok := h.renderers[format]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported export format: " + format})
		return nil, false
	}
	return renderer, true
}

func (h *ExportHandler) sessionStore(c *gin.Context) (*store.Store, bool) {
	id, ok := middleware.SessionID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
		return nil, false
	}
	return h.sessions.Get(id), true
}
