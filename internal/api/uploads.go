package api

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/gfgm/gfgm/backend/internal/service"
	"github.com/gfgm/gfgm/backend/internal/types"
)

// UploadHandler serves stored images by name
type UploadHandler struct {
	store service.ImageStore
}

func NewUploadHandler(store service.ImageStore) *UploadHandler {
	return &UploadHandler{store: store}
}

func (h *UploadHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/uploads/:filename", h.ServeImage)
}

func (h *UploadHandler) ServeImage(c *gin.Context) {
	name := c.Param("filename")
	if h.store == nil {
		c.Error(types.NotFoundf("image %q", name))
		return
	}

	rc, err := h.store.Open(c.Request.Context(), name)
	if err != nil {
		c.Error(err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}
