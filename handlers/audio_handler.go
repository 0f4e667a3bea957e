package handlers

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"nyaymitra-backend/storage"
)

// AudioHandler streams synthesized audio from storage
type AudioHandler struct {
	store storage.Storage
}

// NewAudioHandler creates a new audio handler
func NewAudioHandler(store storage.Storage) *AudioHandler {
	return &AudioHandler{store: store}
}

// Serve handles GET /static/audio/:name
func (h *AudioHandler) Serve(c *gin.Context) {
	name := c.Param("name")
	if name != path.Base(name) || path.Ext(name) != ".mp3" {
		respondError(c, http.StatusBadRequest, "INVALID_NAME", "Invalid audio file name")
		return
	}

	reader, err := h.store.Open(c.Request.Context(), name)
	if err != nil {
		respondFailure(c, err)
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, -1, storage.ContentType(name), reader, nil)
}
