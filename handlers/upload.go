package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"nyaymitra-backend/models"
	"nyaymitra-backend/service"
	"nyaymitra-backend/storage"
)

// Uploads saves multipart files where the extractors can read them
type Uploads struct {
	store   *storage.LocalStorage
	maxSize int64
}

// NewUploads creates an upload area under dir
func NewUploads(dir string, maxSize int64) (*Uploads, error) {
	store, err := storage.NewLocalStorage(dir)
	if err != nil {
		return nil, err
	}
	return &Uploads{store: store, maxSize: maxSize}, nil
}

// save validates and stores the file in form field. ok is false when a
// response has already been written. The returned cleanup removes the file.
func (u *Uploads) save(c *gin.Context, field string, required bool) (upload *service.Upload, cleanup func(), ok bool) {
	cleanup = func() {}

	fileHeader, err := c.FormFile(field)
	if err != nil {
		if bodyTooLarge(err) {
			u.respondTooLarge(c)
			return nil, cleanup, false
		}
		if !required && (errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart)) {
			return nil, cleanup, true
		}
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return nil, cleanup, false
	}

	if fileHeader.Size > u.maxSize {
		u.respondTooLarge(c)
		return nil, cleanup, false
	}

	format, allowed := models.FormatFromFilename(fileHeader.Filename)
	if !allowed {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE",
			"File type not allowed. Allowed types: PDF, DOCX, DOC, TXT, PNG, JPG, JPEG")
		return nil, cleanup, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", err.Error())
		return nil, cleanup, false
	}
	defer file.Close()

	key, err := u.store.Save(c.Request.Context(), storage.UploadKey(uuid.New(), fileHeader.Filename), file)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", fmt.Sprintf("Failed to save file: %v", err))
		return nil, cleanup, false
	}
	path, err := u.store.Path(key)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", err.Error())
		return nil, cleanup, false
	}

	cleanup = func() {
		if err := u.store.Delete(context.Background(), key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to remove upload")
		}
	}
	return &service.Upload{FilePath: path, Format: format}, cleanup, true
}

func (u *Uploads) respondTooLarge(c *gin.Context) {
	respondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
		fmt.Sprintf("File size exceeds maximum of %d bytes", u.maxSize))
}
