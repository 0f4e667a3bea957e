package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"nyaymitra-backend/extraction"
	"nyaymitra-backend/service"
	"nyaymitra-backend/speech"
	"nyaymitra-backend/storage"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// errorStatus maps pipeline errors onto HTTP status and error code
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, extraction.ErrUnsupportedFormat):
		return http.StatusBadRequest, "INVALID_FILE_TYPE"
	case errors.Is(err, extraction.ErrExtraction):
		return http.StatusUnprocessableEntity, "EXTRACTION_FAILED"
	case errors.Is(err, service.ErrProviderFailure):
		return http.StatusBadGateway, "GENERATION_FAILED"
	case errors.Is(err, speech.ErrSynthesis):
		return http.StatusBadGateway, "SYNTHESIS_FAILED"
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, storage.ErrInvalidKey):
		return http.StatusBadRequest, "INVALID_NAME"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func respondFailure(c *gin.Context, err error) {
	status, code := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	respondError(c, status, code, err.Error())
}
