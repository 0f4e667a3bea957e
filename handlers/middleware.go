package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// multipartOverhead is the room left for form fields and part headers on
// top of the file size limit
const multipartOverhead = 64 << 10

// MaxBodySize caps the request body at limit bytes. limit <= 0 disables it.
func MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

func bodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
