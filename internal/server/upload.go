package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openbill/invoicecraft/internal/logo"
)

// UploadLogo accepts a multipart "logo" file and returns its public URL.
func (s *Server) UploadLogo(c *gin.Context) {
	file, header, err := c.Request.FormFile("logo")
	if err != nil {
		AbortWithError(c, newValidationError("logo", "missing_file", "logo file is required"))
		return
	}
	defer file.Close()

	// Read one byte past the limit so oversized uploads fail cleanly.
	data, err := io.ReadAll(io.LimitReader(file, logo.MaxSize+1))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	url, err := s.logos.Save(header.Filename, data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"logoUrl": url}})
}
