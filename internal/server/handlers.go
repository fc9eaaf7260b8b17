package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ukaji3/deckfill-go/pkg/deckfill"
)

const (
	pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	outputFilename  = "updated.pptx"
)

// ErrMissingField indicates a required multipart field was not uploaded.
var ErrMissingField = errors.New("missing upload field")

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleUpdate takes the "excel" and "ppt" uploads and returns the updated deck.
func (s *Server) handleUpdate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	excelData, err := readUpload(c, "excel")
	if err != nil {
		s.abort(c, err)
		return
	}
	pptData, err := readUpload(c, "ppt")
	if err != nil {
		s.abort(c, err)
		return
	}

	logger := s.logger.With(zapRequestID(c))
	out, err := deckfill.Update(excelData, pptData, deckfill.Options{
		Mapping: s.cfg.Mapping,
		Logger:  logger,
	})
	if err != nil {
		s.abort(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", outputFilename))
	c.Data(http.StatusOK, pptxContentType, out)
}

func readUpload(c *gin.Context, field string) ([]byte, error) {
	file, _, err := c.Request.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, fmt.Errorf("%w: %q", ErrMissingField, field)
		}
		return nil, fmt.Errorf("read %q: %w", field, err)
	}
	defer file.Close()

	return io.ReadAll(file)
}

// abort responds with the error, mapping authorization failures to 401 and
// everything else to 400.
func (s *Server) abort(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, ErrUnauthorized) {
		status = http.StatusUnauthorized
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"detail": err.Error()})
}
