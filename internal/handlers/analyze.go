package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"vision-relay/internal/logger"
	"vision-relay/internal/services"
)

// SessionRunner is what the handler needs from the orchestrator.
type SessionRunner interface {
	Run(ctx context.Context, req services.AnalyzeRequest, onDelta func(string)) (services.AnalyzeResult, error)
}

type AnalyzeHandler struct {
	analyzer SessionRunner
}

func NewAnalyzeHandler(analyzer SessionRunner) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

// Analyze takes a multipart upload (file + prompt) and streams the model's
// answer back as chunked plain text, one flush per delta.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var data []byte
	var filename string

	fileHeader, err := c.FormFile("file")
	if err == nil {
		f, openErr := fileHeader.Open()
		if openErr != nil {
			logger.WithFields(logrus.Fields{
				"filename": fileHeader.Filename,
				"error":    openErr.Error(),
			}).Error("Failed to open uploaded file")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
			return
		}
		defer f.Close()

		data, err = io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
			return
		}
		filename = fileHeader.Filename
	}

	req := services.AnalyzeRequest{
		APIKey:   APIKey(c),
		Prompt:   c.PostForm("prompt"),
		Filename: filename,
		Data:     data,
	}

	logger.WithFields(logrus.Fields{
		"filename": req.Filename,
		"size":     len(req.Data),
	}).Info("Received /api/analyze request")

	streamed := false
	result, err := h.analyzer.Run(c.Request.Context(), req, func(delta string) {
		if !streamed {
			c.Header("Content-Type", "text/plain; charset=utf-8")
			c.Writer.WriteHeader(http.StatusOK)
			streamed = true
		}
		c.Writer.WriteString(delta)
		c.Writer.Flush()
	})

	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFile),
			errors.Is(err, services.ErrMissingAPIKey),
			errors.Is(err, services.ErrMissingPrompt):
			c.JSON(http.StatusBadRequest, gin.H{"warning": err.Error()})
		case errors.Is(err, services.ErrTooManyPages):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.WithFields(logrus.Fields{
				"folder": result.Folder,
				"error":  err.Error(),
			}).Error("Analyze session failed")
			if streamed {
				// The status line is gone once deltas were flushed, so the
				// banner goes onto the stream like the partial output did.
				c.Writer.WriteString("\n\nAn error occurred: " + err.Error() + "\n")
				c.Writer.Flush()
			} else {
				c.JSON(http.StatusBadGateway, gin.H{"error": "An error occurred: " + err.Error()})
			}
		}
		return
	}

	if !streamed {
		// Stream produced no deltas; return whatever accumulated (possibly
		// empty) so the caller always gets a body.
		c.String(http.StatusOK, result.Answer)
	}
}
