package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"vision-relay/internal/logger"
	"vision-relay/internal/models"
)

// FolderPurger is what the handler needs from the cleanup service.
type FolderPurger interface {
	PurgeFolder(folder string) (models.CleanupReport, error)
}

type PurgeHandler struct {
	cleaner FolderPurger
}

func NewPurgeHandler(cleaner FolderPurger) *PurgeHandler {
	return &PurgeHandler{cleaner: cleaner}
}

// PurgeUploads clears leftover page objects for one storage folder. Meant
// for sessions that died before their own cleanup ran; normal sessions
// delete their uploads themselves.
func (h *PurgeHandler) PurgeUploads(c *gin.Context) {
	var request models.PurgeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Validation error for /api/uploads")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	logger.WithFields(logrus.Fields{
		"folder": request.Folder,
	}).Info("Received /api/uploads delete request")

	report, err := h.cleaner.PurgeFolder(request.Folder)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"folder": request.Folder,
			"error":  err.Error(),
		}).Error("Failed to purge folder")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to purge folder",
			"details": err.Error(),
		})
		return
	}

	if len(report.Deleted) == 0 && len(report.Failed) == 0 {
		c.JSON(http.StatusNotFound, models.PurgeResponse{
			Message:        fmt.Sprintf("No objects found for folder %s", request.Folder),
			DeletedObjects: []string{},
			DeletedCount:   0,
		})
		return
	}

	response := models.PurgeResponse{
		Message:        fmt.Sprintf("Successfully deleted %d object(s)", len(report.Deleted)),
		DeletedObjects: report.Deleted,
		DeletedCount:   len(report.Deleted),
	}
	if len(report.Failed) > 0 {
		response.FailedObjects = report.Failed
		response.Message += fmt.Sprintf(". Failed to delete %d object(s)", len(report.Failed))
	}

	logger.WithFields(logrus.Fields{
		"folder":       request.Folder,
		"deletedCount": len(report.Deleted),
		"failedCount":  len(report.Failed),
	}).Info("Purge operation completed")

	c.JSON(http.StatusOK, response)
}
