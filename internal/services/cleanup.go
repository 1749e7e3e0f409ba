package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"vision-relay/internal/logger"
	"vision-relay/internal/models"
)

// Cleaner removes session objects from storage. Every pass is best-effort:
// a single object's failure is recorded and never aborts the rest.
type Cleaner struct {
	store ObjectStore
}

func NewCleaner(store ObjectStore) *Cleaner {
	return &Cleaner{store: store}
}

// RemovePaths deletes the tracked upload set of one session.
func (c *Cleaner) RemovePaths(paths []string) models.CleanupReport {
	var report models.CleanupReport

	for _, objectPath := range paths {
		if err := c.store.Remove(objectPath); err != nil {
			logger.WithFields(logrus.Fields{
				"path":  objectPath,
				"error": err.Error(),
			}).Warn("Failed to delete object")
			report.Failed = append(report.Failed, models.FailedObject{
				Path:  objectPath,
				Error: err.Error(),
			})
			continue
		}
		report.Deleted = append(report.Deleted, objectPath)
	}

	if len(report.Failed) > 0 {
		logger.WithFields(logrus.Fields{
			"deletedCount": len(report.Deleted),
			"failedCount":  len(report.Failed),
		}).Warn("Cleanup finished with leftover objects")
	}

	return report
}

// PurgeFolder rediscovers the live object set under folder by signing every
// listed member and recovering its storage path from the signed URL, then
// deletes each one independently. This is the recovery path for sessions
// that died before their own cleanup ran.
func (c *Cleaner) PurgeFolder(folder string) (models.CleanupReport, error) {
	urls, err := FolderURLs(c.store, folder)
	if err != nil {
		return models.CleanupReport{}, err
	}

	paths := make([]string, 0, len(urls))
	for _, signed := range urls {
		objectPath, err := ObjectPathFromSignedURL(signed)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"url":   signed,
				"error": err.Error(),
			}).Warn("Could not recover object path from signed URL")
			continue
		}
		paths = append(paths, objectPath)
	}

	return c.RemovePaths(paths), nil
}

// ObjectPathFromSignedURL extracts the bucket-relative object path from a
// signed URL of the form .../object/sign/<bucket>/<path>?token=... The
// path segment is returned URL-decoded.
func ObjectPathFromSignedURL(signed string) (string, error) {
	u, err := url.Parse(signed)
	if err != nil {
		return "", fmt.Errorf("failed to parse signed URL: %w", err)
	}

	const marker = "/object/sign/"
	idx := strings.Index(u.Path, marker)
	if idx < 0 {
		return "", fmt.Errorf("unexpected signed URL path: %s", u.Path)
	}

	// Skip the bucket segment, keep the object path after it.
	rest := u.Path[idx+len(marker):]
	slash := strings.IndexByte(rest, '/')
	if slash < 0 || slash == len(rest)-1 {
		return "", fmt.Errorf("signed URL carries no object path: %s", u.Path)
	}

	return rest[slash+1:], nil
}
