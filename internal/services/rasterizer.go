package services

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"github.com/sirupsen/logrus"

	"vision-relay/internal/config"
	"vision-relay/internal/logger"
)

// ErrTooManyPages is returned before anything is uploaded.
var ErrTooManyPages = errors.New("Too many slides. Limit exceeded (32 slides max.)")

// Rasterizer turns an uploaded document into per-page PNG objects.
type Rasterizer struct {
	store    ObjectStore
	dpi      float64
	maxPages int
}

func NewRasterizer(store ObjectStore) *Rasterizer {
	return &Rasterizer{
		store:    store,
		dpi:      config.RenderDPI,
		maxPages: config.MaxPages,
	}
}

// PageLabel returns the group+letter identifier for a zero-based page
// index: page 0 is "1a", page 25 is "1z", page 26 is "2a". Labels are
// unique and ordered within one document.
func PageLabel(index int) string {
	group := index/26 + 1
	letter := 'a' + rune(index%26)
	return strconv.Itoa(group) + string(letter)
}

// Rasterize opens data as a paged document, renders each page at the fixed
// DPI, encodes it as PNG and uploads it before moving to the next page.
// Plain images open as one-page documents, so they ride the same path as
// PDFs. Returns the uploaded object paths in page order; on mid-document
// failure the paths uploaded so far are still returned so the caller can
// clean them up.
func (r *Rasterizer) Rasterize(data []byte, folder string) ([]string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount > r.maxPages {
		return nil, ErrTooManyPages
	}

	uploaded := make([]string, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		img, err := doc.ImageDPI(i, r.dpi)
		if err != nil {
			return uploaded, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return uploaded, fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}

		objectPath := ObjectPath(folder, PageLabel(i))
		if err := r.store.Upload(objectPath, buf.Bytes()); err != nil {
			return uploaded, err
		}
		uploaded = append(uploaded, objectPath)

		logger.WithFields(logrus.Fields{
			"path":  objectPath,
			"page":  i + 1,
			"pages": pageCount,
		}).Info("Uploaded rendered page")
	}

	return uploaded, nil
}
