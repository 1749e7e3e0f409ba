package services

import (
	"context"
	"errors"
	"path"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vision-relay/internal/logger"
	"vision-relay/internal/models"
)

// Validation errors carry no side effects; the handler maps them to
// user-visible warnings.
var (
	ErrMissingFile   = errors.New("Please upload a file.")
	ErrMissingAPIKey = errors.New("Please enter your OpenAI API key.")
	ErrMissingPrompt = errors.New("Please add a prompt.")
)

type AnalyzeRequest struct {
	APIKey   string
	Prompt   string
	Filename string
	Data     []byte
}

type AnalyzeResult struct {
	Answer  string
	Folder  string
	Cleanup models.CleanupReport
}

// Analyzer runs one full session: validate, render and upload every page,
// retrieve signed URLs, stream the completion, delete what was uploaded.
// Strictly sequential, no retries on any external call.
type Analyzer struct {
	rasterizer *Rasterizer
	store      ObjectStore
	cleaner    *Cleaner
	vision     VisionClient
}

func NewAnalyzer(store ObjectStore, vision VisionClient) *Analyzer {
	return &Analyzer{
		rasterizer: NewRasterizer(store),
		store:      store,
		cleaner:    NewCleaner(store),
		vision:     vision,
	}
}

// Run executes the pipeline. Cleanup of the tracked upload set happens on
// the failure paths as well; its own failures are reported in the result,
// never as an error.
func (a *Analyzer) Run(ctx context.Context, req AnalyzeRequest, onDelta func(string)) (AnalyzeResult, error) {
	if err := validate(req); err != nil {
		return AnalyzeResult{}, err
	}

	// Request-scoped namespace: identical filenames never collide.
	folder := uuid.NewString() + "/" + path.Base(req.Filename)
	result := AnalyzeResult{Folder: folder}

	uploaded, err := a.rasterizer.Rasterize(req.Data, folder)
	if err != nil {
		result.Cleanup = a.cleaner.RemovePaths(uploaded)
		return result, err
	}

	urls, err := FolderURLs(a.store, folder)
	if err != nil {
		result.Cleanup = a.cleaner.RemovePaths(uploaded)
		return result, err
	}

	logger.WithFields(logrus.Fields{
		"folder": folder,
		"pages":  len(uploaded),
	}).Info("Session uploaded, starting completion stream")

	answer, err := a.vision.StreamCompletion(ctx, req.APIKey, req.Prompt, urls, onDelta)
	result.Answer = answer
	result.Cleanup = a.cleaner.RemovePaths(uploaded)
	if err != nil {
		return result, err
	}

	logger.WithFields(logrus.Fields{
		"folder":       folder,
		"answerLength": len(answer),
		"deletedCount": len(result.Cleanup.Deleted),
		"failedCount":  len(result.Cleanup.Failed),
	}).Info("Session completed")

	return result, nil
}

func validate(req AnalyzeRequest) error {
	if len(req.Data) == 0 {
		return ErrMissingFile
	}
	if req.APIKey == "" {
		return ErrMissingAPIKey
	}
	if req.Prompt == "" {
		return ErrMissingPrompt
	}
	return nil
}
