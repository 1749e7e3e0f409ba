package models

// FailedObject records one storage object that could not be deleted.
type FailedObject struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// CleanupReport aggregates the outcome of one best-effort deletion pass.
// A non-empty Failed list never aborts the pass that produced it.
type CleanupReport struct {
	Deleted []string
	Failed  []FailedObject
}

type PurgeRequest struct {
	Folder string `json:"folder" binding:"required"`
}

type PurgeResponse struct {
	Message        string         `json:"message"`
	DeletedObjects []string       `json:"deletedObjects"`
	DeletedCount   int            `json:"deletedCount"`
	FailedObjects  []FailedObject `json:"failedObjects,omitempty"`
}
