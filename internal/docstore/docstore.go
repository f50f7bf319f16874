package docstore

import (
	"context"
	"errors"
)

// ErrDocumentNotFound is returned when no document lives at the given path.
var ErrDocumentNotFound = errors.New("document not found")

// Store is a path-keyed JSON document store. Paths are slash separated,
// e.g. users/{uid}/capabilityProfile or users/{uid}/quests/daily/history/2026-08-31.
type Store interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Set(ctx context.Context, path string, doc []byte) error
	Delete(ctx context.Context, path string) error
	// DeleteTree removes the document at path and every document below it.
	DeleteTree(ctx context.Context, path string) error
	// ListUserIDs returns the ids of all users that have at least one document.
	ListUserIDs(ctx context.Context) ([]string, error)
}
