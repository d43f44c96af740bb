package repository

import (
	"context"
	"encoding/json"
)

// Store is the tree key-value store the whole subsystem is built on. Every
// operation is atomic at its single path; there are no multi-path
// transactions, which is why relationships are dual-written by the layers
// above.
type Store interface {
	// Get decodes the value at path into v. An absent path decodes as JSON
	// null, so callers pass a pointer-to-pointer and check for nil.
	Get(ctx context.Context, path string, v interface{}) error
	// Set overwrites the value at path.
	Set(ctx context.Context, path string, v interface{}) error
	// Update merges fields into the value at path without touching siblings.
	Update(ctx context.Context, path string, fields map[string]interface{}) error
	// Delete removes the subtree at path. Deleting an absent path is a no-op.
	Delete(ctx context.Context, path string) error
	// GenerateKey reserves a new child key under path without writing data.
	// Generated keys are monotonic, so key order doubles as insertion order.
	GenerateKey(ctx context.Context, path string) (string, error)
	// QueryByChild returns the children of path whose child field equals
	// value, ordered by key. Implementations may fail when the index is
	// unavailable; callers degrade to a full Get and filter in-process.
	QueryByChild(ctx context.Context, path, child string, value interface{}) ([]Snapshot, error)
}

// Snapshot is one child node returned by a query.
type Snapshot struct {
	Key  string
	Data json.RawMessage
}

func (s Snapshot) Unmarshal(v interface{}) error {
	return json.Unmarshal(s.Data, v)
}
