package firebase

import (
	"context"
	"encoding/json"

	"firebase.google.com/go/v4/db"

	"tripmate/internal/domain/repository"
	"tripmate/pkg/errors"
)

type rtdbStore struct {
	client *db.Client
}

// NewRTDBStore wraps a Realtime Database client as the tree store port.
func NewRTDBStore(client *db.Client) repository.Store {
	return &rtdbStore{client: client}
}

func (s *rtdbStore) Get(ctx context.Context, path string, v interface{}) error {
	if err := s.client.NewRef(path).Get(ctx, v); err != nil {
		return errors.Unavailable("Store read failed", err)
	}
	return nil
}

func (s *rtdbStore) Set(ctx context.Context, path string, v interface{}) error {
	if err := s.client.NewRef(path).Set(ctx, v); err != nil {
		return errors.Unavailable("Store write failed", err)
	}
	return nil
}

func (s *rtdbStore) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	if err := s.client.NewRef(path).Update(ctx, fields); err != nil {
		return errors.Unavailable("Store update failed", err)
	}
	return nil
}

func (s *rtdbStore) Delete(ctx context.Context, path string) error {
	if err := s.client.NewRef(path).Delete(ctx); err != nil {
		return errors.Unavailable("Store delete failed", err)
	}
	return nil
}

func (s *rtdbStore) GenerateKey(ctx context.Context, path string) (string, error) {
	// Push with a nil value reserves a key without materializing a child.
	ref, err := s.client.NewRef(path).Push(ctx, nil)
	if err != nil {
		return "", errors.Unavailable("Store key generation failed", err)
	}
	return ref.Key, nil
}

func (s *rtdbStore) QueryByChild(ctx context.Context, path, child string, value interface{}) ([]repository.Snapshot, error) {
	nodes, err := s.client.NewRef(path).OrderByChild(child).EqualTo(value).GetOrdered(ctx)
	if err != nil {
		return nil, errors.Unavailable("Store query failed", err)
	}

	snapshots := make([]repository.Snapshot, 0, len(nodes))
	for _, node := range nodes {
		var raw json.RawMessage
		if err := node.Unmarshal(&raw); err != nil {
			continue
		}
		snapshots = append(snapshots, repository.Snapshot{Key: node.Key(), Data: raw})
	}

	return snapshots, nil
}
