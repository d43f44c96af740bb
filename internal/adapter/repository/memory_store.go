package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"tripmate/internal/domain/repository"
	"tripmate/pkg/errors"
)

// MemoryStore is an in-memory tree store used in tests and local
// development. It mirrors the Realtime Database semantics the repositories
// rely on: absent paths read as null, deletes of absent paths succeed, and
// generated keys are monotonic.
type MemoryStore struct {
	mu   sync.RWMutex
	root map[string]interface{}
	seq  int64

	// FailQueries makes QueryByChild fail, forcing callers onto their
	// full-scan fallback path.
	FailQueries bool
	// SetHook, when non-nil, runs before every Set; returning an error
	// aborts the write. Used to simulate a crash between dual writes.
	SetHook func(path string) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{root: make(map[string]interface{})}
}

func splitPath(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

// normalize round-trips v through JSON so stored values look exactly like
// what the real store would hand back.
func normalize(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MemoryStore) lookup(path string) (interface{}, bool) {
	var node interface{} = s.root
	for _, seg := range splitPath(path) {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		node, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

func (s *MemoryStore) put(path string, value interface{}) {
	segs := splitPath(path)
	node := s.root
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node[seg].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			node[seg] = child
		}
		node = child
	}
	leaf := segs[len(segs)-1]
	if value == nil {
		delete(node, leaf)
		return
	}
	node[leaf] = value
}

func (s *MemoryStore) Get(ctx context.Context, path string, v interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.lookup(path)
	if !ok {
		return json.Unmarshal([]byte("null"), v)
	}
	raw, err := json.Marshal(node)
	if err != nil {
		return errors.Unavailable("Store read failed", err)
	}
	return json.Unmarshal(raw, v)
}

func (s *MemoryStore) Set(ctx context.Context, path string, v interface{}) error {
	if s.SetHook != nil {
		if err := s.SetHook(path); err != nil {
			return errors.Unavailable("Store write failed", err)
		}
	}

	value, err := normalize(v)
	if err != nil {
		return errors.Unavailable("Store write failed", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(path, value)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, v := range fields {
		value, err := normalize(v)
		if err != nil {
			return errors.Unavailable("Store update failed", err)
		}
		s.put(path+"/"+key, value)
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(path, nil)
	return nil
}

func (s *MemoryStore) GenerateKey(ctx context.Context, path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("-K%012d", s.seq), nil
}

func (s *MemoryStore) QueryByChild(ctx context.Context, path, child string, value interface{}) ([]repository.Snapshot, error) {
	if s.FailQueries {
		return nil, errors.Unavailable("Store query failed", fmt.Errorf("index unavailable for %q", child))
	}

	want, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Unavailable("Store query failed", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.lookup(path)
	if !ok {
		return nil, nil
	}
	children, ok := node.(map[string]interface{})
	if !ok {
		return nil, nil
	}

	var snapshots []repository.Snapshot
	for key, childNode := range children {
		m, ok := childNode.(map[string]interface{})
		if !ok {
			continue
		}
		got, err := json.Marshal(m[child])
		if err != nil || string(got) != string(want) {
			continue
		}
		raw, err := json.Marshal(childNode)
		if err != nil {
			continue
		}
		snapshots = append(snapshots, repository.Snapshot{Key: key, Data: raw})
	}

	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Key < snapshots[j].Key })
	return snapshots, nil
}
