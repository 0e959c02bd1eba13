package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// MemoryStore keeps every collection in memory and, when path is set,
// rewrites the JSON file after each mutation using the layout {"collection": [records...]}.
type MemoryStore struct {
	mu     sync.RWMutex
	path   string
	data   map[string][]Record
	logger *zap.Logger
}

func NewMemoryStore(path string, logger ...*zap.Logger) (*MemoryStore, error) {
	l := zap.L().Named("store.memory")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("store.memory")
	}

	s := &MemoryStore{
		path:   path,
		data:   make(map[string][]Record),
		logger: l,
	}

	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		l.Info("store file not found, starting empty", zap.String("path", path))
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}

	var decoded map[string][]Record
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode store file: %w", err)
	}
	for name, records := range decoded {
		if records == nil {
			records = []Record{}
		}
		s.data[name] = records
	}

	l.Info("store file loaded", zap.String("path", path), zap.Int("collections", len(s.data)))
	return s, nil
}

func (s *MemoryStore) Collection(name string) Collection {
	return &memoryCollection{store: s, name: name}
}

func (s *MemoryStore) Collections(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

// persistLocked writes the file through a temp file and rename. Callers hold mu
// and restore the previous data when it fails.
func (s *MemoryStore) persistLocked() error {
	if s.path == "" {
		return nil
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

type memoryCollection struct {
	store *MemoryStore
	name  string
}

func (c *memoryCollection) Name() string { return c.name }

func (c *memoryCollection) All(ctx context.Context) ([]Record, error) {
	return c.Filter(ctx, nil)
}

func (c *memoryCollection) Get(ctx context.Context, id any) (Record, error) {
	return c.Find(ctx, func(r Record) bool { return matchesID(r, id) })
}

func (c *memoryCollection) Find(ctx context.Context, pred Predicate) (Record, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	for _, r := range c.store.data[c.name] {
		if pred == nil || pred(r) {
			return r.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (c *memoryCollection) Filter(ctx context.Context, pred Predicate) ([]Record, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	out := make([]Record, 0, len(c.store.data[c.name]))
	for _, r := range c.store.data[c.name] {
		if pred == nil || pred(r) {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (c *memoryCollection) Count(ctx context.Context) (int, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return len(c.store.data[c.name]), nil
}

func (c *memoryCollection) Push(ctx context.Context, rec Record) (Record, error) {
	normalized, err := Normalize(rec)
	if err != nil {
		return nil, err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	records := c.store.data[c.name]
	if IDString(normalized["id"]) == "" {
		normalized["id"] = NextID(records)
	} else {
		for _, r := range records {
			if matchesID(r, normalized["id"]) {
				return nil, ErrDuplicateID
			}
		}
	}

	c.store.data[c.name] = append(records[:len(records):len(records)], normalized)
	if err := c.store.persistLocked(); err != nil {
		c.store.data[c.name] = records
		c.store.logger.Error("persist after push failed", zap.String("collection", c.name), zap.Error(err))
		return nil, err
	}
	return normalized.Clone(), nil
}

func (c *memoryCollection) Assign(ctx context.Context, id any, patch Record) (Record, error) {
	normalized, err := Normalize(patch)
	if err != nil {
		return nil, err
	}
	delete(normalized, "id")
	return c.update(id, func(current Record) Record {
		return Merge(current, normalized)
	})
}

func (c *memoryCollection) Replace(ctx context.Context, id any, rec Record) (Record, error) {
	normalized, err := Normalize(rec)
	if err != nil {
		return nil, err
	}
	return c.update(id, func(current Record) Record {
		normalized["id"] = current["id"]
		return normalized
	})
}

func (c *memoryCollection) update(id any, fn func(Record) Record) (Record, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	records := c.store.data[c.name]
	for i, r := range records {
		if !matchesID(r, id) {
			continue
		}
		records[i] = fn(r)
		if err := c.store.persistLocked(); err != nil {
			records[i] = r
			c.store.logger.Error("persist after update failed", zap.String("collection", c.name), zap.Error(err))
			return nil, err
		}
		return records[i].Clone(), nil
	}
	return nil, ErrNotFound
}

func (c *memoryCollection) Remove(ctx context.Context, id any) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	records := c.store.data[c.name]
	for i, r := range records {
		if !matchesID(r, id) {
			continue
		}
		c.store.data[c.name] = append(records[:i:i], records[i+1:]...)
		if err := c.store.persistLocked(); err != nil {
			c.store.data[c.name] = records
			c.store.logger.Error("persist after remove failed", zap.String("collection", c.name), zap.Error(err))
			return err
		}
		return nil
	}
	return ErrNotFound
}
