package objstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dreams-labs/datacore/pkg/core"
)

// MemStore is an in-memory Store for tests and local development. It is
// safe for concurrent use.
type MemStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

type memObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

var _ Store = (*MemStore)(nil)

// NewMem builds an empty in-memory store.
func NewMem() *MemStore {
	return &MemStore{objects: map[string]memObject{}}
}

// Put writes an object, replacing any existing one under the key.
func (m *MemStore) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.E(core.KindTransient, "objstore.put", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memObject{data: data, contentType: contentType, modified: time.Now().UTC()}
	return nil
}

// Get opens an object for reading.
func (m *MemStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, core.E(core.KindNotFound, "objstore.get", key,
			fmt.Errorf("object not found"))
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Stat returns object metadata without reading the body.
func (m *MemStore) Stat(_ context.Context, key string) (ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return ObjectInfo{}, core.E(core.KindNotFound, "objstore.stat", key,
			fmt.Errorf("object not found"))
	}
	return ObjectInfo{
		Key:          key,
		Size:         int64(len(obj.data)),
		LastModified: obj.modified,
		ContentType:  obj.contentType,
	}, nil
}

// SetModified backdates an object's timestamp. Test hook for freshness
// window behavior.
func (m *MemStore) SetModified(key string, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if obj, ok := m.objects[key]; ok {
		obj.modified = t
		m.objects[key] = obj
	}
}
