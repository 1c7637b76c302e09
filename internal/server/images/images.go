// Package images stores uploaded catalog images and returns the URL under
// which each one is served.
package images

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("image not found")

type Store interface {
	Put(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// NewKey returns a unique storage key that keeps the upload's extension.
func NewKey(filename string) string {
	d := time.Now()
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("images/%d/%02d/%02d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

type object struct {
	contentType string
	data        []byte
}

// MemoryStore keeps images in process memory. URLs are PublicPath + "/" + key;
// the HTTP layer serves them back through Get.
type MemoryStore struct {
	PublicPath string

	mu      sync.RWMutex
	objects map[string]object
}

func NewMemoryStore(publicPath string) *MemoryStore {
	return &MemoryStore{PublicPath: strings.TrimRight(publicPath, "/"), objects: make(map[string]object)}
}

func (m *MemoryStore) Put(_ context.Context, filename, contentType string, data []byte) (string, error) {
	key := NewKey(filename)

	m.mu.Lock()
	m.objects[key] = object{contentType: contentType, data: append([]byte(nil), data...)}
	m.mu.Unlock()

	return m.PublicPath + "/" + key, nil
}

func (m *MemoryStore) Get(key string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.objects[key]
	if !ok {
		return nil, "", ErrNotFound
	}
	return o.data, o.contentType, nil
}
