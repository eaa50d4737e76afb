package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"union-ganadera/internal/ports/blob"
)

type object struct {
	data        []byte
	contentType string
	metadata    map[string]string
}

// Store guarda objetos en memoria (modo dev y tests).
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
	now     func() time.Time
}

// New: baseURL se usa para armar URLs de descarga falsas.
func New(baseURL string) *Store {
	if baseURL == "" {
		baseURL = "memory://blobs"
	}
	return &Store{objects: map[string]object{}, baseURL: baseURL, now: time.Now}
}

func (s *Store) Put(_ context.Context, key string, r io.Reader, opts blob.PutOptions) (blob.Info, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return blob.Info{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = object{data: buf.Bytes(), contentType: opts.ContentType, metadata: opts.Metadata}
	return blob.Info{Key: key, Size: int64(buf.Len()), ContentType: opts.ContentType}, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return fmt.Errorf("%w: %s", blob.ErrNotFound, key)
	}
	delete(s.objects, key)
	return nil
}

func (s *Store) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", blob.ErrNotFound, key)
	}
	exp := s.now().Add(ttl).Unix()
	return fmt.Sprintf("%s/%s?expires=%d", s.baseURL, url.PathEscape(key), exp), nil
}

// Has es para tests.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok
}
