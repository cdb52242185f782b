package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStore keeps uploaded blobs in a map. Used by tests and by local
// development without cloud credentials.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte

	// UploadErr, when set, fails the next Upload and is then cleared.
	UploadErr error
}

// NewMemoryStore creates an empty in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: map[string][]byte{}}
}

func (s *MemoryStore) Upload(_ context.Context, bucket, object, _ string, r io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UploadErr != nil {
		err := s.UploadErr
		s.UploadErr = nil
		return "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.blobs[bucket+"/"+object] = data
	return s.PublicURL(bucket, object), nil
}

func (s *MemoryStore) PublicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}

// Blob returns the stored bytes for bucket/object, for test assertions.
func (s *MemoryStore) Blob(bucket, object string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[bucket+"/"+object]
	return data, ok
}
