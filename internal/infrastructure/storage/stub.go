package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"
)

// StubObjectStorage keeps objects in memory. It backs local development and tests
// when no S3-compatible backend is configured.
type StubObjectStorage struct {
	// BaseURL prefixes every generated URL.
	// Defaults to "https://storage.example.com".
	BaseURL string

	mu      sync.RWMutex
	objects map[string]stubObject
}

type stubObject struct {
	data        []byte
	contentType string
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage(baseURL string) *StubObjectStorage {
	if baseURL == "" {
		baseURL = "https://storage.example.com"
	}
	return &StubObjectStorage{
		BaseURL: baseURL,
		objects: make(map[string]stubObject),
	}
}

// Upload stores the object in memory
func (s *StubObjectStorage) Upload(ctx context.Context, storageKey string, body io.Reader, size int64, contentType string) error {
	if storageKey == "" {
		return errKeyRequired
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[storageKey] = stubObject{data: data, contentType: contentType}
	return nil
}

// GenerateUploadURL returns a fake presigned URL. The object is registered
// immediately so upload confirmation works without a client-side PUT.
func (s *StubObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errKeyRequired
	}
	s.mu.Lock()
	if _, ok := s.objects[storageKey]; !ok {
		s.objects[storageKey] = stubObject{contentType: contentType}
	}
	s.mu.Unlock()

	expiresAt := time.Now().Add(expiresIn)
	return publicURL(s.BaseURL, "upload/"+storageKey) + "?expires=" + expiresAt.Format(time.RFC3339), expiresAt, nil
}

// DeleteObject removes the object. Deleting a missing object succeeds.
func (s *StubObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errKeyRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// ObjectExists reports whether the object was uploaded
func (s *StubObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errKeyRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

// Object returns a copy of a stored object's bytes
func (s *StubObjectStorage) Object(storageKey string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[storageKey]
	if !ok {
		return nil, false
	}
	return bytes.Clone(obj.data), true
}

// PublicURL returns the URL under which an object is served
func (s *StubObjectStorage) PublicURL(storageKey string) string {
	return publicURL(s.BaseURL, storageKey)
}

// KeyFromURL recovers the object key of a URL produced by PublicURL
func (s *StubObjectStorage) KeyFromURL(rawURL string) (string, bool) {
	return keyFromURL(s.BaseURL, rawURL)
}
