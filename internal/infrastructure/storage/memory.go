package storage

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/application/ledger"
)

// Object is a stored blob
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryProofStore keeps proofs in process memory. Download URLs point at
// memory:// and are only meaningful to tests.
type MemoryProofStore struct {
	mu      sync.RWMutex
	objects map[string]Object
	failOn  map[string]error
}

// NewMemoryProofStore creates an empty MemoryProofStore
func NewMemoryProofStore() *MemoryProofStore {
	return &MemoryProofStore{
		objects: make(map[string]Object),
		failOn:  make(map[string]error),
	}
}

// FailOn makes every later call of op ("upload", "delete" or "presign")
// return err. A nil err clears the failure.
func (m *MemoryProofStore) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failOn, op)
		return
	}
	m.failOn[op] = err
}

// Upload stores a copy of data
func (m *MemoryProofStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn["upload"]; err != nil {
		return err
	}
	m.objects[key] = Object{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

// Delete removes the object; a missing key is not an error
func (m *MemoryProofStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn["delete"]; err != nil {
		return err
	}
	delete(m.objects, key)
	return nil
}

// PresignGet returns a memory:// URL for a stored key
func (m *MemoryProofStore) PresignGet(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failOn["presign"]; err != nil {
		return "", time.Time{}, err
	}
	if _, ok := m.objects[key]; !ok {
		return "", time.Time{}, fmt.Errorf("proof %s not found", key)
	}
	expiresAt := time.Now().Add(expiresIn)
	u := url.URL{Scheme: "memory", Host: "proofs", Path: "/" + key}
	q := u.Query()
	q.Set("expires", fmt.Sprint(expiresAt.Unix()))
	u.RawQuery = q.Encode()
	return u.String(), expiresAt, nil
}

// Get returns a stored object
func (m *MemoryProofStore) Get(key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}

// Len returns the number of stored objects
func (m *MemoryProofStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// Ensure MemoryProofStore implements ledger.ProofStorage
var _ ledger.ProofStorage = (*MemoryProofStore)(nil)
