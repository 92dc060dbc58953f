package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samcharles93/dzx/pkg/dzx"
)

// containerRecord is one uploaded container. mu guards the container, which
// is not safe for concurrent use on its own.
type containerRecord struct {
	mu        sync.Mutex
	ID        string
	Digest    string
	CreatedAt time.Time
	Container *dzx.Container
}

type ContainerStore struct {
	mu         sync.Mutex
	containers map[string]*containerRecord
}

func NewContainerStore() *ContainerStore {
	return &ContainerStore{
		containers: make(map[string]*containerRecord),
	}
}

func (s *ContainerStore) Create(c *dzx.Container, digest string, now time.Time) *containerRecord {
	rec := &containerRecord{
		ID:        newContainerID(),
		Digest:    digest,
		CreatedAt: now,
		Container: c,
	}
	s.mu.Lock()
	s.containers[rec.ID] = rec
	s.mu.Unlock()
	return rec
}

func (s *ContainerStore) Get(id string) (*containerRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.containers[id]
	return rec, ok
}

func (s *ContainerStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.containers[id]; !ok {
		return false
	}
	delete(s.containers, id)
	return true
}

func (s *ContainerStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.containers)
}

func newContainerID() string {
	return "dzx_" + uuid.NewString()
}
