package proposal

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"sync"

	"proposal-review-service/internal/notify"
	"proposal-review-service/internal/storage/filestore"
)

var _ filestore.Store = (*memStore)(nil)

// memStore keeps files in memory. failOn makes Save fail for that file name.
type memStore struct {
	mu      sync.Mutex
	files   map[string]string
	deleted []string
	failOn  string
	n       int
}

func newMemStore() *memStore { return &memStore{files: map[string]string{}} }

func (s *memStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == s.failOn {
		return "", errors.New("disk full")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.n++
	path := "mem/" + name + "-" + string(rune('a'+s.n))
	s.files[path] = string(b)
	return path, nil
}

func (s *memStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(b)), nil
}

func (s *memStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	s.deleted = append(s.deleted, path)
	return nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *recordingPublisher) Publish(ev notify.Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return true
}

func (p *recordingPublisher) kinds() []notify.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notify.Kind, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Kind)
	}
	return out
}
