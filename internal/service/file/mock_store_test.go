package file

import (
	"context"
	"errors"
	"sync"

	"github.com/KNICEX/ai-tutor/internal/service/llm"
)

// mockFileStore replays a scripted state sequence per file name. The first
// state of a sequence is the one returned by Upload; every Status call
// advances by one and the last state repeats.
type mockFileStore struct {
	mu        sync.Mutex
	sequences map[string][]llm.FileState
	polls     map[string]int
	uploadErr error
	uploaded  []string
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{
		sequences: make(map[string][]llm.FileState),
		polls:     make(map[string]int),
	}
}

func (m *mockFileStore) script(name string, states ...llm.FileState) llm.RemoteFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequences[name] = states
	return llm.RemoteFile{Name: name, URI: "https://files.test/" + name, State: states[0]}
}

func (m *mockFileStore) Upload(ctx context.Context, path, mimeType string) (llm.RemoteFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return llm.RemoteFile{}, m.uploadErr
	}
	m.uploaded = append(m.uploaded, path)
	return llm.RemoteFile{Name: "files/" + path, URI: "https://files.test/" + path, MIMEType: mimeType}, nil
}

func (m *mockFileStore) Status(ctx context.Context, f llm.RemoteFile) (llm.FileState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seq, ok := m.sequences[f.Name]
	if !ok {
		return "", errors.New("unknown file " + f.Name)
	}
	m.polls[f.Name]++
	idx := m.polls[f.Name]
	if idx >= len(seq) {
		idx = len(seq) - 1
	}
	return seq[idx], nil
}

func (m *mockFileStore) pollCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.polls[name]
}
