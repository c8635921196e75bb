package chat

import (
	"context"
	"sync"

	"github.com/KNICEX/ai-tutor/internal/service/llm"
)

type mockGenerator struct {
	mu       sync.Mutex
	requests []llm.GenerateRequest
	// errs 按调用顺序返回, nil 表示成功
	errs []error
}

func (m *mockGenerator) Generate(ctx context.Context, req llm.GenerateRequest) (llm.Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := len(m.requests)
	m.requests = append(m.requests, req)
	if call < len(m.errs) && m.errs[call] != nil {
		return llm.Turn{}, m.errs[call]
	}
	return llm.ModelTurn("reply to: " + req.Prompt.Text()), nil
}

func (m *mockGenerator) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
