package mocks

import (
	"context"
	"sync"

	"github.com/dimitry-co/ai-study-buddy/internal/generation"
)

// Oracle implements generation.Oracle for testing.
type Oracle struct {
	// CompleteFn allows test cases to script the model's behavior.
	CompleteFn func(ctx context.Context, call generation.Call) (*generation.Completion, error)

	// Default response values when CompleteFn is nil.
	Completion *generation.Completion
	Err        error

	// ModelName is reported by Model(); defaults to "mock-model".
	ModelName string

	mu    sync.Mutex
	calls []generation.Call
}

var _ generation.Oracle = (*Oracle)(nil)

func (m *Oracle) Complete(ctx context.Context, call generation.Call) (*generation.Completion, error) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()

	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, call)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Completion, nil
}

func (m *Oracle) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

// CallCount returns how many times Complete was invoked.
func (m *Oracle) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of all recorded calls.
func (m *Oracle) Calls() []generation.Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generation.Call(nil), m.calls...)
}
