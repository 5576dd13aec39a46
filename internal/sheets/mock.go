package sheets

import (
	"context"
	"sync"
)

// MockWriter is a mock implementation of ReportWriter for testing.
type MockWriter struct {
	WriteFunc      func(ctx context.Context, data *TabData) error
	LastData       *TabData
	WriteCalls     []WriteCall
	WriteCallCount int
	mu             sync.Mutex
}

var _ ReportWriter = (*MockWriter)(nil)

// WriteCall represents a single call to Write.
type WriteCall struct {
	Error error
	Data  *TabData
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		WriteCalls: make([]WriteCall, 0),
	}
}

// Write implements the ReportWriter interface.
func (m *MockWriter) Write(ctx context.Context, data *TabData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount++
	m.LastData = data

	var err error
	if m.WriteFunc != nil {
		err = m.WriteFunc(ctx, data)
	}

	m.WriteCalls = append(m.WriteCalls, WriteCall{
		Data:  data,
		Error: err,
	})

	return err
}

// GetWriteCalls returns a copy of all write calls.
func (m *MockWriter) GetWriteCalls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.WriteCalls))
	copy(calls, m.WriteCalls)
	return calls
}

// SetWriteError configures the mock to return an error on every Write call.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(context.Context, *TabData) error {
		return err
	}
}
