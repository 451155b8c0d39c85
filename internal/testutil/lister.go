// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/0xPuncker/uac-task-api/internal/uac"
	"github.com/sirupsen/logrus"
)

// FakeLister is an in-memory stand-in for the platform list calls.
type FakeLister struct {
	mu sync.Mutex

	BasicResponse    json.RawMessage
	AdvancedResponse json.RawMessage

	// Error injection
	BasicErr    error
	AdvancedErr error

	BasicCalls    int
	AdvancedCalls int
	LastFilter    uac.TaskFilter
}

func NewFakeLister() *FakeLister {
	return &FakeLister{
		BasicResponse:    json.RawMessage(`[]`),
		AdvancedResponse: json.RawMessage(`[]`),
	}
}

func (f *FakeLister) ListTasks(ctx context.Context, filter uac.TaskFilter) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BasicCalls++
	f.LastFilter = filter
	if f.BasicErr != nil {
		return nil, f.BasicErr
	}
	return f.BasicResponse, nil
}

func (f *FakeLister) ListTasksAdvanced(ctx context.Context) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AdvancedCalls++
	if f.AdvancedErr != nil {
		return nil, f.AdvancedErr
	}
	return f.AdvancedResponse, nil
}

// QuietLogger returns a logger that discards its output.
func QuietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
