// Package mocks provides mock implementations for testing audit consumers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	auditDomain "github.com/allisson/credstore/internal/audit/domain"
)

// MockSink is a mock implementation of Sink for testing.
type MockSink struct {
	mock.Mock
}

// Record mocks the Record method of Sink.
func (m *MockSink) Record(ctx context.Context, event *auditDomain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
