// Package mocks provides test doubles for transaction management.
package mocks

import "context"

// MockTxManager runs transactional functions directly, without a database.
// When Err is set, WithTx fails before running the function, simulating a
// transaction that could not be started.
type MockTxManager struct {
	Err   error
	Calls int
}

// WithTx runs fn against the unchanged context and returns its error.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}
