// Package audit defines the AuditSink consumed by the credential operations.
package audit

import (
	"context"

	auditDomain "github.com/allisson/credstore/internal/audit/domain"
)

// Sink receives audit events. Record is called inside the operation's
// transaction for successful writes, so a failing sink rolls the whole
// operation back.
type Sink interface {
	Record(ctx context.Context, event *auditDomain.Event) error
}
