// Package domain defines the audit event model. Every credential operation
// records an event: successes inside the same transaction as the write
// (audit-or-nothing), failures after the fact.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Action identifies the operation an event records.
type Action string

const (
	SaveAction       Action = "save"
	GetAction        Action = "get"
	ListAction       Action = "list"
	DeleteAction     Action = "delete"
	RegenerateAction Action = "regenerate"
	GrantAction      Action = "grant"
	RevokeAction     Action = "revoke"
	ListACLAction    Action = "list_acl"
	RotateKeysAction Action = "rotate_keys"
)

// Event records one operation against one credential name.
type Event struct {
	ID             uuid.UUID
	Actor          string
	Action         Action
	CredentialName string
	Success        bool
	Metadata       map[string]any
	CreatedAt      time.Time
}

// NewEvent creates an event for the given operation outcome.
func NewEvent(actor string, action Action, credentialName string, success bool) *Event {
	return &Event{
		ID:             uuid.Must(uuid.NewV7()),
		Actor:          actor,
		Action:         action,
		CredentialName: credentialName,
		Success:        success,
		CreatedAt:      time.Now().UTC(),
	}
}
