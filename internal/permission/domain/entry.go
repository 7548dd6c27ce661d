package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one grant: the operations an actor may perform on one credential.
// Unique per (credential, actor); granting again replaces the operation set.
type Entry struct {
	ID           uuid.UUID
	CredentialID uuid.UUID
	Actor        string
	Read         bool
	Write        bool
	Delete       bool
	ReadACL      bool
	WriteACL     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewEntry creates an entry allowing the given operations.
func NewEntry(credentialID uuid.UUID, actor string, operations ...Operation) *Entry {
	now := time.Now().UTC()
	entry := &Entry{
		ID:           uuid.Must(uuid.NewV7()),
		CredentialID: credentialID,
		Actor:        actor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	entry.Allow(operations...)
	return entry
}

// Allow turns on the given operations.
func (e *Entry) Allow(operations ...Operation) {
	for _, operation := range operations {
		switch operation {
		case ReadOperation:
			e.Read = true
		case WriteOperation:
			e.Write = true
		case DeleteOperation:
			e.Delete = true
		case ReadACLOperation:
			e.ReadACL = true
		case WriteACLOperation:
			e.WriteACL = true
		}
	}
}

// Allows reports whether the entry grants the given operation.
func (e *Entry) Allows(operation Operation) bool {
	switch operation {
	case ReadOperation:
		return e.Read
	case WriteOperation:
		return e.Write
	case DeleteOperation:
		return e.Delete
	case ReadACLOperation:
		return e.ReadACL
	case WriteACLOperation:
		return e.WriteACL
	}
	return false
}

// Operations returns the granted operations in declaration order.
func (e *Entry) Operations() []Operation {
	var granted []Operation
	for _, operation := range Operations() {
		if e.Allows(operation) {
			granted = append(granted, operation)
		}
	}
	return granted
}
