// Package domain defines the per-credential permission model. Grants are
// exact (credential, actor) pairs with a fixed operation set; there is no
// path hierarchy and no wildcard matching.
package domain

// Operation is one of the fixed set of actions a grant can allow.
type Operation string

const (
	// ReadOperation allows reading a credential's versions and values.
	ReadOperation Operation = "read"

	// WriteOperation allows saving new versions of a credential.
	WriteOperation Operation = "write"

	// DeleteOperation allows deleting a credential and all its versions.
	DeleteOperation Operation = "delete"

	// ReadACLOperation allows listing a credential's permission entries.
	ReadACLOperation Operation = "read_acl"

	// WriteACLOperation allows granting and revoking permission entries.
	WriteACLOperation Operation = "write_acl"
)

// Operations lists every valid operation.
func Operations() []Operation {
	return []Operation{
		ReadOperation,
		WriteOperation,
		DeleteOperation,
		ReadACLOperation,
		WriteACLOperation,
	}
}

// Valid reports whether o is one of the fixed operations.
func (o Operation) Valid() bool {
	switch o {
	case ReadOperation, WriteOperation, DeleteOperation, ReadACLOperation, WriteACLOperation:
		return true
	}
	return false
}
