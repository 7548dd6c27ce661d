// Package domain defines the versioned credential data model. A credential is
// one uniquely-named logical secret; its versions are immutable snapshots,
// appended on every set, generate or regenerate and superseded, never edited.
package domain

// CredentialType declares what kind of secret a credential holds. All versions
// under one credential share the same type.
type CredentialType string

const (
	// PasswordType holds a generated or user-supplied password string.
	PasswordType CredentialType = "password"

	// CertificateType holds an X.509 certificate with its private key.
	CertificateType CredentialType = "certificate"

	// SSHType holds an SSH keypair.
	SSHType CredentialType = "ssh"

	// RSAType holds a raw RSA keypair.
	RSAType CredentialType = "rsa"

	// UserType holds a username/password pair.
	UserType CredentialType = "user"

	// JSONType holds an arbitrary JSON document.
	JSONType CredentialType = "json"

	// ValueType holds an arbitrary opaque string.
	ValueType CredentialType = "value"
)

// Valid reports whether t is one of the declared credential types.
func (t CredentialType) Valid() bool {
	switch t {
	case PasswordType, CertificateType, SSHType, RSAType, UserType, JSONType, ValueType:
		return true
	}
	return false
}
