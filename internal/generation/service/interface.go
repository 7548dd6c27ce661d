// Package service implements the generation backends that produce fresh
// secret material for generated credential types, plus the regeneration
// strategy table that rebuilds a generation request from a stored version.
package service

import (
	"context"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
)

// Request carries the parameters to produce material for one credential type.
// Only the fields relevant to the type are read.
type Request struct {
	Type credentialDomain.CredentialType

	// Password and user parameters.
	Length         int
	IncludeSpecial bool
	Username       string

	// Keypair parameters (ssh, rsa, certificate).
	KeyLength int

	// Certificate parameters.
	CommonName   string
	DurationDays int
	IsCA         bool
	SelfSigned   bool
	CAName       string
	Signer       *SignerMaterial // nil for self-signed certificates
}

// SignerMaterial is a CA's certificate and private key, both PEM-encoded.
type SignerMaterial struct {
	CertificatePEM string
	PrivateKeyPEM  []byte
}

// Material is generated secret material: the value destined for encryption
// plus the metadata columns destined for the version row.
type Material struct {
	Value    []byte
	Metadata credentialDomain.VersionMetadata
}

// Generator produces fresh material for one credential type.
type Generator interface {
	Generate(ctx context.Context, request *Request) (*Material, error)
}
