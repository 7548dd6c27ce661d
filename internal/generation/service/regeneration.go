package service

import (
	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// reconstructStrategy rebuilds the generation request that produced a stored
// version, from that version's metadata.
type reconstructStrategy func(version *credentialDomain.CredentialVersion) *Request

// reconstructStrategies maps each regenerable type to its strategy. Types
// absent here (json, value, anything set by hand) cannot be regenerated.
var reconstructStrategies = map[credentialDomain.CredentialType]reconstructStrategy{
	credentialDomain.PasswordType: func(version *credentialDomain.CredentialVersion) *Request {
		return &Request{
			Type:           credentialDomain.PasswordType,
			Length:         version.Metadata.PasswordLength,
			IncludeSpecial: version.Metadata.IncludeSpecial,
		}
	},
	credentialDomain.UserType: func(version *credentialDomain.CredentialVersion) *Request {
		return &Request{
			Type:           credentialDomain.UserType,
			Length:         version.Metadata.PasswordLength,
			IncludeSpecial: version.Metadata.IncludeSpecial,
			Username:       version.Metadata.Username,
		}
	},
	credentialDomain.SSHType: func(version *credentialDomain.CredentialVersion) *Request {
		return &Request{
			Type:      credentialDomain.SSHType,
			KeyLength: version.Metadata.KeyLength,
		}
	},
	credentialDomain.RSAType: func(version *credentialDomain.CredentialVersion) *Request {
		return &Request{
			Type:      credentialDomain.RSAType,
			KeyLength: version.Metadata.KeyLength,
		}
	},
	credentialDomain.CertificateType: func(version *credentialDomain.CredentialVersion) *Request {
		return &Request{
			Type:         credentialDomain.CertificateType,
			KeyLength:    version.Metadata.KeyLength,
			CommonName:   version.Metadata.CommonName,
			DurationDays: version.Metadata.DurationDays,
			IsCA:         version.Metadata.IsCA,
			SelfSigned:   version.Metadata.SelfSigned,
			CAName:       version.Metadata.CAName,
		}
	},
}

// Regenerable reports whether the type has a reconstruction strategy.
func Regenerable(credentialType credentialDomain.CredentialType) bool {
	_, ok := reconstructStrategies[credentialType]
	return ok
}

// ReconstructRequest rebuilds the generation request for a stored version.
// Certificate requests come back without signer material; the caller resolves
// the signing CA before generating.
func ReconstructRequest(version *credentialDomain.CredentialVersion) (*Request, error) {
	strategy, ok := reconstructStrategies[version.Type]
	if !ok {
		return nil, apperrors.Wrapf(ErrNotRegeneratable, "type %q", version.Type)
	}
	return strategy(version), nil
}
