package service

import (
	"context"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// Registry dispatches generation requests to the backend for their type.
type Registry struct {
	generators map[credentialDomain.CredentialType]Generator
}

// Generate produces material using the backend registered for the request type.
func (r *Registry) Generate(ctx context.Context, request *Request) (*Material, error) {
	generator, ok := r.generators[request.Type]
	if !ok {
		return nil, apperrors.Wrapf(ErrUnsupportedType, "type %q", request.Type)
	}
	return generator.Generate(ctx, request)
}

// NewRegistry creates a registry with every generation backend wired.
func NewRegistry() (*Registry, error) {
	userGenerator, err := NewUserGenerator()
	if err != nil {
		return nil, err
	}

	return &Registry{
		generators: map[credentialDomain.CredentialType]Generator{
			credentialDomain.PasswordType:    NewPasswordGenerator(),
			credentialDomain.UserType:        userGenerator,
			credentialDomain.SSHType:         NewSSHGenerator(),
			credentialDomain.RSAType:         NewRSAGenerator(),
			credentialDomain.CertificateType: NewCertificateGenerator(),
		},
	}, nil
}
