package service

import (
	"context"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/credstore/internal/errors"
)

// UserGenerator produces username/password pairs. The derived hash is stored
// in the version metadata so login verification never needs the plaintext.
type UserGenerator struct {
	passwords      *PasswordGenerator
	passwordHasher *pwdhash.PasswordHasher
}

// Generate produces a user credential. A missing username gets a generated one.
func (g *UserGenerator) Generate(ctx context.Context, request *Request) (*Material, error) {
	username := request.Username
	if username == "" {
		generated, err := randomString(alphanumericCharset, 20)
		if err != nil {
			return nil, err
		}
		username = string(generated)
	}

	material, err := g.passwords.Generate(ctx, request)
	if err != nil {
		return nil, err
	}

	hash, err := g.passwordHasher.Hash(material.Value)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash generated password")
	}

	material.Metadata.Username = username
	material.Metadata.PasswordHash = hash
	return material, nil
}

// NewUserGenerator creates a new user generator instance.
func NewUserGenerator() (*UserGenerator, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &UserGenerator{
		passwords:      NewPasswordGenerator(),
		passwordHasher: hasher,
	}, nil
}
