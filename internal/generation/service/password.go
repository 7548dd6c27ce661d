package service

import (
	"context"
	"crypto/rand"
	"math/big"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

const (
	defaultPasswordLength = 30
	maxPasswordLength     = 200

	alphanumericCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	specialCharset      = "!@#$%^&*()-_=+[]{}"
)

// PasswordGenerator produces random passwords from a fixed charset.
type PasswordGenerator struct{}

// Generate produces a random password. Length defaults to 30 when unset.
func (g *PasswordGenerator) Generate(_ context.Context, request *Request) (*Material, error) {
	length := request.Length
	if length == 0 {
		length = defaultPasswordLength
	}
	if length < 4 || length > maxPasswordLength {
		return nil, apperrors.Wrapf(ErrInvalidParameters, "password length %d", length)
	}

	charset := alphanumericCharset
	if request.IncludeSpecial {
		charset += specialCharset
	}

	password, err := randomString(charset, length)
	if err != nil {
		return nil, err
	}

	return &Material{
		Value: password,
		Metadata: credentialDomain.VersionMetadata{
			PasswordLength: length,
			IncludeSpecial: request.IncludeSpecial,
		},
	}, nil
}

// randomString draws length characters uniformly from charset.
func randomString(charset string, length int) ([]byte, error) {
	max := big.NewInt(int64(len(charset)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to draw random character")
		}
		out[i] = charset[n.Int64()]
	}
	return out, nil
}

// NewPasswordGenerator creates a new password generator instance.
func NewPasswordGenerator() *PasswordGenerator {
	return &PasswordGenerator{}
}
