package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

const defaultKeyLength = 2048

// RSAGenerator produces raw RSA keypairs, both halves PEM-encoded.
type RSAGenerator struct{}

// Generate produces an RSA keypair. The private key is the secret value; the
// public key goes into the version metadata.
func (g *RSAGenerator) Generate(_ context.Context, request *Request) (*Material, error) {
	keyLength := request.KeyLength
	if keyLength == 0 {
		keyLength = defaultKeyLength
	}
	if keyLength != 2048 && keyLength != 3072 && keyLength != 4096 {
		return nil, apperrors.Wrapf(ErrInvalidParameters, "rsa key length %d", keyLength)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, keyLength)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate rsa key")
	}

	publicDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal public key")
	}

	return &Material{
		Value: encodePrivateKeyPEM(privateKey),
		Metadata: credentialDomain.VersionMetadata{
			PublicKey: string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})),
			KeyLength: keyLength,
		},
	}, nil
}

// encodePrivateKeyPEM serializes an RSA private key in PKCS#1 PEM form.
func encodePrivateKeyPEM(key *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

// NewRSAGenerator creates a new RSA generator instance.
func NewRSAGenerator() *RSAGenerator {
	return &RSAGenerator{}
}
