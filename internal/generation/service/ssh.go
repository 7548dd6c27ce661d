package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"

	"golang.org/x/crypto/ssh"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// SSHGenerator produces SSH keypairs: a PEM private key and an
// authorized_keys form public key.
type SSHGenerator struct{}

// Generate produces an SSH keypair.
func (g *SSHGenerator) Generate(_ context.Context, request *Request) (*Material, error) {
	keyLength := request.KeyLength
	if keyLength == 0 {
		keyLength = defaultKeyLength
	}
	if keyLength != 2048 && keyLength != 3072 && keyLength != 4096 {
		return nil, apperrors.Wrapf(ErrInvalidParameters, "ssh key length %d", keyLength)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, keyLength)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate ssh key")
	}

	sshPublicKey, err := ssh.NewPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to derive ssh public key")
	}

	return &Material{
		Value: encodePrivateKeyPEM(privateKey),
		Metadata: credentialDomain.VersionMetadata{
			PublicKey: string(ssh.MarshalAuthorizedKey(sshPublicKey)),
			KeyLength: keyLength,
		},
	}, nil
}

// NewSSHGenerator creates a new SSH generator instance.
func NewSSHGenerator() *SSHGenerator {
	return &SSHGenerator{}
}
