package service

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

func TestPasswordGenerator(t *testing.T) {
	generator := NewPasswordGenerator()
	ctx := context.Background()

	material, err := generator.Generate(ctx, &Request{Type: credentialDomain.PasswordType, Length: 40})
	require.NoError(t, err)
	assert.Len(t, material.Value, 40)
	assert.Equal(t, 40, material.Metadata.PasswordLength)

	// Defaults apply when no length is requested.
	material, err = generator.Generate(ctx, &Request{Type: credentialDomain.PasswordType})
	require.NoError(t, err)
	assert.Len(t, material.Value, defaultPasswordLength)

	_, err = generator.Generate(ctx, &Request{Type: credentialDomain.PasswordType, Length: 2})
	assert.True(t, apperrors.Is(err, ErrInvalidParameters))
}

func TestPasswordGenerator_CharsetRespected(t *testing.T) {
	generator := NewPasswordGenerator()

	material, err := generator.Generate(context.Background(), &Request{
		Type:   credentialDomain.PasswordType,
		Length: 100,
	})
	require.NoError(t, err)

	for _, c := range string(material.Value) {
		assert.True(t, strings.ContainsRune(alphanumericCharset, c), string(c))
	}
}

func TestUserGenerator(t *testing.T) {
	generator, err := NewUserGenerator()
	require.NoError(t, err)

	material, err := generator.Generate(context.Background(), &Request{
		Type:     credentialDomain.UserType,
		Username: "app-db",
		Length:   24,
	})
	require.NoError(t, err)
	assert.Len(t, material.Value, 24)
	assert.Equal(t, "app-db", material.Metadata.Username)
	assert.NotEmpty(t, material.Metadata.PasswordHash)
	assert.NotContains(t, material.Metadata.PasswordHash, string(material.Value))
}

func TestUserGenerator_GeneratedUsername(t *testing.T) {
	generator, err := NewUserGenerator()
	require.NoError(t, err)

	material, err := generator.Generate(context.Background(), &Request{Type: credentialDomain.UserType})
	require.NoError(t, err)
	assert.Len(t, material.Metadata.Username, 20)
}

func TestRSAGenerator(t *testing.T) {
	generator := NewRSAGenerator()

	material, err := generator.Generate(context.Background(), &Request{Type: credentialDomain.RSAType})
	require.NoError(t, err)

	block, _ := pem.Decode(material.Value)
	require.NotNil(t, block)
	assert.Equal(t, "RSA PRIVATE KEY", block.Type)

	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	require.NoError(t, err)
	assert.Equal(t, defaultKeyLength, privateKey.N.BitLen())
	assert.Contains(t, material.Metadata.PublicKey, "PUBLIC KEY")

	_, err = generator.Generate(context.Background(), &Request{Type: credentialDomain.RSAType, KeyLength: 1024})
	assert.True(t, apperrors.Is(err, ErrInvalidParameters))
}

func TestSSHGenerator(t *testing.T) {
	generator := NewSSHGenerator()

	material, err := generator.Generate(context.Background(), &Request{Type: credentialDomain.SSHType})
	require.NoError(t, err)

	block, _ := pem.Decode(material.Value)
	require.NotNil(t, block)
	assert.Equal(t, "RSA PRIVATE KEY", block.Type)
	assert.True(t, strings.HasPrefix(material.Metadata.PublicKey, "ssh-rsa "))
}

func TestCertificateGenerator_SelfSigned(t *testing.T) {
	generator := NewCertificateGenerator()

	material, err := generator.Generate(context.Background(), &Request{
		Type:         credentialDomain.CertificateType,
		CommonName:   "root-ca",
		IsCA:         true,
		SelfSigned:   true,
		DurationDays: 30,
	})
	require.NoError(t, err)

	certificate := parseCertificatePEM(t, material.Metadata.Certificate)
	assert.Equal(t, "root-ca", certificate.Subject.CommonName)
	assert.Equal(t, "root-ca", certificate.Issuer.CommonName)
	assert.True(t, certificate.IsCA)
	assert.WithinDuration(t, certificate.NotAfter, material.Metadata.ExpiryDate, time.Second)
}

func TestCertificateGenerator_SignedByCA(t *testing.T) {
	generator := NewCertificateGenerator()
	ctx := context.Background()

	ca, err := generator.Generate(ctx, &Request{
		Type:       credentialDomain.CertificateType,
		CommonName: "root-ca",
		IsCA:       true,
		SelfSigned: true,
	})
	require.NoError(t, err)

	leaf, err := generator.Generate(ctx, &Request{
		Type:       credentialDomain.CertificateType,
		CommonName: "leaf-a",
		CAName:     "/root-ca",
		Signer: &SignerMaterial{
			CertificatePEM: ca.Metadata.Certificate,
			PrivateKeyPEM:  ca.Value,
		},
	})
	require.NoError(t, err)

	leafCert := parseCertificatePEM(t, leaf.Metadata.Certificate)
	caCert := parseCertificatePEM(t, ca.Metadata.Certificate)
	assert.Equal(t, "root-ca", leafCert.Issuer.CommonName)
	assert.False(t, leafCert.IsCA)
	assert.NoError(t, leafCert.CheckSignatureFrom(caCert))
	assert.Equal(t, "/root-ca", leaf.Metadata.CAName)
}

func TestCertificateGenerator_MissingSigner(t *testing.T) {
	generator := NewCertificateGenerator()

	_, err := generator.Generate(context.Background(), &Request{
		Type:       credentialDomain.CertificateType,
		CommonName: "leaf-a",
	})
	assert.True(t, apperrors.Is(err, ErrMissingSigner))
}

func TestRegistry_Generate(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	material, err := registry.Generate(context.Background(), &Request{Type: credentialDomain.PasswordType})
	require.NoError(t, err)
	assert.NotEmpty(t, material.Value)

	_, err = registry.Generate(context.Background(), &Request{Type: credentialDomain.ValueType})
	assert.True(t, apperrors.Is(err, ErrUnsupportedType))
}

func parseCertificatePEM(t *testing.T, certificatePEM string) *x509.Certificate {
	t.Helper()

	block, _ := pem.Decode([]byte(certificatePEM))
	require.NotNil(t, block)
	certificate, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	return certificate
}
