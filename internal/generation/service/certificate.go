package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"time"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

const defaultCertificateDurationDays = 365

// CertificateGenerator produces X.509 certificates: self-signed roots, CAs
// and CA-signed leaves. The private key is the secret value; the certificate
// PEM and expiry go into the version metadata.
type CertificateGenerator struct{}

// Generate produces a certificate. Non-self-signed requests need Signer
// material from the issuing CA.
func (g *CertificateGenerator) Generate(_ context.Context, request *Request) (*Material, error) {
	if request.CommonName == "" {
		return nil, apperrors.Wrap(ErrInvalidParameters, "certificate common name is required")
	}

	keyLength := request.KeyLength
	if keyLength == 0 {
		keyLength = defaultKeyLength
	}
	durationDays := request.DurationDays
	if durationDays == 0 {
		durationDays = defaultCertificateDurationDays
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, keyLength)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate certificate key")
	}

	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate serial number")
	}

	notBefore := time.Now().UTC()
	notAfter := notBefore.AddDate(0, 0, durationDays)

	template := &x509.Certificate{
		SerialNumber:          serialNumber,
		Subject:               pkix.Name{CommonName: request.CommonName},
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
	}
	if request.IsCA {
		template.IsCA = true
		template.KeyUsage |= x509.KeyUsageCertSign | x509.KeyUsageCRLSign
		template.ExtKeyUsage = nil
	}

	issuerCert := template
	var issuerKey any = privateKey
	if !request.SelfSigned {
		if request.Signer == nil {
			return nil, ErrMissingSigner
		}
		issuerCert, issuerKey, err = parseSigner(request.Signer)
		if err != nil {
			return nil, err
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, template, issuerCert, &privateKey.PublicKey, issuerKey)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create certificate")
	}

	certificatePEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})

	return &Material{
		Value: encodePrivateKeyPEM(privateKey),
		Metadata: credentialDomain.VersionMetadata{
			CAName:       request.CAName,
			IsCA:         request.IsCA,
			SelfSigned:   request.SelfSigned,
			Certificate:  string(certificatePEM),
			ExpiryDate:   notAfter,
			CommonName:   request.CommonName,
			KeyLength:    keyLength,
			DurationDays: durationDays,
		},
	}, nil
}

// parseSigner decodes the issuing CA's certificate and private key PEM.
func parseSigner(signer *SignerMaterial) (*x509.Certificate, any, error) {
	certBlock, _ := pem.Decode([]byte(signer.CertificatePEM))
	if certBlock == nil {
		return nil, nil, apperrors.Wrap(ErrInvalidSigner, "signer certificate is not PEM")
	}
	certificate, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, nil, apperrors.Wrap(ErrInvalidSigner, err.Error())
	}

	keyBlock, _ := pem.Decode(signer.PrivateKeyPEM)
	if keyBlock == nil {
		return nil, nil, apperrors.Wrap(ErrInvalidSigner, "signer private key is not PEM")
	}
	privateKey, err := x509.ParsePKCS1PrivateKey(keyBlock.Bytes)
	if err != nil {
		return nil, nil, apperrors.Wrap(ErrInvalidSigner, err.Error())
	}

	return certificate, privateKey, nil
}

// NewCertificateGenerator creates a new certificate generator instance.
func NewCertificateGenerator() *CertificateGenerator {
	return &CertificateGenerator{}
}
