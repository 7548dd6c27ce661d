// Package domain holds the certificate-authority specialization of the
// credential model: signing material and the active/transitional bookkeeping
// errors.
package domain

import "time"

// CertificateMaterial is a certificate authority's resolved signing material:
// the active version's PEM certificate together with its decrypted private
// key. It exists only in memory while a leaf certificate is being issued.
type CertificateMaterial struct {
	CAName         string
	CertificatePEM string
	PrivateKeyPEM  []byte
	ExpiryDate     time.Time
}
