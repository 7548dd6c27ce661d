package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

func TestReconstructRequest(t *testing.T) {
	tests := []struct {
		name    string
		version *credentialDomain.CredentialVersion
		want    *Request
	}{
		{
			name: "password",
			version: &credentialDomain.CredentialVersion{
				Type: credentialDomain.PasswordType,
				Metadata: credentialDomain.VersionMetadata{
					PasswordLength: 32,
					IncludeSpecial: true,
				},
			},
			want: &Request{Type: credentialDomain.PasswordType, Length: 32, IncludeSpecial: true},
		},
		{
			name: "user keeps its username",
			version: &credentialDomain.CredentialVersion{
				Type: credentialDomain.UserType,
				Metadata: credentialDomain.VersionMetadata{
					Username:       "app-db",
					PasswordLength: 24,
				},
			},
			want: &Request{Type: credentialDomain.UserType, Username: "app-db", Length: 24},
		},
		{
			name: "ssh",
			version: &credentialDomain.CredentialVersion{
				Type:     credentialDomain.SSHType,
				Metadata: credentialDomain.VersionMetadata{KeyLength: 4096},
			},
			want: &Request{Type: credentialDomain.SSHType, KeyLength: 4096},
		},
		{
			name: "certificate keeps its signing chain",
			version: &credentialDomain.CredentialVersion{
				Type: credentialDomain.CertificateType,
				Metadata: credentialDomain.VersionMetadata{
					CommonName:   "leaf-a",
					CAName:       "/root-ca",
					DurationDays: 90,
					KeyLength:    2048,
				},
			},
			want: &Request{
				Type:         credentialDomain.CertificateType,
				CommonName:   "leaf-a",
				CAName:       "/root-ca",
				DurationDays: 90,
				KeyLength:    2048,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request, err := ReconstructRequest(tt.version)
			require.NoError(t, err)
			assert.Equal(t, tt.want, request)
		})
	}
}

func TestReconstructRequest_NotRegeneratable(t *testing.T) {
	for _, credentialType := range []credentialDomain.CredentialType{
		credentialDomain.JSONType,
		credentialDomain.ValueType,
	} {
		_, err := ReconstructRequest(&credentialDomain.CredentialVersion{Type: credentialType})
		assert.True(t, apperrors.Is(err, ErrNotRegeneratable), string(credentialType))
		assert.False(t, Regenerable(credentialType))
	}
}
