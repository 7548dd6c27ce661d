package domain

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfiguredKeys_Software(t *testing.T) {
	material := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	raw := "key-2025:" + material + ",key-2026:" + material

	keys, err := ParseConfiguredKeys(raw, SoftwareProvider)
	require.NoError(t, err)
	require.Len(t, keys, 2)

	assert.Equal(t, "key-2025", keys[0].Name)
	assert.Equal(t, SoftwareProvider, keys[0].Provider)
	assert.Len(t, keys[0].Material, 32)
	assert.Equal(t, "key-2026", keys[1].Name)
}

func TestParseConfiguredKeys_KMS(t *testing.T) {
	keys, err := ParseConfiguredKeys("prod:hashivault://credstore", KMSProvider)
	require.NoError(t, err)
	require.Len(t, keys, 1)

	assert.Equal(t, "prod", keys[0].Name)
	assert.Equal(t, "hashivault://credstore", keys[0].KeeperURI)
	assert.Nil(t, keys[0].Material)
}

func TestParseConfiguredKeys_Errors(t *testing.T) {
	valid := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))

	tests := []struct {
		name     string
		raw      string
		provider ProviderType
		want     error
	}{
		{"empty list", "", SoftwareProvider, ErrInvalidKeysFormat},
		{"missing material", "key-1:", SoftwareProvider, ErrInvalidKeysFormat},
		{"missing separator", "key-1", SoftwareProvider, ErrInvalidKeysFormat},
		{"bad base64", "key-1:%%%", SoftwareProvider, ErrInvalidKeysFormat},
		{"wrong size", "key-1:" + base64.StdEncoding.EncodeToString([]byte("short")), SoftwareProvider, ErrInvalidKeySize},
		{"duplicate name", "key-1:" + valid + ",key-1:" + valid, SoftwareProvider, ErrInvalidKeysFormat},
		{"unsupported provider", "key-1:" + valid, ProviderType("hardware"), ErrUnsupportedProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfiguredKeys(tt.raw, tt.provider)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
