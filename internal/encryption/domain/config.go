package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ParseConfiguredKeys parses the ENCRYPTION_KEYS setting into key handles.
//
// The format is a comma-separated list of "name:material" entries. For the
// software provider the material is a base64-encoded 32-byte key; for the kms
// provider it is a keeper URI (the first colon separates name from URI, so
// "prod:hashivault://credstore" parses as expected).
//
// Key ids are not assigned here; canary verification resolves them at startup.
func ParseConfiguredKeys(raw string, provider ProviderType) ([]*EncryptionKey, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty key list", ErrInvalidKeysFormat)
	}

	var keys []*EncryptionKey
	seen := make(map[string]struct{})

	for part := range strings.SplitSeq(raw, ",") {
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 || p[0] == "" || p[1] == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKeysFormat, part)
		}
		name := p[0]
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate key name %q", ErrInvalidKeysFormat, name)
		}
		seen[name] = struct{}{}

		key := &EncryptionKey{Name: name, Provider: provider}

		switch provider {
		case SoftwareProvider:
			material, err := base64.StdEncoding.DecodeString(p[1])
			if err != nil {
				return nil, fmt.Errorf("%w for %s: %v", ErrInvalidKeysFormat, name, err)
			}
			if len(material) != 32 {
				Zero(material)
				return nil, fmt.Errorf("%w: key %s must be 32 bytes, got %d", ErrInvalidKeySize, name, len(material))
			}
			key.Material = material
		case KMSProvider:
			key.KeeperURI = p[1]
		default:
			return nil, ErrUnsupportedProvider
		}

		keys = append(keys, key)
	}

	return keys, nil
}
