package auth

import (
	"fmt"
	"sync"
)

// APIKey identifies one non-interactive API client
type APIKey struct {
	Key     string `json:"key"`
	Client  string `json:"client"` // client name from the server config
	Revoked bool   `json:"revoked"`
}

// APIKeyManager verifies API keys against the set configured for the
// server. Keys are seeded at startup from the config file; there is no
// runtime issuance.
type APIKeyManager struct {
	mu   sync.RWMutex
	keys map[string]*APIKey
}

// NewAPIKeyManager seeds a manager with configured keys, mapping each key
// to its client name
func NewAPIKeyManager(seed map[string]string) *APIKeyManager {
	keys := make(map[string]*APIKey, len(seed))
	for key, client := range seed {
		keys[key] = &APIKey{Key: key, Client: client}
	}
	return &APIKeyManager{keys: keys}
}

// Verify checks that a key is configured and not revoked
func (m *APIKeyManager) Verify(key string) (*APIKey, error) {
	m.mu.RLock()
	apiKey, exists := m.keys[key]
	m.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown API key")
	}
	if apiKey.Revoked {
		return nil, fmt.Errorf("API key has been revoked")
	}

	return apiKey, nil
}

// Revoke disables a key until the server restarts. Removing it from the
// config file makes the revocation permanent.
func (m *APIKeyManager) Revoke(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	apiKey, exists := m.keys[key]
	if !exists {
		return fmt.Errorf("unknown API key")
	}

	apiKey.Revoked = true
	return nil
}

// Count returns the number of usable keys
func (m *APIKeyManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, apiKey := range m.keys {
		if !apiKey.Revoked {
			count++
		}
	}
	return count
}
