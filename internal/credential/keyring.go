package credential

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "missionboard"

// SigningKeyName is the keyring entry holding the token signing key.
const SigningKeyName = "jwt-signing-key"

// signingKeyBytes is the length of a generated HS256 signing key.
const signingKeyBytes = 32

// Config selects the keyring backend.
type Config struct {
	// Backend forces one backend ("file", "keychain", "secret-service",
	// "wincred", "pass"). Empty tries each in turn.
	Backend string

	// FileDir is where the file backend keeps its encrypted entries.
	FileDir string
}

// Vault stores secrets in the system keyring.
type Vault struct {
	ring keyring.Keyring
}

// Open returns a Vault on the configured keyring backend.
func Open(cfg Config) (*Vault, error) {
	backends := []keyring.BackendType{
		keyring.KeychainBackend,
		keyring.SecretServiceBackend,
		keyring.WinCredBackend,
		keyring.PassBackend,
		keyring.FileBackend,
	}
	if cfg.Backend != "" {
		backends = []keyring.BackendType{keyring.BackendType(cfg.Backend)}
	}
	dir := cfg.FileDir
	if dir == "" {
		dir = "~/.config/missionboard/credentials"
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName:              serviceName,
		AllowedBackends:          backends,
		FileDir:                  dir,
		FilePasswordFunc:         keyring.FixedStringPrompt("missionboard-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Vault{ring: ring}, nil
}

// NewVault wraps an already opened keyring.
func NewVault(ring keyring.Keyring) *Vault {
	return &Vault{ring: ring}
}

// Get retrieves a secret by key.
func (v *Vault) Get(key string) ([]byte, error) {
	item, err := v.ring.Get(key)
	if err != nil {
		return nil, fmt.Errorf("getting credential %q: %w", key, err)
	}
	return item.Data, nil
}

// Set stores a secret by key.
func (v *Vault) Set(key string, value []byte) error {
	err := v.ring.Set(keyring.Item{
		Key:   key,
		Data:  value,
		Label: "missionboard " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes a secret by key.
func (v *Vault) Delete(key string) error {
	if err := v.ring.Remove(key); err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

// SigningKey returns the token signing key, generating and storing a random
// one on first use.
func (v *Vault) SigningKey() ([]byte, error) {
	key, err := v.Get(SigningKeyName)
	if err == nil && len(key) > 0 {
		return key, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, err
	}

	key = make([]byte, signingKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating signing key: %w", err)
	}
	if err := v.Set(SigningKeyName, key); err != nil {
		return nil, err
	}
	return key, nil
}
