package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/99designs/keyring"

	"github.com/nhle/todo/internal/model"
)

const (
	serviceName = "todo"
	userItemKey = "session-user"
)

// Open returns a configured system keyring. dir holds the encrypted file
// backend used when no OS keyring is available.
func Open(dir string) (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(dir, "credentials"),
		FilePasswordFunc:         keyring.FixedStringPrompt("todo-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Vault keeps the session user record in a keyring instead of the
// key-value store.
type Vault struct {
	ring keyring.Keyring
}

// NewVault wraps ring.
func NewVault(ring keyring.Keyring) *Vault {
	return &Vault{ring: ring}
}

// get retrieves a credential value by key.
func (v *Vault) get(key string) (string, error) {
	item, err := v.ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// set stores a credential value by key.
func (v *Vault) set(key string, value string) error {
	err := v.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: "todo " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// del removes a credential by key. A missing key is not an error.
func (v *Vault) del(key string) error {
	err := v.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

// LoadUser returns the stored session user, or nil when none is stored.
func (v *Vault) LoadUser(_ context.Context) (*model.User, error) {
	raw, err := v.get(userItemKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decoding stored user: %w", err)
	}
	return &user, nil
}

// SaveUser stores the session user.
func (v *Vault) SaveUser(_ context.Context, user model.User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	return v.set(userItemKey, string(b))
}

// ClearUser removes the session user.
func (v *Vault) ClearUser(_ context.Context) error {
	return v.del(userItemKey)
}
