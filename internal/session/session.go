// Package session decides whether the login screen or the task app is
// shown. Login is a local stand-in: identities are fabricated by an
// IdentityProvider and never verified.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/store"
)

var (
	// ErrUnknownProvider is returned when logging in with a provider
	// outside model.Providers.
	ErrUnknownProvider = errors.New("unknown identity provider")

	// ErrNotAuthenticated is returned when an operation needs a user
	// and none is persisted.
	ErrNotAuthenticated = errors.New("not logged in")
)

// UserStore persists at most one User record.
type UserStore interface {
	LoadUser(ctx context.Context) (*model.User, error)
	SaveUser(ctx context.Context, u model.User) error
	ClearUser(ctx context.Context) error
}

// IdentityProvider produces the identity for a login. A real
// implementation would run the provider's sign-in flow.
type IdentityProvider interface {
	ObtainIdentity(ctx context.Context, provider model.Provider) (model.User, error)
}

// Gate tracks the persisted session.
type Gate struct {
	users    UserStore
	identity IdentityProvider
}

// NewGate creates a Gate over users, obtaining identities from identity.
func NewGate(users UserStore, identity IdentityProvider) *Gate {
	return &Gate{users: users, identity: identity}
}

// IsAuthenticated reports whether a user record is persisted. Storage
// errors count as logged out.
func (g *Gate) IsAuthenticated(ctx context.Context) bool {
	_, ok := g.Current(ctx)
	return ok
}

// Current returns the persisted user, if any.
func (g *Gate) Current(ctx context.Context) (model.User, bool) {
	u, err := g.users.LoadUser(ctx)
	if err != nil || u == nil {
		return model.User{}, false
	}
	return *u, true
}

// Login obtains an identity for provider and persists it, replacing any
// previous session.
func (g *Gate) Login(ctx context.Context, provider model.Provider) (model.User, error) {
	if !knownProvider(provider) {
		return model.User{}, fmt.Errorf("logging in with %q: %w", provider, ErrUnknownProvider)
	}

	u, err := g.identity.ObtainIdentity(ctx, provider)
	if err != nil {
		return model.User{}, fmt.Errorf("obtaining %s identity: %w", provider, err)
	}
	if err := g.users.SaveUser(ctx, u); err != nil {
		return model.User{}, fmt.Errorf("saving session: %w", err)
	}
	return u, nil
}

// Logout clears the persisted user record.
func (g *Gate) Logout(ctx context.Context) error {
	if err := g.users.ClearUser(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

func knownProvider(p model.Provider) bool {
	for _, known := range model.Providers {
		if p == known {
			return true
		}
	}
	return false
}

// KVUsers stores the user record as JSON in the key-value store.
type KVUsers struct {
	kv store.Store
}

// NewKVUsers creates a UserStore over kv.
func NewKVUsers(kv store.Store) *KVUsers {
	return &KVUsers{kv: kv}
}

// LoadUser returns the stored user or nil when the slot is empty.
func (u *KVUsers) LoadUser(ctx context.Context) (*model.User, error) {
	raw, err := u.kv.Get(ctx, store.KeyUser)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return DecodeUser([]byte(raw))
}

// SaveUser writes the user slot.
func (u *KVUsers) SaveUser(ctx context.Context, user model.User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	return u.kv.Set(ctx, store.KeyUser, string(b))
}

// ClearUser deletes the user slot.
func (u *KVUsers) ClearUser(ctx context.Context) error {
	return u.kv.Delete(ctx, store.KeyUser)
}

// DecodeUser parses a persisted user record.
func DecodeUser(raw []byte) (*model.User, error) {
	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}
	return &user, nil
}
