package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/99designs/keyring"
	"github.com/google/uuid"

	"github.com/nhle/todo/internal/credential"
	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/tests/testutil"
)

// userBackends returns one fresh UserStore per supported backend.
func userBackends(t *testing.T) map[string]UserStore {
	t.Helper()
	return map[string]UserStore{
		"store":   NewKVUsers(testutil.NewTestStore(t)),
		"keyring": credential.NewVault(keyring.NewArrayKeyring(nil)),
	}
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()

	for name, users := range userBackends(t) {
		for _, provider := range model.Providers {
			t.Run(name+"/"+string(provider), func(t *testing.T) {
				if err := users.ClearUser(ctx); err != nil {
					t.Fatalf("reset: %v", err)
				}
				g := NewGate(users, NewStubProvider())

				if g.IsAuthenticated(ctx) {
					t.Fatal("expected logged out before login")
				}

				u, err := g.Login(ctx, provider)
				if err != nil {
					t.Fatalf("login: %v", err)
				}
				if u.Provider != provider {
					t.Errorf("expected provider %s, got %s", provider, u.Provider)
				}
				if !g.IsAuthenticated(ctx) {
					t.Fatal("expected logged in after login")
				}

				// A second gate over the same storage sees the session.
				current, ok := NewGate(users, NewStubProvider()).Current(ctx)
				if !ok || current != u {
					t.Errorf("expected persisted %+v, got %+v (ok=%v)", u, current, ok)
				}

				if err := g.Logout(ctx); err != nil {
					t.Fatalf("logout: %v", err)
				}
				if g.IsAuthenticated(ctx) {
					t.Error("expected logged out after logout")
				}
			})
		}
	}
}

func TestLoginUnknownProvider(t *testing.T) {
	ctx := context.Background()
	g := NewGate(NewKVUsers(testutil.NewTestStore(t)), NewStubProvider())

	_, err := g.Login(ctx, model.Provider("github"))
	if !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
	if g.IsAuthenticated(ctx) {
		t.Error("failed login must not create a session")
	}
}

type failingProvider struct{}

func (failingProvider) ObtainIdentity(context.Context, model.Provider) (model.User, error) {
	return model.User{}, errors.New("provider unavailable")
}

func TestLoginProviderFailure(t *testing.T) {
	ctx := context.Background()
	g := NewGate(NewKVUsers(testutil.NewTestStore(t)), failingProvider{})

	if _, err := g.Login(ctx, model.ProviderGoogle); err == nil {
		t.Fatal("expected error")
	}
	if g.IsAuthenticated(ctx) {
		t.Error("failed login must not create a session")
	}
}

func TestCorruptUserSlotIsLoggedOut(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewTestStore(t)
	if err := kv.Set(ctx, "todo.user", "{"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if NewGate(NewKVUsers(kv), NewStubProvider()).IsAuthenticated(ctx) {
		t.Error("corrupt user record must not authenticate")
	}
}

func TestStubProviderIdentities(t *testing.T) {
	ctx := context.Background()
	p := NewStubProvider()

	demo, err := p.ObtainIdentity(ctx, model.ProviderDemo)
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	if demo.ID != DemoUserID || demo.Name != "Demo User" {
		t.Errorf("unexpected demo user %+v", demo)
	}

	tests := []struct {
		provider model.Provider
		prefix   string
		name     string
	}{
		{model.ProviderFacebook, "fb-", "Facebook User"},
		{model.ProviderGoogle, "google-", "Google User"},
	}
	for _, tt := range tests {
		u, err := p.ObtainIdentity(ctx, tt.provider)
		if err != nil {
			t.Fatalf("%s: %v", tt.provider, err)
		}
		if !strings.HasPrefix(u.ID, tt.prefix) {
			t.Errorf("%s: expected id prefix %q, got %q", tt.provider, tt.prefix, u.ID)
		}
		id, err := uuid.Parse(strings.TrimPrefix(u.ID, tt.prefix))
		if err != nil {
			t.Fatalf("%s: id is not a uuid: %v", tt.provider, err)
		}
		if id.Version() != 7 {
			t.Errorf("%s: expected time-based v7 id, got v%d", tt.provider, id.Version())
		}
		if u.Name != tt.name {
			t.Errorf("%s: expected name %q, got %q", tt.provider, tt.name, u.Name)
		}
		if !strings.Contains(u.Avatar, u.ID) {
			t.Errorf("%s: avatar %q does not reference id", tt.provider, u.Avatar)
		}
	}

	again, _ := p.ObtainIdentity(ctx, model.ProviderGoogle)
	first, _ := p.ObtainIdentity(ctx, model.ProviderGoogle)
	if again.ID == first.ID {
		t.Error("expected distinct ids for separate logins")
	}
}
