package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nhle/todo/internal/model"
)

// DemoUserID is the fixed id of the demo identity.
const DemoUserID = "demo"

// avatarURL is the placeholder avatar service.
const avatarURL = "https://i.pravatar.cc/150?u=%s"

// StubProvider fabricates identities locally. Facebook and Google ids
// are UUIDv7 values, which embed their creation time.
type StubProvider struct {
	newID func() (uuid.UUID, error)
}

// NewStubProvider creates the local identity stand-in.
func NewStubProvider() *StubProvider {
	return &StubProvider{newID: uuid.NewV7}
}

// ObtainIdentity returns a synthetic user for provider.
func (p *StubProvider) ObtainIdentity(_ context.Context, provider model.Provider) (model.User, error) {
	var id, name string
	switch provider {
	case model.ProviderFacebook, model.ProviderGoogle:
		u, err := p.newID()
		if err != nil {
			return model.User{}, fmt.Errorf("generating user id: %w", err)
		}
		prefix := "fb"
		name = "Facebook User"
		if provider == model.ProviderGoogle {
			prefix = "google"
			name = "Google User"
		}
		id = prefix + "-" + u.String()
	case model.ProviderDemo:
		id = DemoUserID
		name = "Demo User"
	default:
		return model.User{}, ErrUnknownProvider
	}

	return model.User{
		ID:       id,
		Name:     name,
		Avatar:   fmt.Sprintf(avatarURL, id),
		Provider: provider,
	}, nil
}
