// Package relay federates this server with peers: pulling bundles of
// remote events on a timer and pushing locally authored messages
// outward, both through a relay.Client the concrete transport
// implements.
package relay

import (
	"context"

	"github.com/s21platform/codeu-chat/internal/identity"
	"github.com/s21platform/codeu-chat/internal/model"
)

// Component is one (id, text, time) triple inside a Bundle.
type Component struct {
	ID   identity.ID
	Text string
	Time model.Time
}

// Bundle is one relay-delivered event describing a remote user,
// conversation, or message to materialize locally if absent.
type Bundle struct {
	ID           identity.ID
	User         Component
	Conversation Component
	Message      Component
}

// Client is the relay transport contract: read pulls up to max
// bundles since sinceBundleID; write pushes one locally authored
// message pack outward. Both are best-effort; failures are returned
// for the caller to log and retry.
type Client interface {
	Read(ctx context.Context, serverID identity.ID, secret model.Secret, sinceBundleID identity.ID, max int) ([]Bundle, error)
	Write(ctx context.Context, serverID identity.ID, secret model.Secret, user, conversation, message Component) error
}
