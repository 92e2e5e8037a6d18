package protoc

import (
	"context"

	"github.com/go-logr/logr"
)

//go:generate mockgen -source=client.go -destination=mock/mock_client.go -package=mock_protoc

// Client represents the client used to connect to the remote store.
type Client interface {
	// Dial establishes a new session with the store.
	//
	// Parameters:
	//   - ctx: the context bounding the handshake
	//   - logger: the logger used by the session
	//
	// Returns:
	//   - conn: the established session
	//   - err: the error if any occurred, nil otherwise
	Dial(ctx context.Context, logger logr.Logger) (conn Conn, err error)

	// GetConnectionID returns a stable identifier derived from the client
	// settings, shared by every session dialed by this client.
	GetConnectionID() string

	// GetCredential returns the credential used to connect to the store.
	// It must be asserted to the concrete client type.
	GetCredential() any
}
