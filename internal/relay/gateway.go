package relay

import (
	"context"

	"chat-relay/internal/models"
)

// CredentialGateway is the narrow view of the user store the relay
// depends on. Token resolution and the online flag live behind it so
// the relay never touches credentials or storage directly.
type CredentialGateway interface {
	ResolveToken(ctx context.Context, token string) (models.User, error)
	SetOnline(ctx context.Context, email string) error
	SetOffline(ctx context.Context, email string) error
	ListOnlineUsernames(ctx context.Context) ([]string, error)
}
