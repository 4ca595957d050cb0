package identity

import (
	"context"
	"log/slog"

	"github.com/ugcgo/ugcgo-backend/internal/jwt"
	"github.com/ugcgo/ugcgo-backend/internal/logger"
	"github.com/ugcgo/ugcgo-backend/internal/models"
)

// Resolver maps an Authorization header to an identity.
// A nil identity means unauthenticated; resolvers never return errors.
type Resolver interface {
	Resolve(ctx context.Context, authorization string) *models.Identity
}

// UserVerifier asks the identity provider who owns an access token.
type UserVerifier interface {
	GetUser(ctx context.Context, accessToken string) (*models.Identity, error)
}

// RemoteResolver verifies every token with the identity provider.
type RemoteResolver struct {
	verifier UserVerifier
}

func NewRemoteResolver(v UserVerifier) *RemoteResolver {
	return &RemoteResolver{verifier: v}
}

func (r *RemoteResolver) Resolve(ctx context.Context, authorization string) *models.Identity {
	token, err := jwt.ExtractTokenFromHeader(authorization)
	if err != nil {
		return nil
	}

	id, err := r.verifier.GetUser(ctx, token)
	if err != nil {
		logger.FromContext(ctx).Debug("token verification failed", slog.String("error", err.Error()))
		return nil
	}
	if id == nil || id.ID == "" {
		return nil
	}
	return id
}

// LocalResolver verifies tokens with the project JWT secret, without a round trip.
type LocalResolver struct {
	tokens jwt.TokenManager
}

func NewLocalResolver(tm jwt.TokenManager) *LocalResolver {
	return &LocalResolver{tokens: tm}
}

func (r *LocalResolver) Resolve(ctx context.Context, authorization string) *models.Identity {
	token, err := jwt.ExtractTokenFromHeader(authorization)
	if err != nil {
		return nil
	}

	claims, err := r.tokens.ValidateToken(token)
	if err != nil {
		logger.FromContext(ctx).Debug("local token validation failed", slog.String("error", err.Error()))
		return nil
	}
	if claims.Role != "" && claims.Role != jwt.AuthenticatedRole {
		return nil
	}
	return &models.Identity{ID: claims.Subject, Email: claims.Email}
}
