package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/balasutharsan1247/student-fitness-app/internal"
	"github.com/balasutharsan1247/student-fitness-app/internal/storage"
)

type Provider interface {
	Authenticate(ctx context.Context, token string) (*internal.User, error)
}

// TokenProvider resolves bearer tokens to active users.
type TokenProvider struct {
	tokens *TokenManager
	users  storage.UserRepository
	logger internal.Logger
}

func NewTokenProvider(tokens *TokenManager, users storage.UserRepository, logger internal.Logger) *TokenProvider {
	return &TokenProvider{tokens: tokens, users: users, logger: logger}
}

func (p *TokenProvider) Authenticate(ctx context.Context, token string) (*internal.User, error) {
	userID, err := p.tokens.Parse(token)
	if err != nil {
		p.logger.Debugf("rejected token: %v", err)
		return nil, err
	}
	user, err := p.users.GetUser(ctx, userID)
	if errors.Is(err, internal.ErrNotFound) {
		p.logger.Warnf("token for unknown user %s", userID)
		return nil, fmt.Errorf("%w: user no longer exists", internal.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", internal.ErrUnauthorized)
	}
	return user, nil
}
