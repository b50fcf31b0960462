package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chat-relay/internal/models"
	"chat-relay/internal/relay"
	"chat-relay/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, email, username, passwordHash string) error {
	args := m.Called(ctx, email, username, passwordHash)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) IssueToken(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *UserRepositoryMock) ClearToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *UserRepositoryMock) ResolveToken(ctx context.Context, token string) (models.User, error) {
	args := m.Called(ctx, token)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) SetOnline(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *UserRepositoryMock) SetOffline(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *UserRepositoryMock) ListOnlineUsernames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var usernames []string
	if val := args.Get(0); val != nil {
		usernames = val.([]string)
	}
	return usernames, args.Error(1)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ relay.CredentialGateway = (*UserRepositoryMock)(nil)
