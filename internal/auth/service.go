package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/rogerio-castellano/inventory-ledger/internal/apperror"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

const defaultRole = "user"

// AuthService registers users and exchanges credentials for access tokens.
// Returned errors are *apperror.AppError.
type AuthService struct {
	users  repo.UserRepository
	tokens *TokenIssuer
}

func NewAuthService(users repo.UserRepository, tokens *TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (a *AuthService) Tokens() *TokenIssuer {
	return a.tokens
}

func (a *AuthService) Register(ctx context.Context, username, password string) (models.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, "", apperror.NewValidation("Missing credentials")
	}
	if len(username) < 3 || len(password) < 6 {
		return models.User{}, "", apperror.NewValidation("username or password too short")
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return models.User{}, "", apperror.NewInternal(err)
	}

	user, err := a.users.CreateUser(ctx, models.User{Username: username, PasswordHash: hashed, Role: defaultRole})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			return models.User{}, "", apperror.NewConflict("username already exists")
		}
		logger.Error(ctx, "failed to register user", "username", username, "error", err)
		return models.User{}, "", apperror.NewInternal(err)
	}

	token, err := a.tokens.GenerateToken(user)
	if err != nil {
		return models.User{}, "", apperror.NewInternal(err)
	}
	return user, token, nil
}

func (a *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := a.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return "", apperror.NewUnauthorized("invalid credentials")
		}
		return "", apperror.NewInternal(err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return "", apperror.NewUnauthorized("invalid credentials")
	}

	token, err := a.tokens.GenerateToken(user)
	if err != nil {
		return "", apperror.NewInternal(err)
	}
	logger.Info(ctx, "user logged in", "user_id", user.ID)
	return token, nil
}
