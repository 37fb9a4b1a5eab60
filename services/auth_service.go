//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"fmt"

	"chat-room/auth"
	"chat-room/errors"
	"chat-room/repositories"
)

type IAuthService interface {
	Register(username, password string) (Token, error)
	Login(username, password string) (Token, error)
	Authenticate(username, password string) error
}

// Token is a signed session token handed back by register and login.
type Token string

type AuthService struct {
	users  repositories.IUserRepository
	tokens *auth.TokenIssuer
}

func NewAuthService(users repositories.IUserRepository, tokens *auth.TokenIssuer) IAuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register validates, hashes, and persists a new account, then issues its
// first session token. Validation runs before the expensive hash.
func (s *AuthService) Register(username, password string) (Token, error) {
	req := auth.RegisterRequest{Username: username, Password: password}
	if err := auth.ValidateRegister(req); err != nil {
		return "", err
	}

	// Hashing happens here so the repository never sees plain passwords.
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	if _, err := s.users.CreateUser(username, hashed); err != nil {
		return "", err // Propagates ErrUserAlreadyExists when the name is taken
	}

	return s.issue(username)
}

// Login verifies the stored hash and issues a fresh session token.
func (s *AuthService) Login(username, password string) (Token, error) {
	if err := s.Authenticate(username, password); err != nil {
		return "", err
	}
	return s.issue(username)
}

// Authenticate checks a username/password pair without minting a token.
// The websocket upgrade path uses it for the query-parameter fallback.
func (s *AuthService) Authenticate(username, password string) error {
	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		return err
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("hash verification failed: %w", err)
	}
	if !ok {
		return errors.ErrInvalidCredentials
	}
	return nil
}

func (s *AuthService) issue(username string) (Token, error) {
	token, err := s.tokens.Issue(username)
	if err != nil {
		return "", fmt.Errorf("token generation failed: %w", err)
	}
	return Token(token), nil
}
