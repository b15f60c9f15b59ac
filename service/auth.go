package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/codeshark-lucifer/pos-system/crypto"
	"github.com/codeshark-lucifer/pos-system/data/repository"
	"github.com/codeshark-lucifer/pos-system/logging/logger"
	"github.com/codeshark-lucifer/pos-system/security/jwt"
	"github.com/codeshark-lucifer/pos-system/structs"
)

const minPasswordLength = 8

// LoginResult is returned on successful login.
type LoginResult struct {
	Token     string        `json:"token"`
	ExpiresIn int64         `json:"expires_in"`
	User      *structs.User `json:"user"`
}

// AuthService implements registration, login/logout and the two-layer
// authentication check (token signature plus session registry membership).
type AuthService struct {
	users  repository.UserRepository
	tokens *jwt.TokenManager
	logger *logger.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(users repository.UserRepository, tokens *jwt.TokenManager, log *logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: log,
	}
}

// Register creates a new account. The role is always "user"; clients cannot
// self-assign admin.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*structs.User, error) {
	email = NormalizeEmail(email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, repository.ErrEmailExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = "Anonymous"
	}

	user, err := s.users.Create(ctx, &structs.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         structs.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID.Hex())
	return user, nil
}

// Login verifies the credentials, issues a token and records the session.
// Unknown email and wrong password both surface as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Debug(ctx, "login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.ComparePassword(user.PasswordHash, password) {
		s.logger.Debug(ctx, "login attempt with wrong password", "user_id", user.ID.Hex())
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID.Hex(), user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess := structs.Session{
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.tokens.Expire()),
	}

	// Lazy pruning keeps the session list from growing without bound;
	// expired entries are harmless either way because the codec rejects
	// expired tokens on its own.
	if err := s.users.PruneSessions(ctx, user.ID.Hex(), now); err != nil {
		s.logger.Warn(ctx, "failed to prune sessions", "user_id", user.ID.Hex(), "error", err)
	}

	if err := s.users.AddSession(ctx, user.ID.Hex(), sess, now); err != nil {
		return nil, err
	}

	user.LastLoginAt = &now
	s.logger.Info(ctx, "user logged in", "user_id", user.ID.Hex())

	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(s.tokens.Expire().Seconds()),
		User:      user,
	}, nil
}

// Logout revokes exactly the token used on this request. Sessions on other
// devices stay valid.
func (s *AuthService) Logout(ctx context.Context, user *structs.User, token string) error {
	if err := s.users.RemoveSession(ctx, user.ID.Hex(), token); err != nil {
		return err
	}
	s.logger.Info(ctx, "user logged out", "user_id", user.ID.Hex())
	return nil
}

// Authenticate turns a raw Authorization header into an authenticated
// principal and the exact token string, or a specific failure.
//
// A cryptographically valid token is necessary but not sufficient: the
// account must still exist and the token must still be in the user's
// session list, so deletions and logouts take effect before expiry.
func (s *AuthService) Authenticate(ctx context.Context, authHeader string) (*structs.User, string, error) {
	token, err := extractBearer(authHeader)
	if err != nil {
		return nil, "", err
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrUnknownPrincipal
		}
		return nil, "", err
	}

	if !user.HasSession(token) {
		return nil, "", ErrSessionRevoked
	}

	return user, token, nil
}

// Authorize checks the principal's role against the allowed set. An empty
// set means any authenticated principal.
func Authorize(principal *structs.User, roles ...structs.Role) error {
	if principal == nil {
		return ErrUnauthenticated
	}
	if len(roles) == 0 {
		return nil
	}
	for _, role := range roles {
		if principal.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func extractBearer(header string) (string, error) {
	if header == "" {
		return "", ErrNoCredential
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrNoCredential
	}
	return parts[1], nil
}
