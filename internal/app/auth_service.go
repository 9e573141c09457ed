package app

import (
	"log/slog"
	"strings"
	"time"

	"bridgerh/internal/common"
	"bridgerh/internal/security"
)

const AdminRole = "admin"

type AuthService struct {
	username     string
	password     string
	passwordHash string
	jwt          *security.JWTProvider
	sessionTTL   time.Duration
	logger       *slog.Logger
}

func NewAuthService(username, password, passwordHash string, jwt *security.JWTProvider, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		username:     username,
		password:     password,
		passwordHash: passwordHash,
		jwt:          jwt,
		sessionTTL:   sessionTTL,
		logger:       logger,
	}
}

// Verify checks the supplied credentials against configuration. With a
// configured password hash the password is compared through bcrypt;
// otherwise it falls back to plaintext equality, the development-mode path.
func (s *AuthService) Verify(username, password string) bool {
	if s.username == "" {
		return false
	}
	if username != s.username {
		return false
	}
	if s.passwordHash != "" {
		return security.VerifyPassword(password, s.passwordHash)
	}
	return s.password != "" && password == s.password
}

// Login verifies credentials and issues a signed admin session token.
func (s *AuthService) Login(username, password string) (string, time.Time, error) {
	if !s.Verify(strings.TrimSpace(username), password) {
		return "", time.Time{}, common.NewError(common.CodeUnauthorized, "invalid credentials", nil)
	}
	token, expiresAt, err := s.jwt.Generate(username, AdminRole, s.sessionTTL)
	if err != nil {
		return "", time.Time{}, common.NewError(common.CodeInternal, "failed to issue session token", err)
	}
	s.logger.Info("admin session issued", "username", username)
	return token, expiresAt, nil
}

// ValidateSession parses the session token and requires the admin role.
// Absence, expiry, a bad signature and a wrong role are indistinguishable
// to the caller.
func (s *AuthService) ValidateSession(token string) error {
	if strings.TrimSpace(token) == "" {
		return common.NewError(common.CodeUnauthorized, "not authenticated", nil)
	}
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return common.NewError(common.CodeUnauthorized, "not authenticated", err)
	}
	if claims.Role != AdminRole {
		return common.NewError(common.CodeUnauthorized, "not authenticated", nil)
	}
	return nil
}
