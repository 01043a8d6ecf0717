package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/episko/blog/internal/core/domain"
	"github.com/episko/blog/internal/core/ports"
)

// AuthService implements registration and login. Clients submit a SHA-256
// digest of the password; only a bcrypt hash of that digest is stored.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, now: time.Now}
}

// Register creates a user. Assigning a role requires an admin caller; the
// default role is user.
func (s *AuthService) Register(ctx context.Context, caller *domain.Claims, in ports.RegisterInput) (*domain.User, error) {
	if blank(in.FirstName) || blank(in.LastName) || blank(in.Username) || in.PasswordDigest == "" {
		return nil, fmt.Errorf("%w: firstName, lastName, username and password are required", domain.ErrInvalidInput)
	}

	role := domain.RoleUser
	if in.Role != "" {
		if caller == nil || !caller.IsAdmin() {
			return nil, domain.ErrForbidden
		}
		if !in.Role.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, in.Role)
		}
		role = in.Role
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.PasswordDigest), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user whose stored hash matches digest. Unknown
// usernames and wrong digests are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, digest string) (*domain.User, error) {
	if username == "" || digest == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(digest)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues a signed bearer token.
func (s *AuthService) Login(ctx context.Context, username, digest string) (string, *domain.User, error) {
	user, err := s.Authenticate(ctx, username, digest)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// EnsureAdmin creates an admin account unless the username already exists.
// It reports whether a user was created. digest is stored in the lowercase
// form that login submits.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, digest string) (bool, error) {
	digest = strings.ToLower(strings.TrimSpace(digest))

	_, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, err
	}

	admin := domain.Claims{Username: username, Role: domain.RoleAdmin}
	_, err = s.Register(ctx, &admin, ports.RegisterInput{
		FirstName:      "Site",
		LastName:       "Admin",
		Username:       username,
		PasswordDigest: digest,
		Role:           domain.RoleAdmin,
	})
	if errors.Is(err, domain.ErrUserExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      s.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
