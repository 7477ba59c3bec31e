package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

const minPasswordLen = 8

// AuthService implements login and invite acceptance.
type AuthService struct {
	repo      ports.IdentityRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.IdentityRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Login verifies the credential and returns a signed token plus the resolved
// profile. Lookup failures collapse to ErrInvalidCredentials so the response
// does not reveal which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Profile, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	ident, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if ident.Invited() {
		return "", nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	profile, clientID, err := s.repo.ProfileByIdentity(ctx, ident.ID)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(profile, clientID)
	if err != nil {
		return "", nil, err
	}
	return token, profile, nil
}

// AcceptInvite sets the credential on an invited identity and consumes the
// invite token.
func (s *AuthService) AcceptInvite(ctx context.Context, token, password string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.Validationf("invite token is required")
	}
	if len(password) < minPasswordLen {
		return nil, domain.Validationf("password must be at least %d characters", minPasswordLen)
	}

	ident, err := s.repo.FindByInviteToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !ident.Invited() {
		return nil, domain.Validationf("invite already accepted")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetCredential(ctx, ident.ID, string(hash)); err != nil {
		return nil, err
	}

	ident.PasswordHash = string(hash)
	ident.InviteToken = ""
	return ident, nil
}

func (s *AuthService) generateToken(p *domain.Profile, clientID string) (string, error) {
	claims := jwt.MapClaims{
		"sub":       p.ID,
		"role":      p.Role,
		"client_id": clientID,
		"exp":       time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
