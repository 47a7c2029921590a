package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aislescan/aislescan/internal/core/domain"
	"github.com/aislescan/aislescan/internal/core/ports"
	"github.com/aislescan/aislescan/internal/core/token"
)

const minPasswordLength = 6

// AuthService implements signup and login.
type AuthService struct {
	repo      ports.AuthRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.AuthRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 168 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

func (s *AuthService) Signup(ctx context.Context, email, password, name string) (string, *domain.User, error) {
	if email == "" || password == "" || name == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	if len(password) < minPasswordLength {
		return "", nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	tok, err := token.Generate(created.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return tok, created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	tok, err := token.Generate(user.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return tok, user, nil
}

// VerifyUser resolves the account behind an already-validated bearer token.
func (s *AuthService) VerifyUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}
