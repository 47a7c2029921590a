package ports

import (
	"context"

	"github.com/aislescan/aislescan/internal/core/domain"
)

// AuthService implements signup, login, and token-holder lookup.
type AuthService interface {
	Signup(ctx context.Context, email, password, name string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// VerifyUser resolves the user behind an already-validated token.
	VerifyUser(ctx context.Context, userID int64) (*domain.User, error)
}
