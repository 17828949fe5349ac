package repository

import (
	"context"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

// UserRepository defines the credential store operations.
// Lookups return ErrNotFound when nothing matches; Create returns ErrDuplicateIdentity
// when the username or email is taken.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error)
}
