package repository

import (
	"context"

	"github.com/oksasatya/etherescape/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}

// InterestRepository reads the signup reference list.
type InterestRepository interface {
	List(ctx context.Context) ([]entity.Interest, error)
}
