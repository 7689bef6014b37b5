package outbound

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/unifind/unifind/domain/entity"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserRepository is the credential store. Lookups retry transient
// connection faults and report exhaustion as apperror.ErrStoreUnavailable.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
