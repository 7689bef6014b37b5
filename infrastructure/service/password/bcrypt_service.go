package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/unifind/unifind/application/port/outbound"
)

var ErrEmptyPassword = errors.New("password cannot be empty")

type BcryptPasswordService struct {
	cost int
}

var _ outbound.PasswordService = (*BcryptPasswordService)(nil)

// NewBcryptPasswordService falls back to bcrypt.DefaultCost for out of range costs.
func NewBcryptPasswordService(cost int) *BcryptPasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordService{cost: cost}
}

func (s *BcryptPasswordService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports a mismatch as (false, nil); only malformed input is an error.
func (s *BcryptPasswordService) VerifyPassword(password, hash string) (bool, error) {
	if hash == "" || password == "" {
		return false, ErrEmptyPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("failed to compare passwords: %w", err)
	}
}
