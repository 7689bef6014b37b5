package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/entity"
	"github.com/unifind/unifind/infrastructure/service/logger"
)

const userColumns = `uid, username, email, first_name, last_name, password_hash, role, is_verified, created_at, updated_at`

const uniqueViolation = "23505"

type userRepository struct {
	db     *sql.DB
	policy RetryPolicy
	logger logger.Logger
}

func NewUserRepository(db *sql.DB, policy RetryPolicy, log logger.Logger) outbound.UserRepository {
	return &userRepository{db: db, policy: policy, logger: log}
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`

	return withRetry(ctx, r.policy, r.logger, "users.find_by_id", func(ctx context.Context) (*entity.User, error) {
		user, err := scanUser(r.db.QueryRowContext(ctx, query, id.String()))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, outbound.ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to find user by ID: %w", err)
		}
		return user, nil
	})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if email == "" {
		return nil, fmt.Errorf("email cannot be empty")
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`

	return withRetry(ctx, r.policy, r.logger, "users.find_by_email", func(ctx context.Context) (*entity.User, error) {
		user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, outbound.ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to find user by email: %w", err)
		}
		return user, nil
	})
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	return withRetry(ctx, r.policy, r.logger, "users.exists_by_email", func(ctx context.Context) (bool, error) {
		var exists bool
		if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
			return false, fmt.Errorf("failed to check email: %w", err)
		}
		return exists, nil
	})
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	if user == nil {
		return fmt.Errorf("user cannot be nil")
	}
	if user.UID == "" || user.Email == "" || user.PasswordHash == "" {
		return fmt.Errorf("user ID, email, and password are required")
	}

	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := withRetry(ctx, r.policy, r.logger, "users.create", func(ctx context.Context) (struct{}, error) {
		_, err := r.db.ExecContext(ctx, query,
			user.UID,
			user.Username,
			user.Email,
			user.FirstName,
			user.LastName,
			user.PasswordHash,
			user.Role.String(),
			user.IsVerified,
			user.CreatedAt,
			user.UpdatedAt,
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
				return struct{}{}, outbound.ErrUserAlreadyExists
			}
			return struct{}{}, fmt.Errorf("failed to create user: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

func scanUser(row *sql.Row) (*entity.User, error) {
	var (
		user entity.User
		role string
	)
	if err := row.Scan(
		&user.UID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&role,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := entity.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("user %s has role %q: %w", user.UID, role, err)
	}
	user.Role = parsed
	return &user, nil
}
