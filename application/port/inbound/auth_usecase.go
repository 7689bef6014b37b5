package inbound

import (
	"context"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/entity"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50), validation.Match(usernameRegex)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 255), is.Email),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type UserResponse struct {
	UID        string    `json:"uid"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewUserResponse(u *entity.User) *UserResponse {
	return &UserResponse{
		UID:        u.UID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role.String(),
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

type LoginUser struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

type LoginResponse struct {
	Message      string    `json:"message"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	User         LoginUser `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type AuthUseCase interface {
	Signup(ctx context.Context, req SignupRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	// Refresh issues a new access token for the subject of verified refresh claims.
	Refresh(ctx context.Context, claims *outbound.TokenClaims) (*RefreshResponse, error)
	// Logout revokes the presented token.
	Logout(ctx context.Context, claims *outbound.TokenClaims) error
}
