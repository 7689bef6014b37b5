package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/unifind/unifind/application/port/inbound"
	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/entity"
	"github.com/unifind/unifind/domain/valueobject"
	"github.com/unifind/unifind/infrastructure/persistence/postgres"
	"github.com/unifind/unifind/infrastructure/service/logger"
	"github.com/unifind/unifind/infrastructure/service/password"
)

type adminInput struct {
	inbound.SignupRequest
}

func parseFlags(args []string) (adminInput, error) {
	fs := flag.NewFlagSet("create_admin", flag.ContinueOnError)
	var in adminInput
	fs.StringVar(&in.Email, "email", "", "admin email (required)")
	fs.StringVar(&in.Password, "password", "", "admin password, at least 8 characters (required)")
	fs.StringVar(&in.Username, "username", "admin", "admin username")
	fs.StringVar(&in.FirstName, "first-name", "Site", "admin first name")
	fs.StringVar(&in.LastName, "last-name", "Administrator", "admin last name")
	if err := fs.Parse(args); err != nil {
		return in, err
	}

	in.Email = valueobject.NormalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return in, err
	}
	return in, nil
}

// newAdmin builds a verified Admin account from validated input.
func newAdmin(in adminInput, hasher outbound.PasswordService) (*entity.User, error) {
	hash, err := hasher.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return entity.NewUser(uuid.NewString(), in.Username, in.Email, in.FirstName, in.LastName, hash, entity.RoleAdmin, true), nil
}

func main() {
	log := logrus.New()

	in, err := parseFlags(os.Args[1:])
	if err != nil {
		log.WithError(err).Fatal("invalid arguments")
	}

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.WithError(err).Fatal("failed to ping database")
	}

	users := postgres.NewUserRepository(db, postgres.DefaultRetryPolicy(), logger.NewNop())
	admin, err := newAdmin(in, password.NewBcryptPasswordService(0))
	if err != nil {
		log.WithError(err).Fatal("failed to hash password")
	}

	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, outbound.ErrUserAlreadyExists) {
			log.Fatalf("a user with email %s already exists", in.Email)
		}
		log.WithError(err).Fatal("failed to create admin user")
	}

	fmt.Printf("Admin user created\n  uid:   %s\n  email: %s\n  role:  %s\n", admin.UID, admin.Email, admin.Role)
}
