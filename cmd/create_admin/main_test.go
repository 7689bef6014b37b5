package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/unifind/unifind/domain/entity"
	"github.com/unifind/unifind/infrastructure/service/password"
)

func TestParseFlags(t *testing.T) {
	in, err := parseFlags([]string{"-email", " Root@Example.COM ", "-password", "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", in.Email)
	assert.Equal(t, "admin", in.Username)

	_, err = parseFlags([]string{"-email", "root@example.com", "-password", "short"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"-password", "s3cret-pass"})
	assert.Error(t, err)
}

func TestNewAdmin(t *testing.T) {
	in, err := parseFlags([]string{"-email", "root@example.com", "-password", "s3cret-pass"})
	require.NoError(t, err)

	hasher := password.NewBcryptPasswordService(bcrypt.MinCost)
	admin, err := newAdmin(in, hasher)
	require.NoError(t, err)

	assert.Equal(t, entity.RoleAdmin, admin.Role)
	assert.True(t, admin.IsVerified)
	assert.NotEqual(t, "s3cret-pass", admin.PasswordHash)
	ok, err := hasher.VerifyPassword("s3cret-pass", admin.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}
