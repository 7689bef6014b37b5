package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/entity"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type mockRevocationStore struct {
	mock.Mock
}

func (m *mockRevocationStore) Contains(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, tokenID, ttl).Error(0)
}

// memoryRevocationStore is a map-backed blocklist for flow tests.
type memoryRevocationStore struct {
	ids map[string]time.Duration
}

func newMemoryRevocationStore() *memoryRevocationStore {
	return &memoryRevocationStore{ids: map[string]time.Duration{}}
}

func (s *memoryRevocationStore) Contains(_ context.Context, tokenID string) (bool, error) {
	_, ok := s.ids[tokenID]
	return ok, nil
}

func (s *memoryRevocationStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.ids[tokenID] = ttl
	return nil
}

// panickingTokens panics on Decode.
type panickingTokens struct {
	outbound.TokenService
}

func (panickingTokens) Decode(string) (*outbound.TokenClaims, error) {
	panic("decoder exploded")
}

type mockUniversityRepository struct {
	mock.Mock
}

func (m *mockUniversityRepository) Create(ctx context.Context, u *entity.University) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUniversityRepository) FindByID(ctx context.Context, id string) (*entity.University, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*entity.University), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUniversityRepository) FindAll(ctx context.Context, offset, limit int, filters outbound.UniversityFilters) ([]*entity.University, error) {
	args := m.Called(ctx, offset, limit, filters)
	if u := args.Get(0); u != nil {
		return u.([]*entity.University), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUniversityRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *mockUniversityRepository) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUniversityRepository) FindProgramsByUniversity(ctx context.Context, id string) ([]*entity.AcademicProgram, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.([]*entity.AcademicProgram), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUniversityRepository) Statistics(ctx context.Context) (*outbound.UniversityStatistics, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.(*outbound.UniversityStatistics), args.Error(1)
	}
	return nil, args.Error(1)
}
