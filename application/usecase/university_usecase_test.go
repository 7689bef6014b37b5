package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unifind/unifind/application/port/inbound"
	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/apperror"
	"github.com/unifind/unifind/domain/entity"
	"github.com/unifind/unifind/infrastructure/service/logger"
)

func TestUniversityUseCase_List(t *testing.T) {
	repo := new(mockUniversityRepository)
	uc := NewUniversityUseCase(repo, logger.NewNop())

	filters := outbound.UniversityFilters{Country: "Nigeria"}
	repo.On("FindAll", mock.Anything, 0, 100, filters).Return([]*entity.University{
		{UID: "u1", Name: "University of Lagos", Country: "Nigeria", Type: entity.UniversityTypePublic, Ranking: entity.RankingA},
	}, nil)

	got, err := uc.List(context.Background(), inbound.ListUniversitiesQuery{Limit: 100, Filters: filters})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "University of Lagos", got[0].Name)
	assert.Equal(t, entity.UniversityTypePublic, got[0].UniversityType)
	repo.AssertExpectations(t)
}

func TestUniversityUseCase_ListValidation(t *testing.T) {
	uc := NewUniversityUseCase(new(mockUniversityRepository), logger.NewNop())

	tests := []inbound.ListUniversitiesQuery{
		{Skip: -1, Limit: 10},
		{Limit: 0},
		{Limit: 101},
		{Limit: 10, Filters: outbound.UniversityFilters{Type: "college"}},
		{Limit: 10, Filters: outbound.UniversityFilters{Ranking: "Z"}},
	}
	for _, q := range tests {
		_, err := uc.List(context.Background(), q)
		assert.ErrorIs(t, err, apperror.ErrValidation, "%+v", q)
	}
}

func TestUniversityUseCase_Get(t *testing.T) {
	repo := new(mockUniversityRepository)
	uc := NewUniversityUseCase(repo, logger.NewNop())
	found, missing := uuid.NewString(), uuid.NewString()

	repo.On("FindByID", mock.Anything, found).Return(&entity.University{UID: found}, nil)
	repo.On("FindByID", mock.Anything, missing).Return(nil, outbound.ErrUniversityNotFound)

	u, err := uc.Get(context.Background(), found)
	require.NoError(t, err)
	assert.Equal(t, found, u.UID)

	_, err = uc.Get(context.Background(), missing)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "University not found", apperror.From(err).Message)

	_, err = uc.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUniversityUseCase_Create(t *testing.T) {
	repo := new(mockUniversityRepository)
	uc := NewUniversityUseCase(repo, logger.NewNop())

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.University) bool {
		return u.Ranking == entity.RankingNotRanked &&
			u.IsActive &&
			len(u.AcademicPrograms) == 1 &&
			u.AcademicPrograms[0].IsActive &&
			u.LanguagesOfInstruction != nil
	})).Return(nil)

	u, err := uc.Create(context.Background(), inbound.CreateUniversityRequest{
		Name:           "University of Lagos",
		Country:        "Nigeria",
		City:           "Lagos",
		UniversityType: entity.UniversityTypePublic,
		AcademicPrograms: []inbound.CreateProgramRequest{
			{Name: "Computer Science", DegreeType: "BSc"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "University of Lagos", u.Name)
	repo.AssertExpectations(t)
}

func TestUniversityUseCase_CreateValidation(t *testing.T) {
	repo := new(mockUniversityRepository)
	uc := NewUniversityUseCase(repo, logger.NewNop())
	rate := 140.0

	tests := map[string]inbound.CreateUniversityRequest{
		"missing name":    {Country: "Nigeria", City: "Lagos", UniversityType: entity.UniversityTypePublic},
		"unknown type":    {Name: "X", Country: "Nigeria", City: "Lagos", UniversityType: "college"},
		"acceptance rate": {Name: "X", Country: "Nigeria", City: "Lagos", UniversityType: entity.UniversityTypePublic, AcceptanceRate: &rate},
		"language":        {Name: "X", Country: "Nigeria", City: "Lagos", UniversityType: entity.UniversityTypePublic, LanguagesOfInstruction: []entity.Language{"Klingon"}},
		"program":         {Name: "X", Country: "Nigeria", City: "Lagos", UniversityType: entity.UniversityTypePublic, AcademicPrograms: []inbound.CreateProgramRequest{{Name: "CS"}}},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), req)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUniversityUseCase_Update(t *testing.T) {
	repo := new(mockUniversityRepository)
	uc := NewUniversityUseCase(repo, logger.NewNop())
	id := uuid.NewString()
	name := "UNILAG"
	no := false

	repo.On("Update", mock.Anything, id, map[string]interface{}{"name": "UNILAG", "offers_scholarships": false}).Return(nil)
	repo.On("FindByID", mock.Anything, id).Return(&entity.University{UID: id, Name: name}, nil)

	u, err := uc.Update(context.Background(), id, inbound.UpdateUniversityRequest{Name: &name, OffersScholarships: &no})
	require.NoError(t, err)
	assert.Equal(t, "UNILAG", u.Name)
	repo.AssertExpectations(t)

	missing := uuid.NewString()
	repo.On("Update", mock.Anything, missing, mock.Anything).Return(outbound.ErrUniversityNotFound)
	_, err = uc.Update(context.Background(), missing, inbound.UpdateUniversityRequest{Name: &name})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	empty := ""
	_, err = uc.Update(context.Background(), id, inbound.UpdateUniversityRequest{Name: &empty})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUniversityUseCase_Delete(t *testing.T) {
	repo := new(mockUniversityRepository)
	uc := NewUniversityUseCase(repo, logger.NewNop())
	id, missing := uuid.NewString(), uuid.NewString()

	repo.On("SoftDelete", mock.Anything, id).Return(nil)
	repo.On("SoftDelete", mock.Anything, missing).Return(outbound.ErrUniversityNotFound)

	assert.NoError(t, uc.Delete(context.Background(), id))
	assert.ErrorIs(t, uc.Delete(context.Background(), missing), apperror.ErrNotFound)
}

func TestUniversityUseCase_Programs(t *testing.T) {
	repo := new(mockUniversityRepository)
	uc := NewUniversityUseCase(repo, logger.NewNop())
	id, missing := uuid.NewString(), uuid.NewString()

	repo.On("FindByID", mock.Anything, id).Return(&entity.University{UID: id}, nil)
	repo.On("FindByID", mock.Anything, missing).Return(nil, outbound.ErrUniversityNotFound)
	repo.On("FindProgramsByUniversity", mock.Anything, id).Return([]*entity.AcademicProgram{{Name: "Law"}}, nil)

	programs, err := uc.Programs(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, programs, 1)

	_, err = uc.Programs(context.Background(), missing)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	repo.AssertNotCalled(t, "FindProgramsByUniversity", mock.Anything, missing)
}

func TestUniversityUseCase_StoreFaults(t *testing.T) {
	repo := new(mockUniversityRepository)
	uc := NewUniversityUseCase(repo, logger.NewNop())

	repo.On("Statistics", mock.Anything).Return(nil, apperror.StoreUnavailable("universities.statistics", nil))
	_, err := uc.Statistics(context.Background())
	assert.ErrorIs(t, err, apperror.ErrStoreUnavailable)

	repo2 := new(mockUniversityRepository)
	uc2 := NewUniversityUseCase(repo2, logger.NewNop())
	repo2.On("Statistics", mock.Anything).Return(&outbound.UniversityStatistics{TotalUniversities: 3}, nil)
	stats, err := uc2.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalUniversities)
}
