package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/unifind/unifind/application/port/inbound"
	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/apperror"
	"github.com/unifind/unifind/domain/entity"
	"github.com/unifind/unifind/infrastructure/service/logger"
)

type universityUseCase struct {
	repo   outbound.UniversityRepository
	logger logger.Logger
}

func NewUniversityUseCase(repo outbound.UniversityRepository, log logger.Logger) inbound.UniversityUseCase {
	return &universityUseCase{repo: repo, logger: log}
}

func (uc *universityUseCase) List(ctx context.Context, query inbound.ListUniversitiesQuery) ([]inbound.UniversitySummary, error) {
	if err := query.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	universities, err := uc.repo.FindAll(ctx, query.Skip, query.Limit, query.Filters)
	if err != nil {
		return nil, storeError("list universities", err)
	}

	out := make([]inbound.UniversitySummary, 0, len(universities))
	for _, u := range universities {
		out = append(out, inbound.NewUniversitySummary(u))
	}
	return out, nil
}

func (uc *universityUseCase) Get(ctx context.Context, id string) (*entity.University, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	university, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, universityError("get university", err)
	}
	return university, nil
}

func (uc *universityUseCase) Create(ctx context.Context, req inbound.CreateUniversityRequest) (*entity.University, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	university := &entity.University{
		Name:                   req.Name,
		Website:                req.Website,
		Country:                req.Country,
		City:                   req.City,
		FoundedYear:            req.FoundedYear,
		Type:                   req.UniversityType,
		Ranking:                req.Ranking,
		Description:            req.Description,
		NigerianStudents:       req.NigerianStudents,
		AcceptanceRate:         req.AcceptanceRate,
		AverageAnnualTuition:   req.AverageAnnualTuition,
		ContactEmail:           req.ContactEmail,
		ContactPhone:           req.ContactPhone,
		LanguagesOfInstruction: entity.LanguageList(req.LanguagesOfInstruction),
		OffersScholarships:     req.OffersScholarships,
		ProvidesAccommodation:  req.ProvidesAccommodation,
		PartnerUniversity:      req.PartnerUniversity,
		IsActive:               boolOr(req.IsActive, true),
	}
	if university.Ranking == "" {
		university.Ranking = entity.RankingNotRanked
	}
	if university.LanguagesOfInstruction == nil {
		university.LanguagesOfInstruction = entity.LanguageList{}
	}

	for _, p := range req.AcademicPrograms {
		university.AcademicPrograms = append(university.AcademicPrograms, entity.AcademicProgram{
			Name:              p.Name,
			DegreeType:        p.DegreeType,
			Faculty:           p.Faculty,
			Department:        p.Department,
			DurationYears:     p.DurationYears,
			Description:       p.Description,
			EntryRequirements: p.EntryRequirements,
			TuitionFee:        p.TuitionFee,
			IsActive:          boolOr(p.IsActive, true),
		})
	}

	if err := uc.repo.Create(ctx, university); err != nil {
		return nil, storeError("create university", err)
	}

	uc.logger.Info(ctx, "University created", map[string]interface{}{
		"university_uid": university.UID,
		"programs":       len(university.AcademicPrograms),
	})
	return university, nil
}

func (uc *universityUseCase) Update(ctx context.Context, id string, req inbound.UpdateUniversityRequest) (*entity.University, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	if err := uc.repo.Update(ctx, id, req.Fields()); err != nil {
		return nil, universityError("update university", err)
	}
	return uc.Get(ctx, id)
}

func (uc *universityUseCase) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	if err := uc.repo.SoftDelete(ctx, id); err != nil {
		return universityError("delete university", err)
	}

	uc.logger.Info(ctx, "University deactivated", map[string]interface{}{"university_uid": id})
	return nil
}

func (uc *universityUseCase) Programs(ctx context.Context, universityID string) ([]*entity.AcademicProgram, error) {
	if _, err := uc.Get(ctx, universityID); err != nil {
		return nil, err
	}
	programs, err := uc.repo.FindProgramsByUniversity(ctx, universityID)
	if err != nil {
		return nil, storeError("list programs", err)
	}
	return programs, nil
}

func (uc *universityUseCase) Statistics(ctx context.Context) (*outbound.UniversityStatistics, error) {
	stats, err := uc.repo.Statistics(ctx)
	if err != nil {
		return nil, storeError("university statistics", err)
	}
	return stats, nil
}

func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.Validation("invalid university id")
	}
	return nil
}

func universityError(op string, err error) error {
	if errors.Is(err, outbound.ErrUniversityNotFound) {
		return apperror.NotFound("University")
	}
	return storeError(op, err)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
