package inbound

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/entity"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 100
)

type CreateProgramRequest struct {
	Name              string   `json:"name"`
	DegreeType        string   `json:"degree_type"`
	Faculty           *string  `json:"faculty,omitempty"`
	Department        *string  `json:"department,omitempty"`
	DurationYears     *float64 `json:"duration_years,omitempty"`
	Description       *string  `json:"description,omitempty"`
	EntryRequirements *string  `json:"entry_requirements,omitempty"`
	TuitionFee        *float64 `json:"tuition_fee,omitempty"`
	IsActive          *bool    `json:"is_active,omitempty"`
}

func (r CreateProgramRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.DegreeType, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Faculty, validation.Length(0, 255)),
		validation.Field(&r.Department, validation.Length(0, 255)),
		validation.Field(&r.DurationYears, validation.Min(0.0)),
		validation.Field(&r.TuitionFee, validation.Min(0.0)),
	)
}

type CreateUniversityRequest struct {
	Name                   string                 `json:"name"`
	Website                *string                `json:"website,omitempty"`
	Country                string                 `json:"country"`
	City                   string                 `json:"city"`
	FoundedYear            *int                   `json:"founded_year,omitempty"`
	UniversityType         entity.UniversityType  `json:"university_type"`
	Ranking                entity.Ranking         `json:"ranking,omitempty"`
	Description            *string                `json:"description,omitempty"`
	NigerianStudents       *int                   `json:"nigerian_students,omitempty"`
	AcceptanceRate         *float64               `json:"acceptance_rate,omitempty"`
	AverageAnnualTuition   *float64               `json:"average_annual_tuition,omitempty"`
	ContactEmail           *string                `json:"contact_email,omitempty"`
	ContactPhone           *string                `json:"contact_phone,omitempty"`
	LanguagesOfInstruction []entity.Language      `json:"languages_of_instruction,omitempty"`
	OffersScholarships     bool                   `json:"offers_scholarships"`
	ProvidesAccommodation  bool                   `json:"provides_accommodation"`
	PartnerUniversity      bool                   `json:"partner_university"`
	IsActive               *bool                  `json:"is_active,omitempty"`
	AcademicPrograms       []CreateProgramRequest `json:"academic_programs,omitempty"`
}

func (r CreateUniversityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Website, validation.Length(0, 255), is.URL),
		validation.Field(&r.Country, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.City, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.FoundedYear, validation.Min(800), validation.Max(time.Now().Year())),
		validation.Field(&r.UniversityType, validation.Required, validation.By(validUniversityType)),
		validation.Field(&r.Ranking, validation.By(validRanking)),
		validation.Field(&r.NigerianStudents, validation.Min(0)),
		validation.Field(&r.AcceptanceRate, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&r.AverageAnnualTuition, validation.Min(0.0)),
		validation.Field(&r.ContactEmail, validation.Length(0, 255), is.Email),
		validation.Field(&r.ContactPhone, validation.Length(0, 20)),
		validation.Field(&r.LanguagesOfInstruction, validation.By(validLanguages)),
		validation.Field(&r.AcademicPrograms),
	)
}

// UpdateUniversityRequest carries only the fields to change.
type UpdateUniversityRequest struct {
	Name                   *string                `json:"name,omitempty"`
	Website                *string                `json:"website,omitempty"`
	Country                *string                `json:"country,omitempty"`
	City                   *string                `json:"city,omitempty"`
	FoundedYear            *int                   `json:"founded_year,omitempty"`
	UniversityType         *entity.UniversityType `json:"university_type,omitempty"`
	Ranking                *entity.Ranking        `json:"ranking,omitempty"`
	Description            *string                `json:"description,omitempty"`
	NigerianStudents       *int                   `json:"nigerian_students,omitempty"`
	AcceptanceRate         *float64               `json:"acceptance_rate,omitempty"`
	AverageAnnualTuition   *float64               `json:"average_annual_tuition,omitempty"`
	ContactEmail           *string                `json:"contact_email,omitempty"`
	ContactPhone           *string                `json:"contact_phone,omitempty"`
	LanguagesOfInstruction *[]entity.Language     `json:"languages_of_instruction,omitempty"`
	OffersScholarships     *bool                  `json:"offers_scholarships,omitempty"`
	ProvidesAccommodation  *bool                  `json:"provides_accommodation,omitempty"`
	PartnerUniversity      *bool                  `json:"partner_university,omitempty"`
	IsActive               *bool                  `json:"is_active,omitempty"`
}

func (r UpdateUniversityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Website, validation.Length(0, 255), is.URL),
		validation.Field(&r.Country, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.City, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.FoundedYear, validation.Min(800), validation.Max(time.Now().Year())),
		validation.Field(&r.UniversityType, validation.By(validUniversityType)),
		validation.Field(&r.Ranking, validation.By(validRanking)),
		validation.Field(&r.NigerianStudents, validation.Min(0)),
		validation.Field(&r.AcceptanceRate, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&r.AverageAnnualTuition, validation.Min(0.0)),
		validation.Field(&r.ContactEmail, validation.Length(0, 255), is.Email),
		validation.Field(&r.ContactPhone, validation.Length(0, 20)),
		validation.Field(&r.LanguagesOfInstruction, validation.By(validLanguages)),
	)
}

// Fields returns the column values named by the request.
func (r UpdateUniversityRequest) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	setString := func(col string, v *string) {
		if v != nil {
			fields[col] = *v
		}
	}
	setString("name", r.Name)
	setString("website", r.Website)
	setString("country", r.Country)
	setString("city", r.City)
	setString("description", r.Description)
	setString("contact_email", r.ContactEmail)
	setString("contact_phone", r.ContactPhone)
	if r.FoundedYear != nil {
		fields["founded_year"] = *r.FoundedYear
	}
	if r.UniversityType != nil {
		fields["university_type"] = *r.UniversityType
	}
	if r.Ranking != nil {
		fields["ranking"] = *r.Ranking
	}
	if r.NigerianStudents != nil {
		fields["nigerian_students"] = *r.NigerianStudents
	}
	if r.AcceptanceRate != nil {
		fields["acceptance_rate"] = *r.AcceptanceRate
	}
	if r.AverageAnnualTuition != nil {
		fields["average_annual_tuition"] = *r.AverageAnnualTuition
	}
	if r.LanguagesOfInstruction != nil {
		fields["languages_of_instruction"] = entity.LanguageList(*r.LanguagesOfInstruction)
	}
	if r.OffersScholarships != nil {
		fields["offers_scholarships"] = *r.OffersScholarships
	}
	if r.ProvidesAccommodation != nil {
		fields["provides_accommodation"] = *r.ProvidesAccommodation
	}
	if r.PartnerUniversity != nil {
		fields["partner_university"] = *r.PartnerUniversity
	}
	if r.IsActive != nil {
		fields["is_active"] = *r.IsActive
	}
	return fields
}

type ListUniversitiesQuery struct {
	Skip    int
	Limit   int
	Filters outbound.UniversityFilters
}

func (q ListUniversitiesQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Skip, validation.Min(0)),
		validation.Field(&q.Limit, validation.Required, validation.Min(1), validation.Max(MaxListLimit)),
		validation.Field(&q.Filters, validation.By(validFilters)),
	)
}

// UniversitySummary is the list view of a university.
type UniversitySummary struct {
	UID                   string                `json:"uid"`
	Name                  string                `json:"name"`
	Country               string                `json:"country"`
	City                  string                `json:"city"`
	UniversityType        entity.UniversityType `json:"university_type"`
	Ranking               entity.Ranking        `json:"ranking"`
	OffersScholarships    bool                  `json:"offers_scholarships"`
	ProvidesAccommodation bool                  `json:"provides_accommodation"`
	AverageAnnualTuition  *float64              `json:"average_annual_tuition"`
	CreatedAt             time.Time             `json:"created_at"`
}

func NewUniversitySummary(u *entity.University) UniversitySummary {
	return UniversitySummary{
		UID:                   u.UID,
		Name:                  u.Name,
		Country:               u.Country,
		City:                  u.City,
		UniversityType:        u.Type,
		Ranking:               u.Ranking,
		OffersScholarships:    u.OffersScholarships,
		ProvidesAccommodation: u.ProvidesAccommodation,
		AverageAnnualTuition:  u.AverageAnnualTuition,
		CreatedAt:             u.CreatedAt,
	}
}

type UniversityUseCase interface {
	List(ctx context.Context, query ListUniversitiesQuery) ([]UniversitySummary, error)
	Get(ctx context.Context, id string) (*entity.University, error)
	Create(ctx context.Context, req CreateUniversityRequest) (*entity.University, error)
	Update(ctx context.Context, id string, req UpdateUniversityRequest) (*entity.University, error)
	Delete(ctx context.Context, id string) error
	Programs(ctx context.Context, universityID string) ([]*entity.AcademicProgram, error)
	Statistics(ctx context.Context) (*outbound.UniversityStatistics, error)
}

func validUniversityType(value interface{}) error {
	var t entity.UniversityType
	switch v := value.(type) {
	case entity.UniversityType:
		t = v
	case *entity.UniversityType:
		if v == nil {
			return nil
		}
		t = *v
	}
	if t == "" || t.IsValid() {
		return nil
	}
	return fmt.Errorf("must be one of %v", entity.UniversityTypes())
}

func validRanking(value interface{}) error {
	var r entity.Ranking
	switch v := value.(type) {
	case entity.Ranking:
		r = v
	case *entity.Ranking:
		if v == nil {
			return nil
		}
		r = *v
	}
	if r == "" || r.IsValid() {
		return nil
	}
	return fmt.Errorf("must be one of %v", entity.Rankings())
}

func validLanguages(value interface{}) error {
	var langs []entity.Language
	switch v := value.(type) {
	case []entity.Language:
		langs = v
	case *[]entity.Language:
		if v == nil {
			return nil
		}
		langs = *v
	}
	for _, l := range langs {
		if !l.IsValid() {
			return fmt.Errorf("unsupported language %q", l)
		}
	}
	return nil
}

func validFilters(value interface{}) error {
	f, _ := value.(outbound.UniversityFilters)
	if err := validUniversityType(f.Type); err != nil {
		return fmt.Errorf("university_type %v", err)
	}
	if err := validRanking(f.Ranking); err != nil {
		return fmt.Errorf("ranking %v", err)
	}
	return nil
}
