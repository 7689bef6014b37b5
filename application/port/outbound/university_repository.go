package outbound

import (
	"context"
	"errors"

	"github.com/unifind/unifind/domain/entity"
)

var ErrUniversityNotFound = errors.New("university not found")

type UniversityFilters struct {
	Country               string
	City                  string
	Type                  entity.UniversityType
	Ranking               entity.Ranking
	OffersScholarships    *bool
	ProvidesAccommodation *bool
	Search                string
}

type UniversityStatistics struct {
	TotalUniversities   int            `json:"total_universities"`
	ByCountry           map[string]int `json:"by_country"`
	ByType              map[string]int `json:"by_type"`
	ByRanking           map[string]int `json:"by_ranking"`
	WithScholarships    int            `json:"with_scholarships"`
	WithAccommodation   int            `json:"with_accommodation"`
	PartnerUniversities int            `json:"partner_universities"`
}

type UniversityRepository interface {
	Create(ctx context.Context, university *entity.University) error
	FindByID(ctx context.Context, id string) (*entity.University, error)
	FindAll(ctx context.Context, offset, limit int, filters UniversityFilters) ([]*entity.University, error)
	// Update applies the given column values to the university.
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	// SoftDelete marks the university and all of its programs inactive.
	SoftDelete(ctx context.Context, id string) error
	FindProgramsByUniversity(ctx context.Context, universityID string) ([]*entity.AcademicProgram, error)
	Statistics(ctx context.Context) (*UniversityStatistics, error)
}
