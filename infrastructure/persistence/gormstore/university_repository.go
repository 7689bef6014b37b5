package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/apperror"
	"github.com/unifind/unifind/domain/entity"
	"github.com/unifind/unifind/infrastructure/persistence/postgres"
)

type universityRepository struct {
	db *gorm.DB
}

func NewUniversityRepository(db *gorm.DB) outbound.UniversityRepository {
	return &universityRepository{db: db}
}

// AutoMigrate creates or updates the university tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&entity.University{}, &entity.AcademicProgram{})
}

// Create inserts the university and its programs in one transaction.
func (r *universityRepository) Create(ctx context.Context, university *entity.University) error {
	if university.UID == "" {
		university.UID = uuid.NewString()
	}
	for i := range university.AcademicPrograms {
		p := &university.AcademicPrograms[i]
		if p.UID == "" {
			p.UID = uuid.NewString()
		}
		p.UniversityUID = university.UID
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(university).Error
	})
	if err != nil {
		return translate("universities.create", err)
	}
	return nil
}

func (r *universityRepository) FindByID(ctx context.Context, id string) (*entity.University, error) {
	var university entity.University
	err := r.db.WithContext(ctx).
		Preload("AcademicPrograms", "is_active = ?", true).
		Where("uid = ?", id).
		First(&university).Error
	if err != nil {
		return nil, translate("universities.find_by_id", err)
	}
	return &university, nil
}

func (r *universityRepository) FindAll(ctx context.Context, offset, limit int, filters outbound.UniversityFilters) ([]*entity.University, error) {
	q := r.db.WithContext(ctx).Model(&entity.University{}).Where("is_active = ?", true)

	if filters.Country != "" {
		q = q.Where("LOWER(country) LIKE ? ESCAPE '\\'", likePattern(filters.Country))
	}
	if filters.City != "" {
		q = q.Where("LOWER(city) LIKE ? ESCAPE '\\'", likePattern(filters.City))
	}
	if filters.Type != "" {
		q = q.Where("university_type = ?", filters.Type)
	}
	if filters.Ranking != "" {
		q = q.Where("ranking = ?", filters.Ranking)
	}
	if filters.OffersScholarships != nil {
		q = q.Where("offers_scholarships = ?", *filters.OffersScholarships)
	}
	if filters.ProvidesAccommodation != nil {
		q = q.Where("provides_accommodation = ?", *filters.ProvidesAccommodation)
	}
	if filters.Search != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(filters.Search))
	}

	var universities []*entity.University
	if err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&universities).Error; err != nil {
		return nil, translate("universities.find_all", err)
	}
	return universities, nil
}

func (r *universityRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&entity.University{}).Where("uid = ?", id).Updates(fields)
	if res.Error != nil {
		return translate("universities.update", res.Error)
	}
	if res.RowsAffected == 0 {
		return outbound.ErrUniversityNotFound
	}
	return nil
}

func (r *universityRepository) SoftDelete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.University{}).Where("uid = ?", id).
			Updates(map[string]interface{}{"is_active": false})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return outbound.ErrUniversityNotFound
		}
		return tx.Model(&entity.AcademicProgram{}).Where("university_uid = ?", id).
			Updates(map[string]interface{}{"is_active": false}).Error
	})
	if err != nil {
		return translate("universities.soft_delete", err)
	}
	return nil
}

func (r *universityRepository) FindProgramsByUniversity(ctx context.Context, universityID string) ([]*entity.AcademicProgram, error) {
	var programs []*entity.AcademicProgram
	err := r.db.WithContext(ctx).
		Where("university_uid = ? AND is_active = ?", universityID, true).
		Order("name ASC").
		Find(&programs).Error
	if err != nil {
		return nil, translate("programs.find_by_university", err)
	}
	return programs, nil
}

type groupCount struct {
	GroupKey string
	Total    int
}

func (r *universityRepository) Statistics(ctx context.Context) (*outbound.UniversityStatistics, error) {
	db := r.db.WithContext(ctx)
	active := func() *gorm.DB {
		return db.Model(&entity.University{}).Where("is_active = ?", true)
	}

	stats := &outbound.UniversityStatistics{
		ByCountry: map[string]int{},
		ByType:    map[string]int{},
		ByRanking: map[string]int{},
	}

	var total int64
	if err := active().Count(&total).Error; err != nil {
		return nil, translate("universities.statistics", err)
	}
	stats.TotalUniversities = int(total)

	groups := []struct {
		column string
		into   map[string]int
	}{
		{"country", stats.ByCountry},
		{"university_type", stats.ByType},
		{"ranking", stats.ByRanking},
	}
	for _, g := range groups {
		var rows []groupCount
		err := active().
			Select(fmt.Sprintf("%s AS group_key, COUNT(*) AS total", g.column)).
			Group(g.column).
			Scan(&rows).Error
		if err != nil {
			return nil, translate("universities.statistics", err)
		}
		for _, row := range rows {
			g.into[row.GroupKey] = row.Total
		}
	}

	flags := []struct {
		column string
		into   *int
	}{
		{"offers_scholarships", &stats.WithScholarships},
		{"provides_accommodation", &stats.WithAccommodation},
		{"partner_university", &stats.PartnerUniversities},
	}
	for _, f := range flags {
		var n int64
		if err := active().Where(f.column+" = ?", true).Count(&n).Error; err != nil {
			return nil, translate("universities.statistics", err)
		}
		*f.into = int(n)
	}

	return stats, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches s as a literal, case-insensitive substring.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func translate(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, outbound.ErrUniversityNotFound):
		return outbound.ErrUniversityNotFound
	case postgres.IsTransient(err):
		return apperror.StoreUnavailable(op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
