package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type UniversityType string

const (
	UniversityTypePrivate      UniversityType = "private"
	UniversityTypePublic       UniversityType = "public"
	UniversityTypeResearch     UniversityType = "research"
	UniversityTypeTechnical    UniversityType = "technical"
	UniversityTypeMedical      UniversityType = "medical"
	UniversityTypeAgricultural UniversityType = "agricultural"
)

// UniversityTypes lists every UniversityType in declaration order.
func UniversityTypes() []UniversityType {
	return []UniversityType{
		UniversityTypePrivate,
		UniversityTypePublic,
		UniversityTypeResearch,
		UniversityTypeTechnical,
		UniversityTypeMedical,
		UniversityTypeAgricultural,
	}
}

func (t UniversityType) IsValid() bool {
	for _, v := range UniversityTypes() {
		if v == t {
			return true
		}
	}
	return false
}

type Ranking string

const (
	RankingAPlus     Ranking = "A+"
	RankingA         Ranking = "A"
	RankingBPlus     Ranking = "B+"
	RankingB         Ranking = "B"
	RankingCPlus     Ranking = "C+"
	RankingC         Ranking = "C"
	RankingNotRanked Ranking = "NOT_RANKED"
)

func Rankings() []Ranking {
	return []Ranking{RankingAPlus, RankingA, RankingBPlus, RankingB, RankingCPlus, RankingC, RankingNotRanked}
}

func (r Ranking) IsValid() bool {
	for _, v := range Rankings() {
		if v == r {
			return true
		}
	}
	return false
}

type Language string

const (
	LanguageEnglish    Language = "English"
	LanguageFrench     Language = "French"
	LanguageArabic     Language = "Arabic"
	LanguagePortuguese Language = "Portuguese"
	LanguageSwahili    Language = "Swahili"
	LanguageAfrikaans  Language = "Afrikaans"
)

func Languages() []Language {
	return []Language{LanguageEnglish, LanguageFrench, LanguageArabic, LanguagePortuguese, LanguageSwahili, LanguageAfrikaans}
}

func (l Language) IsValid() bool {
	for _, v := range Languages() {
		if v == l {
			return true
		}
	}
	return false
}

// LanguageList is stored as a JSON array column.
type LanguageList []Language

func (l LanguageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *LanguageList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = LanguageList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported languages column type %T", src)
	}
	if len(raw) == 0 {
		*l = LanguageList{}
		return nil
	}
	return json.Unmarshal(raw, l)
}

type University struct {
	UID         string         `json:"uid" gorm:"column:uid;type:uuid;primaryKey"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	Website     *string        `json:"website,omitempty" gorm:"size:255"`
	Country     string         `json:"country" gorm:"size:100;not null;index"`
	City        string         `json:"city" gorm:"size:100;not null"`
	FoundedYear *int           `json:"founded_year,omitempty"`
	Type        UniversityType `json:"university_type" gorm:"column:university_type;size:32;not null"`
	Ranking     Ranking        `json:"ranking" gorm:"size:16;not null;default:NOT_RANKED"`
	Description *string        `json:"description,omitempty"`

	NigerianStudents     *int     `json:"nigerian_students,omitempty"`
	AcceptanceRate       *float64 `json:"acceptance_rate,omitempty"`
	AverageAnnualTuition *float64 `json:"average_annual_tuition,omitempty"`

	ContactEmail *string `json:"contact_email,omitempty" gorm:"size:255"`
	ContactPhone *string `json:"contact_phone,omitempty" gorm:"size:20"`

	LanguagesOfInstruction LanguageList `json:"languages_of_instruction" gorm:"column:languages_of_instruction;type:json"`

	OffersScholarships    bool `json:"offers_scholarships" gorm:"not null;default:false"`
	ProvidesAccommodation bool `json:"provides_accommodation" gorm:"not null;default:false"`
	PartnerUniversity     bool `json:"partner_university" gorm:"not null;default:false"`

	IsActive  bool      `json:"is_active" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AcademicPrograms []AcademicProgram `json:"academic_programs" gorm:"foreignKey:UniversityUID;references:UID"`
}

func (University) TableName() string {
	return "universities"
}

type AcademicProgram struct {
	UID               string   `json:"uid" gorm:"column:uid;type:uuid;primaryKey"`
	Name              string   `json:"name" gorm:"size:255;not null"`
	DegreeType        string   `json:"degree_type" gorm:"size:100;not null"`
	Faculty           *string  `json:"faculty,omitempty" gorm:"size:255"`
	Department        *string  `json:"department,omitempty" gorm:"size:255"`
	DurationYears     *float64 `json:"duration_years,omitempty"`
	Description       *string  `json:"description,omitempty"`
	EntryRequirements *string  `json:"entry_requirements,omitempty"`
	TuitionFee        *float64 `json:"tuition_fee,omitempty"`

	UniversityUID string `json:"university_uid" gorm:"column:university_uid;type:uuid;not null;index"`

	IsActive  bool      `json:"is_active" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AcademicProgram) TableName() string {
	return "academic_programs"
}
