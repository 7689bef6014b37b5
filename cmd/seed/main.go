package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/entity"
	"github.com/unifind/unifind/infrastructure/persistence/gormstore"
)

func main() {
	force := flag.Bool("force", false, "seed even when active universities already exist")
	migrate := flag.Bool("automigrate", false, "create the university tables with gorm before seeding")
	flag.Parse()

	log := logrus.New()
	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	if *migrate {
		if err := gormstore.AutoMigrate(db); err != nil {
			log.WithError(err).Fatal("automigrate failed")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := seed(ctx, gormstore.NewUniversityRepository(db), *force)
	if err != nil {
		log.WithError(err).Fatal("seed failed")
	}
	log.WithField("created", n).Info("seed completed")
}

// seed inserts the sample catalogue unless active rows exist and force is off.
func seed(ctx context.Context, repo outbound.UniversityRepository, force bool) (int, error) {
	if !force {
		existing, err := repo.FindAll(ctx, 0, 1, outbound.UniversityFilters{})
		if err != nil {
			return 0, err
		}
		if len(existing) > 0 {
			return 0, nil
		}
	}

	created := 0
	for _, u := range sampleUniversities() {
		if err := repo.Create(ctx, u); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func ptr[T any](v T) *T { return &v }

func sampleUniversities() []*entity.University {
	return []*entity.University{
		{
			Name:                   "University of Lagos",
			Website:                ptr("https://unilag.edu.ng"),
			Country:                "Nigeria",
			City:                   "Lagos",
			FoundedYear:            ptr(1962),
			Type:                   entity.UniversityTypePublic,
			Ranking:                entity.RankingA,
			LanguagesOfInstruction: entity.LanguageList{entity.LanguageEnglish},
			OffersScholarships:     true,
			ProvidesAccommodation:  true,
			IsActive:               true,
			AcademicPrograms: []entity.AcademicProgram{
				{Name: "Computer Science", DegreeType: "BSc", Faculty: ptr("Science"), DurationYears: ptr(4.0), IsActive: true},
				{Name: "Law", DegreeType: "LLB", Faculty: ptr("Law"), DurationYears: ptr(5.0), IsActive: true},
			},
		},
		{
			Name:                   "University of Ghana",
			Website:                ptr("https://www.ug.edu.gh"),
			Country:                "Ghana",
			City:                   "Accra",
			FoundedYear:            ptr(1948),
			Type:                   entity.UniversityTypePublic,
			Ranking:                entity.RankingAPlus,
			LanguagesOfInstruction: entity.LanguageList{entity.LanguageEnglish},
			AverageAnnualTuition:   ptr(3500.0),
			OffersScholarships:     true,
			PartnerUniversity:      true,
			IsActive:               true,
			AcademicPrograms: []entity.AcademicProgram{
				{Name: "Medicine and Surgery", DegreeType: "MBChB", DurationYears: ptr(6.0), IsActive: true},
			},
		},
		{
			Name:                   "Cairo University",
			Country:                "Egypt",
			City:                   "Giza",
			FoundedYear:            ptr(1908),
			Type:                   entity.UniversityTypeResearch,
			Ranking:                entity.RankingA,
			LanguagesOfInstruction: entity.LanguageList{entity.LanguageArabic, entity.LanguageEnglish},
			ProvidesAccommodation:  true,
			IsActive:               true,
		},
		{
			Name:                   "Strathmore University",
			Country:                "Kenya",
			City:                   "Nairobi",
			FoundedYear:            ptr(1961),
			Type:                   entity.UniversityTypePrivate,
			Ranking:                entity.RankingBPlus,
			LanguagesOfInstruction: entity.LanguageList{entity.LanguageEnglish, entity.LanguageSwahili},
			AverageAnnualTuition:   ptr(6200.0),
			OffersScholarships:     true,
			IsActive:               true,
		},
		{
			Name:                   "Université Cheikh Anta Diop",
			Country:                "Senegal",
			City:                   "Dakar",
			FoundedYear:            ptr(1957),
			Type:                   entity.UniversityTypePublic,
			Ranking:                entity.RankingB,
			LanguagesOfInstruction: entity.LanguageList{entity.LanguageFrench},
			IsActive:               true,
		},
	}
}
