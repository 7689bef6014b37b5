package main

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/infrastructure/persistence/gormstore"
)

func TestSeed(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gormstore.AutoMigrate(db))

	repo := gormstore.NewUniversityRepository(db)
	ctx := context.Background()

	n, err := seed(ctx, repo, false)
	require.NoError(t, err)
	assert.Equal(t, len(sampleUniversities()), n)

	n, err = seed(ctx, repo, false)
	require.NoError(t, err)
	assert.Zero(t, n, "second run is a no-op")

	all, err := repo.FindAll(ctx, 0, 100, outbound.UniversityFilters{})
	require.NoError(t, err)
	assert.Len(t, all, len(sampleUniversities()))
	for _, u := range all {
		assert.True(t, u.Type.IsValid(), u.Name)
		assert.True(t, u.Ranking.IsValid(), u.Name)
	}
}
