package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/coursedesk/enrollment-api/internal/config"
	"github.com/coursedesk/enrollment-api/internal/database"
	"github.com/coursedesk/enrollment-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewDatabase_SQLiteMigrateAndSeed(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.sqlite3"),
	}

	db, err := database.NewDatabase(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	ctx := context.Background()
	n, err := database.SeedCourses(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// Seeding is a no-op once courses exist
	n, err = database.SeedCourses(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	var codes []string
	require.NoError(t, db.Model(&domain.Course{}).Order("course_id").Pluck("course_code", &codes).Error)
	assert.Equal(t, []string{"CSE01", "CSE02", "CSE03", "BST13"}, codes)

	stats, err := database.HealthCheckWithStats(db)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestDialector_UnsupportedDriver(t *testing.T) {
	_, err := database.Dialector(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestHealthCheck_NilDB(t *testing.T) {
	assert.Error(t, database.HealthCheck(nil))
}
