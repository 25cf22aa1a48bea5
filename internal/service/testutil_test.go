package service

import (
	"testing"

	"github.com/nchhillar2004/chainex/internal/database"
	"github.com/nchhillar2004/chainex/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database. The pool is capped at a single
// connection so concurrent transactions queue on the pool instead of hitting
// sqlite write-lock errors; persistence semantics are unchanged.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		PasswordHash: "x",
		Role:         "USER",
		Level:        1,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}
