// Package storagetest opens throwaway in-memory stores for tests.
package storagetest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"talk2me/backend/internal/config"
	"talk2me/backend/internal/models"
	"talk2me/backend/internal/storage"
)

// NewDB returns a migrated sqlite database private to the calling test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", uuid.NewString())
	db, err := storage.Open(config.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewStorage is NewDB wrapped into a storage.Service.
func NewStorage(t testing.TB) *storage.Service {
	t.Helper()
	return storage.NewStorageService(NewDB(t))
}

// CreateUsers inserts one user per name and returns them in the same order.
func CreateUsers(t testing.TB, db *gorm.DB, names ...string) []models.User {
	t.Helper()

	users := make([]models.User, 0, len(names))
	for _, name := range names {
		u := models.User{Username: name, Email: name + "@example.com"}
		require.NoError(t, db.Create(&u).Error)
		users = append(users, u)
	}
	return users
}
