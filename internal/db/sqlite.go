package db

import (
	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/axellelanca/linkshortener/internal/models"
)

// OpenSQLite opens the embedded store. The pool is capped at one connection:
// SQLite has a single writer and an in-memory database lives and dies with
// its connection.
func OpenSQLite(name string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite failed")
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get underlying sql db failed")
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return gdb, nil
}

// Migrate creates or updates the link tables.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&models.Link{}, &models.URLIndex{}, &models.Counter{}); err != nil {
		return errors.Wrap(err, "migrate failed")
	}
	return nil
}

// CloseSQLite releases the underlying connection pool.
func CloseSQLite(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return errors.Wrap(err, "get underlying sql db failed")
	}
	return sqlDB.Close()
}
