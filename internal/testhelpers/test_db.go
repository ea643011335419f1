package testhelpers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Ainterview-4/Big-Leap/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	openSQLite = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Silent),
		})
	}
	migrateSchema = func(db *gorm.DB) error { return db.AutoMigrate(models.All()...) }
	dropTableFn   = func(db *gorm.DB, table interface{}) error { return db.Migrator().DropTable(table) }
)

// SetupTestDB creates an isolated in-memory SQLite database for tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := openSQLite(dsn)
	if err != nil {
		panic(fmt.Sprintf("failed to open test database: %v", err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(fmt.Sprintf("failed to access test database: %v", err))
	}
	// a single connection keeps the shared in-memory database alive and
	// serializes transactions the way a row lock would
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := migrateSchema(db); err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}
	return db
}

// DropTable removes the table backing model to force repository errors.
func DropTable(t *testing.T, db *gorm.DB, model interface{}) {
	t.Helper()
	if err := dropTableFn(db, model); err != nil {
		panic(fmt.Sprintf("failed to drop table: %v", err))
	}
}
