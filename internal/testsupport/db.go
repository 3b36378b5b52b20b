package testsupport

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"arcqueue/internal/models"
	"arcqueue/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MustOpenDB opens a migrated SQLite database in a temp dir and registers
// cleanup. The pool holds a single connection, so transactions from
// concurrent goroutines queue up instead of failing with SQLITE_BUSY.
func MustOpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "arcqueue.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Discard,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	if err := storage.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

// NewLogger returns a logger that discards its output.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// SeedCabinet creates an arcade, a game and a cabinet, returning the cabinet.
func SeedCabinet(t testing.TB, db *gorm.DB, gameName string) models.Cabinet {
	t.Helper()

	arcade := models.Arcade{ID: uuid.New(), Name: "Round1 " + gameName, IsPublic: true, CreateDate: time.Now().UTC()}
	if err := db.Create(&arcade).Error; err != nil {
		t.Fatalf("create arcade: %v", err)
	}
	game := models.Game{Name: gameName}
	if err := db.Where(models.Game{Name: gameName}).FirstOrCreate(&game).Error; err != nil {
		t.Fatalf("create game: %v", err)
	}
	cabinet := models.Cabinet{
		ID:          uuid.New(),
		GameName:    gameName,
		Name:        gameName + " #1",
		AssocArcade: arcade.ID,
	}
	if err := db.Create(&cabinet).Error; err != nil {
		t.Fatalf("create cabinet: %v", err)
	}
	return cabinet
}
