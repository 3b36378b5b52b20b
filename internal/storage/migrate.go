package storage

import (
	"embed"

	"github.com/golang-migrate/migrate/v4"
	migratePsql "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func MigrateUp(db *gorm.DB, dbName string) error {
	m, err := prepareMigrations(db, dbName)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "storage : migrate up")
	}
	return nil
}

func MigrateDown(db *gorm.DB, dbName string) error {
	m, err := prepareMigrations(db, dbName)
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "storage : migrate down")
	}
	return nil
}

func prepareMigrations(db *gorm.DB, dbName string) (*migrate.Migrate, error) {
	conn, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "storage : failed to get sql.DB")
	}

	driver, err := migratePsql.WithInstance(conn, &migratePsql.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "storage : failed to create migration driver")
	}

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, errors.Wrap(err, "storage : failed to open embedded migrations")
	}

	m, err := migrate.NewWithInstance("iofs", source, dbName, driver)
	if err != nil {
		return nil, errors.Wrap(err, "storage : failed to create migrations instance")
	}
	return m, nil
}
