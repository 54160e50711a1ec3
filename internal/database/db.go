package database

import (
	"fmt"
	"log"
	"time"

	"github.com/ahmadqo/student-course-roster/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver untuk database/sql
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // driver sqlite untuk development dan test
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// Open membuka koneksi sesuai driver di config
func Open(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case DriverPostgres:
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
		)
		db, err := sqlx.Connect(DriverPostgres, dsn)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(2 * time.Minute)
		return db, nil

	case DriverSQLite:
		// foreign key harus diaktifkan per koneksi agar ON DELETE CASCADE jalan
		dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", cfg.Path)
		db, err := sqlx.Connect(DriverSQLite, dsn)
		if err != nil {
			return nil, err
		}
		// sqlite hanya satu writer
		db.SetMaxOpenConns(1)
		return db, nil

	default:
		return nil, fmt.Errorf("driver database tidak dikenal: %s", cfg.Driver)
	}
}

func Connect(cfg *config.DatabaseConfig) *sqlx.DB {
	db, err := Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Printf("Database connected successfully (driver: %s)", cfg.Driver)
	return db
}

// OpenMemory membuka database sqlite in-memory yang sudah dimigrasi.
// Dipakai untuk test dan mode demo.
func OpenMemory() (*sqlx.DB, error) {
	db, err := Open(&config.DatabaseConfig{Driver: DriverSQLite, Path: ":memory:"})
	if err != nil {
		return nil, err
	}
	fsys, err := Migrations(DriverSQLite)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := RunMigrations(db, fsys); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
