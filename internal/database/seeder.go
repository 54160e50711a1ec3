package database

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/ahmadqo/student-course-roster/internal/model"
)

const (
	DefaultAdminEmail    = "admin@roster.local"
	DefaultAdminPassword = "Admin@123"
)

type Seeder struct {
	db *sqlx.DB
}

func NewSeeder(db *sqlx.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAdminUser membuat user admin default jika belum ada
func (s *Seeder) SeedAdminUser(ctx context.Context) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		s.db.Rebind("SELECT COUNT(*) FROM users WHERE role = ?"), model.RoleAdmin,
	).Scan(&count)
	if err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO users (id, name, email, password, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`),
		uuid.New(),
		"Administrator",
		DefaultAdminEmail,
		string(hashedPassword),
		model.RoleAdmin,
		true,
	)
	if err != nil {
		return err
	}

	log.Println("Default admin user created:")
	log.Printf("   Email   : %s", DefaultAdminEmail)
	log.Printf("   Password: %s", DefaultAdminPassword)
	log.Println("   Segera ganti password setelah login pertama!")

	return nil
}
