package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hlzx-oa/project-registry/config"
	"github.com/hlzx-oa/project-registry/internal/auth/domain"
	"github.com/hlzx-oa/project-registry/internal/auth/repository"
	"github.com/hlzx-oa/project-registry/internal/storage/postgres"
)

// provision applies the database schema and seeds the admin account.
// Safe to re-run: DDL is IF NOT EXISTS and an existing admin is left
// untouched.
func main() {
	adminPassword := flag.String("admin-password", "admin123", "initial password for the admin account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, postgres.Schema); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}
	log.Println("schema applied")

	users := repository.NewUserRepository(db)
	if _, err := users.GetByUsername(ctx, domain.AdminUsername); err == nil {
		log.Println("admin account already exists, leaving it as is")
		return
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		log.Fatalf("failed to look up admin account: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	id, err := users.Create(ctx, &domain.User{
		Username:   domain.AdminUsername,
		Password:   string(hash),
		RealName:   "系统管理员",
		Department: "质控部",
	})
	if err != nil {
		log.Fatalf("failed to seed admin account: %v", err)
	}
	log.Printf("admin account seeded (id=%d); change the password after first login", id)
}
