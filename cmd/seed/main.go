package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"moviereview/internal/config"
	"moviereview/internal/db"
	"moviereview/internal/model"
	"moviereview/internal/repository"
	"moviereview/internal/seed"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Movie{}, &model.Review{}, &model.ReviewAuditLog{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	movieRepo := repository.NewMovieRepository(gormDB)

	if err := seedAdmin(ctx, userRepo); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	created, skipped, err := seedCatalog(ctx, gormDB, movieRepo)
	if err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New movies created: %d", created)
	log.Printf("  - Existing movies skipped: %d", skipped)
}

// seedAdmin ensures an ADMIN account exists. The password comes from
// ADMIN_PASSWORD, defaulting to a development-only value.
func seedAdmin(ctx context.Context, repo repository.UserRepository) error {
	const adminUsername = "admin"

	if _, err := repo.FindByUsername(ctx, adminUsername); err == nil {
		log.Println("Admin user already exists, skipping")
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check admin user: %w", err)
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin-change-me"
		log.Println("ADMIN_PASSWORD not set, using development default")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &model.User{
		Username:     adminUsername,
		Email:        "admin@moviereview.local",
		PasswordHash: string(hashed),
		Role:         model.RoleAdmin,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Println("Admin user created")
	return nil
}

// seedCatalog inserts the sample movies, skipping titles already present.
func seedCatalog(ctx context.Context, gormDB *gorm.DB, repo repository.MovieRepository) (created int, skipped int, err error) {
	for _, movie := range seed.Movies() {
		var count int64
		if err := gormDB.WithContext(ctx).Model(&model.Movie{}).
			Where("title = ?", movie.Title).Count(&count).Error; err != nil {
			return created, skipped, fmt.Errorf("check movie %q: %w", movie.Title, err)
		}
		if count > 0 {
			skipped++
			continue
		}

		m := movie
		if err := repo.Create(ctx, &m); err != nil {
			return created, skipped, fmt.Errorf("create movie %q: %w", movie.Title, err)
		}
		created++
	}
	return created, skipped, nil
}
