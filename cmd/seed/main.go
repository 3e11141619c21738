package main

import (
	"errors"
	"flag"
	"fmt"

	"donorseeker/pkg/config"
	"donorseeker/pkg/database"
	"donorseeker/pkg/jwt"
	"donorseeker/pkg/logger"
	"donorseeker/pkg/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	email    string
	username string
	phone    string
	role     models.UserRole
}

var demoUsers = []seedUser{
	{"dana@test.com", "dana_donor", "+15550001", models.RoleMember},
	{"sam@test.com", "sam_seeker", "+15550002", models.RoleMember},
	{"riley@test.com", "riley_seeker", "", models.RoleMember},
	{"alex@test.com", "alex_seeker", "+15550004", models.RoleMember},
	{"mod@test.com", "mo_moderator", "", models.RoleModerator},
}

func main() {
	var password string
	var printTokens bool
	flag.StringVar(&password, "password", "password123", "Password for every demo user")
	flag.BoolVar(&printTokens, "tokens", true, "Print a bearer token per user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	users, err := seedUsers(db, password, log)
	if err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	if printTokens {
		jwtService := jwt.NewService(cfg.JWTSecret)
		for _, u := range users {
			token, err := jwtService.GenerateToken(u.ID, string(u.Role))
			if err != nil {
				log.Error("Failed to issue token for %s: %v", u.Username, err)
				continue
			}
			fmt.Printf("%-14s %-10s %s\n", u.Username, u.Role, token)
		}
	}

	log.Info("Database seeded successfully!")
}

// seedUsers creates the demo users that are missing and returns all of them.
func seedUsers(db *gorm.DB, password string, log *logger.Logger) ([]models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	users := make([]models.User, 0, len(demoUsers))
	for _, d := range demoUsers {
		var existing models.User
		err := db.Where("email = ? OR username = ?", d.email, d.username).First(&existing).Error
		if err == nil {
			log.Info("User %s already exists, skipping", d.username)
			users = append(users, existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up %s: %w", d.username, err)
		}

		user := models.User{
			Email:        d.email,
			Username:     d.username,
			Phone:        d.phone,
			PasswordHash: string(hashedPassword),
			Role:         d.role,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", d.username, err)
		}

		log.Info("Created user: %s (%s, %s)", user.Username, user.Email, user.Role)
		users = append(users, user)
	}
	return users, nil
}
