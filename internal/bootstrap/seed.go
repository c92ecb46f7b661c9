package bootstrap

import (
	"errors"

	"anoa.com/socialplatform/internal/entity"
	"anoa.com/socialplatform/pkg/logging"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.Post{},
		&entity.Comment{},
		&entity.PostLike{},
		&entity.CommentLike{},
	)
}

var defaultRoles = []string{entity.RoleUser}

// SeedRoles inserts every default role that is missing. Safe to run on every boot.
func SeedRoles(db *gorm.DB) error {
	log := logging.WithComponent("bootstrap")

	for _, name := range defaultRoles {
		var count int64
		if err := db.Model(&entity.Role{}).
			Where("name = ?", name).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			log.Debug("role already present, skipping", zap.String("role", name))
			continue
		}

		if err := db.Create(&entity.Role{Name: name}).Error; err != nil {
			return err
		}
		log.Info("role seeded", zap.String("role", name))
	}

	return nil
}

const (
	demoUsername = "demo"
	demoEmail    = "demo@example.com"
	demoPassword = "demo12345"
)

// SeedDemoUser creates a local account for development environments.
func SeedDemoUser(db *gorm.DB) error {
	log := logging.WithComponent("bootstrap")

	var userRole entity.Role
	if err := db.Where("name = ?", entity.RoleUser).First(&userRole).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("ROLE_USER missing, run SeedRoles first")
		}
		return err
	}

	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", demoEmail).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Info("demo user already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	bio := "Demo account"
	user := entity.User{
		Username:     demoUsername,
		Email:        demoEmail,
		PasswordHash: string(hashed),
		Bio:          &bio,
		Roles:        []entity.Role{userRole},
	}

	if err := db.Create(&user).Error; err != nil {
		return err
	}

	log.Info("demo user seeded", zap.Uint("user_id", user.ID), zap.String("email", demoEmail))
	return nil
}
