package migrations

import (
	"gorm.io/gorm"

	"github.com/correoplaguna-boop/Cause4ALL-MVP/models"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Organization{},
		&models.Campaign{},
		&models.Donation{},
		&models.WebhookEvent{},
		&models.AdminUser{},
	)
}
