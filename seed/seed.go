// seed/seed.go
package seed

import (
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/correoplaguna-boop/Cause4ALL-MVP/models"
)

// SeedAdmin creates the admin user from ADMIN_EMAIL/ADMIN_PASSWORD if it
// does not exist yet.
func SeedAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seeding.")
		return nil
	}

	var existing models.AdminUser
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Create(&models.AdminUser{Email: email, PasswordHash: string(hash)}).Error
}

// SeedDemoCampaign inserts a demo organization and campaign on an empty
// database so the listing page has something to show.
func SeedDemoCampaign(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Campaign{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Campaigns already exist. Skipping seeding.")
		return nil
	}

	org := models.Organization{
		Name:  "AMPA San Isidro",
		Type:  models.OrgTypeAMPA,
		Email: "ampa@example.org",
	}
	if err := db.Create(&org).Error; err != nil {
		return err
	}

	drawDate := time.Now().AddDate(0, 2, 0)
	campaign := models.Campaign{
		OrganizationID: org.ID,
		Slug:           "new-playground-equipment",
		Title:          "New Playground Equipment",
		Description:    "Help us renew the school playground. Every solidarity pack enters you into the prize draw!",
		CauseType:      models.CauseTypeSchool,
		GoalAmount:     500000,
		ProductPrice:   250,
		DonationAmount: 500,
		PrizeTitle:     "Weekend family getaway",
		PrizeType:      "experiencia",
		DrawDate:       &drawDate,
		StartDate:      time.Now(),
		Status:         models.CampaignStatusActive,
	}

	if err := db.Create(&campaign).Error; err != nil {
		return err
	}

	log.Println("Seeded demo campaign:", campaign.Slug)
	return nil
}
