// Package store is the persistence layer: organizations, campaigns,
// donations and the webhook audit log, backed by GORM.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/correoplaguna-boop/Cause4ALL-MVP/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrSlugTaken = errors.New("campaign slug already in use")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateOrganization(org *models.Organization) error {
	return s.db.Create(org).Error
}

// FindOrCreateOrganization looks an organization up by name, creating it
// when absent. Used when an admin creates a campaign with an inline
// organization instead of an existing id.
func (s *Store) FindOrCreateOrganization(org *models.Organization) error {
	err := s.db.Where("name = ?", org.Name).First(org).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.db.Create(org).Error
}

func (s *Store) GetOrganization(id string) (*models.Organization, error) {
	var org models.Organization
	if err := s.db.First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// CreateCampaign persists a campaign, deriving the slug from the title
// when none is given. Slug collisions are surfaced as ErrSlugTaken rather
// than silently disambiguated: the admin should decide which URL goes
// live. The unique index on slug backstops the pre-check under races.
func (s *Store) CreateCampaign(campaign *models.Campaign) error {
	if campaign.Slug == "" {
		campaign.Slug = slug.Make(campaign.Title)
	} else {
		campaign.Slug = slug.Make(campaign.Slug)
	}
	taken, err := s.slugTaken(campaign.Slug, "")
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: %s", ErrSlugTaken, campaign.Slug)
	}
	return translateSlugConflict(s.db.Create(campaign).Error, campaign.Slug)
}

// SaveCampaign writes back an edited campaign, re-checking slug
// uniqueness against all other campaigns.
func (s *Store) SaveCampaign(campaign *models.Campaign) error {
	campaign.Slug = slug.Make(campaign.Slug)
	taken, err := s.slugTaken(campaign.Slug, campaign.ID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: %s", ErrSlugTaken, campaign.Slug)
	}
	return translateSlugConflict(s.db.Save(campaign).Error, campaign.Slug)
}

// translateSlugConflict maps a unique-index violation on the campaign slug
// to ErrSlugTaken, so a create racing past the pre-check still comes back
// as a conflict instead of a raw driver error.
func translateSlugConflict(err error, slugValue string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %s", ErrSlugTaken, slugValue)
	}
	return err
}

func (s *Store) slugTaken(slugValue, excludeID string) (bool, error) {
	var count int64
	q := s.db.Model(&models.Campaign{}).Where("slug = ?", slugValue)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) GetCampaign(id string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := s.db.Preload("Organization").First(&campaign, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

// GetActiveCampaignBySlug fetches one active campaign for the public
// landing page. Draft, ended and cancelled campaigns are not visible.
func (s *Store) GetActiveCampaignBySlug(slugValue string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := s.db.Preload("Organization").
		Where("slug = ? AND status = ?", slugValue, models.CampaignStatusActive).
		First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

func (s *Store) ListActiveCampaigns() ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := s.db.Preload("Organization").
		Where("status = ?", models.CampaignStatusActive).
		Order("created_at DESC").
		Find(&campaigns).Error
	return campaigns, err
}

// ListCampaigns returns every campaign regardless of status, for the
// admin panel.
func (s *Store) ListCampaigns() ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := s.db.Preload("Organization").Order("created_at DESC").Find(&campaigns).Error
	return campaigns, err
}

func (s *Store) GetAdminByEmail(email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.db.Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (s *Store) GetAdmin(id uint) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.db.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}
