package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DonationCategoryModel struct {
	Base
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(120);uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	IsActive    bool   `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (DonationCategoryModel) TableName() string {
	return "donation_categories"
}

type DonationCampaignModel struct {
	Base
	CategoryID     *uuid.UUID      `gorm:"type:uuid;index"`
	Title          string          `gorm:"type:varchar(200);not null"`
	Slug           string          `gorm:"type:varchar(220);uniqueIndex;not null"`
	Description    string          `gorm:"type:text"`
	GoalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalCollected decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	StartsAt       *time.Time
	EndsAt         *time.Time
	Status         string `gorm:"type:varchar(16);not null;index"`
	Image          string `gorm:"type:varchar(255)"`
}

// TableName explicitly sets the table name for GORM.
func (DonationCampaignModel) TableName() string {
	return "donation_campaigns"
}

type DonationModel struct {
	Base
	UserID        *uuid.UUID      `gorm:"type:uuid;index"`
	CampaignID    *uuid.UUID      `gorm:"type:uuid;index"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid"`
	Reference     string          `gorm:"type:varchar(40);uniqueIndex;not null"`
	DonorName     string          `gorm:"type:varchar(100);not null"`
	DonorEmail    string          `gorm:"type:varchar(255);not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency      string          `gorm:"type:char(3);not null"`
	PaymentMethod string          `gorm:"type:varchar(32);not null"`
	Message       string          `gorm:"type:text"`
	IsAnonymous   bool            `gorm:"not null;default:false"`
	Status        string          `gorm:"type:varchar(16);not null;index"`
	CompletedAt   *time.Time

	Campaign *DonationCampaignModel `gorm:"foreignKey:CampaignID"`
}

// TableName explicitly sets the table name for GORM.
func (DonationModel) TableName() string {
	return "donations"
}
