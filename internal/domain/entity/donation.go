package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DonationCategory struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CampaignStatus string

const (
	CampaignStatusActive CampaignStatus = "active"
	CampaignStatusClosed CampaignStatus = "closed"
)

// DonationCampaign collects donations toward a goal. TotalCollected is maintained by donation writes only.
type DonationCampaign struct {
	ID              uuid.UUID       `json:"id"`
	CategoryID      *uuid.UUID      `json:"category_id,omitempty"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Description     string          `json:"description"`
	GoalAmount      decimal.Decimal `json:"goal_amount"`
	TotalCollected  decimal.Decimal `json:"total_collected"`
	ProgressPercent float64         `json:"progress_percent"`
	StartsAt        *time.Time      `json:"starts_at,omitempty"`
	EndsAt          *time.Time      `json:"ends_at,omitempty"`
	Status          CampaignStatus  `json:"status"`
	Image           string          `json:"image"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Progress returns TotalCollected as a percentage of GoalAmount, rounded to two places.
func (c *DonationCampaign) Progress() float64 {
	if !c.GoalAmount.IsPositive() {
		return 0
	}

	pct, _ := c.TotalCollected.Div(c.GoalAmount).Mul(decimal.NewFromInt(100)).Round(2).Float64()

	return pct
}

// AcceptsDonations reports whether the campaign is active and inside its date window at now.
func (c *DonationCampaign) AcceptsDonations(now time.Time) bool {
	if c.Status != CampaignStatusActive {
		return false
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return false
	}
	if c.EndsAt != nil && now.After(*c.EndsAt) {
		return false
	}

	return true
}

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusFailed    DonationStatus = "failed"
	DonationStatusRefunded  DonationStatus = "refunded"
)

// IsValid reports whether s is a known donation status.
func (s DonationStatus) IsValid() bool {
	switch s {
	case DonationStatusPending, DonationStatusCompleted, DonationStatusFailed, DonationStatusRefunded:
		return true
	}

	return false
}

type Donation struct {
	ID            uuid.UUID         `json:"id"`
	UserID        *uuid.UUID        `json:"user_id,omitempty"`
	CampaignID    *uuid.UUID        `json:"campaign_id,omitempty"`
	CategoryID    *uuid.UUID        `json:"category_id,omitempty"`
	Campaign      *DonationCampaign `json:"campaign,omitempty"`
	Reference     string            `json:"reference"`
	DonorName     string            `json:"donor_name"`
	DonorEmail    string            `json:"donor_email"`
	Amount        decimal.Decimal   `json:"amount"`
	Currency      string            `json:"currency"`
	PaymentMethod string            `json:"payment_method"`
	Message       string            `json:"message"`
	IsAnonymous   bool              `json:"is_anonymous"`
	Status        DonationStatus    `json:"status"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
