package model

import (
	"github.com/google/uuid"
)

// AddressModel is the GORM-specific struct for the 'addresses' table.
type AddressModel struct {
	Base
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_addresses_owner_type"`
	Type          string     `gorm:"type:varchar(16);not null;index:idx_addresses_owner_type"`
	Label         string     `gorm:"type:varchar(100)"`
	RecipientName string     `gorm:"type:varchar(100);not null"`
	Phone         string     `gorm:"type:varchar(32);not null"`
	Line1         string     `gorm:"type:varchar(255);not null"`
	Line2         string     `gorm:"type:varchar(255)"`
	City          string     `gorm:"type:varchar(100);not null"`
	State         string     `gorm:"type:varchar(100)"`
	PostalCode    string     `gorm:"type:varchar(20)"`
	CountryID     *uuid.UUID `gorm:"type:uuid"`
	IsDefault     bool       `gorm:"not null;default:false"`
}

// TableName explicitly sets the table name for GORM.
func (AddressModel) TableName() string {
	return "addresses"
}

// AddressSnapshot is the JSON copy of an address kept on an order.
type AddressSnapshot struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Line1         string `json:"line1"`
	Line2         string `json:"line2,omitempty"`
	City          string `json:"city"`
	State         string `json:"state,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	CountryID     string `json:"country_id,omitempty"`
}
