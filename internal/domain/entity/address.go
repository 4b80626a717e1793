package entity

import (
	"time"

	"github.com/google/uuid"
)

// AddressType separates shipping and billing addresses; each type has its own default.
type AddressType string

const (
	AddressTypeShipping AddressType = "shipping"
	AddressTypeBilling  AddressType = "billing"
)

// Address is a postal address owned by a user.
type Address struct {
	ID            uuid.UUID   `json:"id"`
	UserID        uuid.UUID   `json:"user_id"`
	Type          AddressType `json:"type"`
	Label         string      `json:"label"`
	RecipientName string      `json:"recipient_name"`
	Phone         string      `json:"phone"`
	Line1         string      `json:"line1"`
	Line2         string      `json:"line2"`
	City          string      `json:"city"`
	State         string      `json:"state"`
	PostalCode    string      `json:"postal_code"`
	CountryID     *uuid.UUID  `json:"country_id,omitempty"`
	IsDefault     bool        `json:"is_default"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Snapshot copies the postal fields for embedding in an order.
func (a *Address) Snapshot() *AddressSnapshot {
	if a == nil {
		return nil
	}

	snap := &AddressSnapshot{
		RecipientName: a.RecipientName,
		Phone:         a.Phone,
		Line1:         a.Line1,
		Line2:         a.Line2,
		City:          a.City,
		State:         a.State,
		PostalCode:    a.PostalCode,
	}
	if a.CountryID != nil {
		snap.CountryID = a.CountryID.String()
	}

	return snap
}

// AddressSnapshot is the immutable copy of an address stored on an order.
type AddressSnapshot struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Line1         string `json:"line1"`
	Line2         string `json:"line2,omitempty"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	CountryID     string `json:"country_id,omitempty"`
}
