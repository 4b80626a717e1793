package entity

import "github.com/google/uuid"

type Country struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ISO2      string    `json:"iso2"`
	PhoneCode string    `json:"phone_code"`
}

// PaymentMethod is a checkout option; Provider names the gateway that settles it.
type PaymentMethod struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Provider string    `json:"provider"`
	IsActive bool      `json:"is_active"`
}
