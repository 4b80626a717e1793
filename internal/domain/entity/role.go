package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role groups permissions. System roles are seeded and cannot be deleted.
type Role struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	IsSystem    bool          `json:"is_system"`
	Permissions []*Permission `json:"permissions,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Permission is a named capability such as "orders.manage".
type Permission struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Department is a ministry unit with an optional head and a member list.
type Department struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	HeadUserID  *uuid.UUID `json:"head_user_id,omitempty"`
	Members     []*User    `json:"members,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
