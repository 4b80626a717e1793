// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// UserStatus tracks account verification and suspension.
type UserStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// User is an account: a member, a staff user or an administrator.
type User struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	PhoneNumber  string         `json:"phone_number"`
	PasswordHash string         `json:"-"`
	CountryID    *uuid.UUID     `json:"country_id,omitempty"`
	Country      *Country       `json:"country,omitempty"`
	Status       UserStatus     `json:"status"`
	OTPHash      string         `json:"-"`
	OTPExpiresAt *time.Time     `json:"-"`
	VerifiedAt   *time.Time     `json:"verified_at,omitempty"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	Roles        []*Role        `json:"roles,omitempty"`
	Departments  []*Department  `json:"departments,omitempty"`
	Profile      *UserProfile   `json:"profile,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// UserProfile holds optional personal details, one per user.
type UserProfile struct {
	UserID            uuid.UUID  `json:"user_id"`
	Bio               string     `json:"bio"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty"`
	Gender            string     `json:"gender"`
	City              string     `json:"city"`
	ProfilePicture    string     `json:"profile_picture"`
	ProfilePictureURL string     `json:"profile_picture_url,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// RoleNames returns the slugs of every role assigned to the user.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Slug)
	}

	return names
}

// PermissionNames returns the de-duplicated, sorted union of the user's role permissions.
func (u *User) PermissionNames() []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, role := range u.Roles {
		for _, perm := range role.Permissions {
			if _, ok := seen[perm.Name]; ok {
				continue
			}
			seen[perm.Name] = struct{}{}
			names = append(names, perm.Name)
		}
	}
	slices.Sort(names)

	return names
}

// HasRole reports whether the user holds the role with the given slug.
func (u *User) HasRole(slug string) bool {
	return slices.Contains(u.RoleNames(), slug)
}

// IsActive reports whether the user may log in.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
