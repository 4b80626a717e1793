package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table.
type UserModel struct {
	Base
	Name         string     `gorm:"type:varchar(100);not null"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	PhoneNumber  *string    `gorm:"type:varchar(32);uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	CountryID    *uuid.UUID `gorm:"type:uuid;index"`
	Status       string     `gorm:"type:varchar(16);not null;default:pending;index"`
	OTPHash      string     `gorm:"column:otp_hash;type:varchar(64)"`
	OTPExpiresAt *time.Time `gorm:"column:otp_expires_at"`
	VerifiedAt   *time.Time
	LastLoginAt  *time.Time

	Country     *CountryModel     `gorm:"foreignKey:CountryID"`
	Profile     *UserProfileModel `gorm:"foreignKey:UserID"`
	Roles       []RoleModel       `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
	Departments []DepartmentModel `gorm:"many2many:department_members;joinForeignKey:UserID;joinReferences:DepartmentID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// UserProfileModel mirrors the 'user_profiles' table. UserID references users.id (UUID).
type UserProfileModel struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Bio            string    `gorm:"type:text"`
	DateOfBirth    *time.Time
	Gender         string `gorm:"type:varchar(16)"`
	City           string `gorm:"type:varchar(100)"`
	ProfilePicture string `gorm:"type:varchar(255)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserProfileModel) TableName() string {
	return "user_profiles"
}

// UserRoleModel is the users/roles join table.
type UserRoleModel struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName explicitly sets the table name for GORM.
func (UserRoleModel) TableName() string {
	return "user_roles"
}

// RefreshTokenModel stores the SHA-256 of an issued refresh token.
type RefreshTokenModel struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
