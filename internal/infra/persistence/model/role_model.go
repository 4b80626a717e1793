package model

import "github.com/google/uuid"

type RoleModel struct {
	Base
	Name        string            `gorm:"type:varchar(100);uniqueIndex;not null"`
	Slug        string            `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string            `gorm:"type:text"`
	IsSystem    bool              `gorm:"not null;default:false"`
	Permissions []PermissionModel `gorm:"many2many:role_permissions;joinForeignKey:RoleID;joinReferences:PermissionID"`
}

// TableName explicitly sets the table name for GORM.
func (RoleModel) TableName() string {
	return "roles"
}

type PermissionModel struct {
	Base
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string `gorm:"type:text"`
}

// TableName explicitly sets the table name for GORM.
func (PermissionModel) TableName() string {
	return "permissions"
}

type RolePermissionModel struct {
	RoleID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	PermissionID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName explicitly sets the table name for GORM.
func (RolePermissionModel) TableName() string {
	return "role_permissions"
}

type DepartmentModel struct {
	Base
	Name        string      `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string      `gorm:"type:text"`
	HeadUserID  *uuid.UUID  `gorm:"type:uuid"`
	Members     []UserModel `gorm:"many2many:department_members;joinForeignKey:DepartmentID;joinReferences:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (DepartmentModel) TableName() string {
	return "departments"
}

type DepartmentMemberModel struct {
	DepartmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName explicitly sets the table name for GORM.
func (DepartmentMemberModel) TableName() string {
	return "department_members"
}
