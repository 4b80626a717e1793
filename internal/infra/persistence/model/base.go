// Package model holds the GORM structs that map 1:1 to database tables.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the primary key and timestamps shared by most tables.
// IDs are UUID v7 generated in Go so inserts work the same on every driver.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns a time-ordered ID when none is set.
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID != uuid.Nil {
		return nil
	}

	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	b.ID = id

	return nil
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&CountryModel{},
		&PaymentMethodModel{},
		&PermissionModel{},
		&RoleModel{},
		&UserModel{},
		&UserProfileModel{},
		&RefreshTokenModel{},
		&DepartmentModel{},
		&AddressModel{},
		&UserDeviceModel{},
		&ProductCategoryModel{},
		&ProductAttributeModel{},
		&ProductAttributeValueModel{},
		&ProductModel{},
		&ProductVariantModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&TransactionModel{},
		&ShipmentModel{},
		&OrderStatusHistoryModel{},
		&RefundModel{},
		&RefundItemModel{},
		&DonationCategoryModel{},
		&DonationCampaignModel{},
		&DonationModel{},
		&EventModel{},
		&TicketTypeModel{},
		&TicketOrderModel{},
		&NewsModel{},
		&BlogModel{},
		&MusicModel{},
		&HomeSliderModel{},
		&AboutUsModel{},
		&ContactMessageModel{},
		&UserMessageModel{},
	}
}

// JoinTables lists the custom many-to-many join tables as (owner model, field, join model).
func JoinTables() []JoinTable {
	return []JoinTable{
		{Model: &UserModel{}, Field: "Roles", Join: &UserRoleModel{}},
		{Model: &RoleModel{}, Field: "Permissions", Join: &RolePermissionModel{}},
		{Model: &DepartmentModel{}, Field: "Members", Join: &DepartmentMemberModel{}},
	}
}

// JoinTable describes a custom join table registered with SetupJoinTable.
type JoinTable struct {
	Model any
	Field string
	Join  any
}
