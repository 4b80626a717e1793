package model

type CountryModel struct {
	Base
	Name      string `gorm:"type:varchar(100);not null"`
	ISO2      string `gorm:"column:iso2;type:char(2);uniqueIndex;not null"`
	PhoneCode string `gorm:"type:varchar(8)"`
}

// TableName explicitly sets the table name for GORM.
func (CountryModel) TableName() string {
	return "countries"
}

type PaymentMethodModel struct {
	Base
	Code     string `gorm:"type:varchar(32);uniqueIndex;not null"`
	Name     string `gorm:"type:varchar(100);not null"`
	Provider string `gorm:"type:varchar(32);not null"`
	IsActive bool   `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}
