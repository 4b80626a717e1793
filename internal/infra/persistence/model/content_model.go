package model

import (
	"time"

	"github.com/google/uuid"
)

type NewsModel struct {
	Base
	Title       string     `gorm:"type:varchar(200);not null"`
	Slug        string     `gorm:"type:varchar(220);uniqueIndex;not null"`
	Excerpt     string     `gorm:"type:text"`
	Body        string     `gorm:"type:text;not null"`
	Image       string     `gorm:"type:varchar(255)"`
	AuthorID    *uuid.UUID `gorm:"type:uuid"`
	IsPublished bool       `gorm:"not null;default:false;index"`
	PublishedAt *time.Time
}

// TableName explicitly sets the table name for GORM.
func (NewsModel) TableName() string {
	return "news"
}

type BlogModel struct {
	Base
	Title       string     `gorm:"type:varchar(200);not null"`
	Slug        string     `gorm:"type:varchar(220);uniqueIndex;not null"`
	Excerpt     string     `gorm:"type:text"`
	Body        string     `gorm:"type:text;not null"`
	Image       string     `gorm:"type:varchar(255)"`
	AuthorID    *uuid.UUID `gorm:"type:uuid"`
	IsPublished bool       `gorm:"not null;default:false;index"`
	PublishedAt *time.Time
}

// TableName explicitly sets the table name for GORM.
func (BlogModel) TableName() string {
	return "blogs"
}

type MusicModel struct {
	Base
	Title           string `gorm:"type:varchar(200);not null"`
	Artist          string `gorm:"type:varchar(200)"`
	Album           string `gorm:"type:varchar(200)"`
	DurationSeconds int    `gorm:"not null;default:0"`
	AudioPath       string `gorm:"type:varchar(255)"`
	CoverImage      string `gorm:"type:varchar(255)"`
	IsPublished     bool   `gorm:"not null;default:false;index"`
}

// TableName explicitly sets the table name for GORM.
func (MusicModel) TableName() string {
	return "music"
}

type HomeSliderModel struct {
	Base
	Title     string `gorm:"type:varchar(200);not null"`
	Subtitle  string `gorm:"type:varchar(255)"`
	Image     string `gorm:"type:varchar(255)"`
	LinkURL   string `gorm:"type:varchar(512)"`
	SortOrder int    `gorm:"not null;default:0"`
	IsActive  bool   `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (HomeSliderModel) TableName() string {
	return "home_sliders"
}

type AboutUsModel struct {
	Base
	Title   string `gorm:"type:varchar(200);not null"`
	Body    string `gorm:"type:text"`
	Mission string `gorm:"type:text"`
	Vision  string `gorm:"type:text"`
	Image   string `gorm:"type:varchar(255)"`
}

// TableName explicitly sets the table name for GORM.
func (AboutUsModel) TableName() string {
	return "about_us"
}

type ContactMessageModel struct {
	Base
	Name    string `gorm:"type:varchar(100);not null"`
	Email   string `gorm:"type:varchar(255);not null"`
	Phone   string `gorm:"type:varchar(32)"`
	Subject string `gorm:"type:varchar(200);not null"`
	Message string `gorm:"type:text;not null"`
	IsRead  bool   `gorm:"not null;default:false;index"`
	ReadAt  *time.Time
}

// TableName explicitly sets the table name for GORM.
func (ContactMessageModel) TableName() string {
	return "contact_messages"
}

type UserMessageModel struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Subject   string    `gorm:"type:varchar(200);not null"`
	Body      string    `gorm:"type:text;not null"`
	Reply     string    `gorm:"type:text"`
	RepliedAt *time.Time
	RepliedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName explicitly sets the table name for GORM.
func (UserMessageModel) TableName() string {
	return "user_messages"
}
