package models

import "time"

// ShopSession holds the offline Admin API token obtained at install time.
type ShopSession struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Shop        string    `gorm:"uniqueIndex;size:255;not null" json:"shop"`
	AccessToken string    `gorm:"size:255;not null" json:"-"`
	Scope       string    `gorm:"size:500" json:"scope"`
}
