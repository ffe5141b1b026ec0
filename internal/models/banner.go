package models

import "time"

// Banner defaults.
const (
	DefaultBannerBackground = "#000000"
	DefaultBannerText       = "#ffffff"
	DefaultBannerAlign      = "center"
)

// BannerAligns lists the accepted text alignments.
var BannerAligns = []string{"left", "center", "right"}

// BannerConfig is the storefront banner of a shop.
type BannerConfig struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`

	Shop            string `gorm:"uniqueIndex;size:255;not null" json:"shop"`
	Message         string `gorm:"type:text" json:"message"`
	BackgroundColor string `gorm:"size:7" json:"backgroundColor"`
	TextColor       string `gorm:"size:7" json:"textColor"`
	IsEnabled       bool   `json:"isEnabled"`
	TextAlign       string `gorm:"size:8" json:"textAlign"`
}

// DefaultBannerConfig returns the banner shown before the shop saved one.
func DefaultBannerConfig(shop string) BannerConfig {
	return BannerConfig{
		Shop:            shop,
		BackgroundColor: DefaultBannerBackground,
		TextColor:       DefaultBannerText,
		IsEnabled:       true,
		TextAlign:       DefaultBannerAlign,
	}
}

// WithDefaults fills blank colors and alignment.
func (b BannerConfig) WithDefaults() BannerConfig {
	if b.BackgroundColor == "" {
		b.BackgroundColor = DefaultBannerBackground
	}
	if b.TextColor == "" {
		b.TextColor = DefaultBannerText
	}
	if b.TextAlign == "" {
		b.TextAlign = DefaultBannerAlign
	}
	return b
}
