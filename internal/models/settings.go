package models

import "time"

// Invoice template defaults, used when a shop never saved settings or left a field blank.
const (
	DefaultBrandColor     = "#000000"
	DefaultSecondaryColor = "#555555"
	DefaultTitleColor     = "#000000"
	DefaultFont           = "Helvetica"
	DefaultFontSize       = 10
	DefaultLogoSize       = 50
	DefaultLayout         = "classic"
	DefaultLanguage       = "fr"
)

// ShopSettings is the per-shop invoice template and mail configuration.
type ShopSettings struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Shop is the myshopify domain, one record per shop.
	Shop string `gorm:"uniqueIndex;size:255;not null" json:"shop"`

	// Identity
	CompanyName string `gorm:"size:255" json:"companyName"`
	Address     string `gorm:"size:500" json:"address"`
	Siret       string `gorm:"size:32" json:"siret"`
	TvaIntra    string `gorm:"size:32" json:"tvaIntra"`
	LegalInfo   string `gorm:"type:text" json:"legalInfo"`

	// Style
	BrandColor     string `gorm:"size:7" json:"brandColor"`
	SecondaryColor string `gorm:"size:7" json:"secondaryColor"`
	TitleColor     string `gorm:"size:7" json:"titleColor"`
	Font           string `gorm:"size:64" json:"font"`
	FontSize       int    `json:"fontSize"`
	LogoSize       int    `json:"logoSize"`
	Layout         string `gorm:"size:16" json:"layout"`
	ShowWatermark  bool   `json:"showWatermark"`

	DocumentLanguage string `gorm:"size:8" json:"documentLanguage"`
	UILanguage       string `gorm:"column:ui_language;size:8" json:"uiLanguage"`

	// Images are stored as data URLs.
	LogoImage      string `gorm:"type:text" json:"logoImage"`
	SignatureImage string `gorm:"type:text" json:"signatureImage"`

	// Gmail SMTP credentials (app password). The password never leaves the server.
	SMTPEmail    string `gorm:"column:smtp_email;size:255" json:"smtpEmail"`
	SMTPPassword string `gorm:"column:smtp_password;size:255" json:"-"`
}

// DefaultShopSettings returns the settings used for a shop that has no record yet.
func DefaultShopSettings(shop string) ShopSettings {
	return ShopSettings{
		Shop:             shop,
		BrandColor:       DefaultBrandColor,
		SecondaryColor:   DefaultSecondaryColor,
		TitleColor:       DefaultTitleColor,
		Font:             DefaultFont,
		FontSize:         DefaultFontSize,
		LogoSize:         DefaultLogoSize,
		Layout:           DefaultLayout,
		ShowWatermark:    true,
		DocumentLanguage: DefaultLanguage,
		UILanguage:       DefaultLanguage,
	}
}

// WithDefaults returns a copy where every blank style or language field holds
// its default. Applying it twice gives the same value.
func (s ShopSettings) WithDefaults() ShopSettings {
	if s.BrandColor == "" {
		s.BrandColor = DefaultBrandColor
	}
	if s.SecondaryColor == "" {
		s.SecondaryColor = DefaultSecondaryColor
	}
	if s.TitleColor == "" {
		s.TitleColor = DefaultTitleColor
	}
	if s.Font == "" {
		s.Font = DefaultFont
	}
	if s.FontSize <= 0 {
		s.FontSize = DefaultFontSize
	}
	if s.LogoSize <= 0 {
		s.LogoSize = DefaultLogoSize
	}
	if s.Layout == "" {
		s.Layout = DefaultLayout
	}
	if s.DocumentLanguage == "" {
		s.DocumentLanguage = DefaultLanguage
	}
	if s.UILanguage == "" {
		s.UILanguage = DefaultLanguage
	}
	return s
}

// ResolveSettings turns a possibly absent record into a fully populated snapshot.
func ResolveSettings(shop string, s *ShopSettings) ShopSettings {
	if s == nil {
		return DefaultShopSettings(shop)
	}
	return s.WithDefaults()
}

// HasSMTP reports whether both Gmail credentials are present.
func (s ShopSettings) HasSMTP() bool {
	return s.SMTPEmail != "" && s.SMTPPassword != ""
}
