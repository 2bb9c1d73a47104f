package domain

import "time"

// Meal is a bilingual menu entry. Prices are int64 fils (KWD minor units).
type Meal struct {
	ID            int64
	Slug          string
	NameEN        string
	NameAR        string
	DescriptionEN string
	DescriptionAR string
	CategoryEN    string
	CategoryAR    string
	PriceFils     int64
	ImageURL      string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Name returns the display name for a locale, falling back to English.
func (m Meal) Name(locale string) string {
	if locale == "ar" && m.NameAR != "" {
		return m.NameAR
	}
	return m.NameEN
}

// Description returns the localized description, falling back to English.
func (m Meal) Description(locale string) string {
	if locale == "ar" && m.DescriptionAR != "" {
		return m.DescriptionAR
	}
	return m.DescriptionEN
}
