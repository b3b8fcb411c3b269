package models

// User is a site visitor registered by phone number.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:255" json:"username"`
	CountryCode  string `gorm:"size:255" json:"country_code"`
	PhoneNumber  string `gorm:"size:255;not null;uniqueIndex" json:"phone_number"`
	SelectedSite string `gorm:"size:255" json:"selected_site"`
}
