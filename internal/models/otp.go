package models

import "time"

// OTP holds the current one-time code for a phone number. There is one row per phone number.
type OTP struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PhoneNumber string    `gorm:"size:15;not null;uniqueIndex" json:"phone_number"`
	Code        string    `gorm:"column:otp;size:6;not null" json:"-"`
	IsVerified  bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// TableName keeps the table name short.
func (OTP) TableName() string { return "otps" }

// IsExpired reports whether the code is past its expiry at the given instant.
func (o *OTP) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
