package models

import (
	"encoding/base64"
)

// MaxStoredImages caps the number of banner images kept at once.
const MaxStoredImages = 4

// AllowedImageTypes lists the content types accepted for banner images.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Image is a banner image stored inline as a blob.
type Image struct {
	ID          int    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Content     []byte `gorm:"not null" json:"-"`
	ContentType string `gorm:"size:50;not null" json:"content_type"`
}

// ImageResponse is the public representation of an Image with its payload as a data URI.
type ImageResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

// Response renders the image for API output.
func (i *Image) Response() ImageResponse {
	return ImageResponse{
		ID:          i.ID,
		Name:        i.Name,
		ContentType: i.ContentType,
		Content:     "data:" + i.ContentType + ";base64," + base64.StdEncoding.EncodeToString(i.Content),
	}
}
