package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestImageResponseDataURI(t *testing.T) {
	img := Image{ID: 2, Name: "hero.png", ContentType: "image/png", Content: []byte("png-bytes")}

	resp := img.Response()

	assert.Equal(t, 2, resp.ID)
	assert.Equal(t, "hero.png", resp.Name)
	assert.Equal(t, "image/png", resp.ContentType)
	assert.Equal(t, "data:image/png;base64,cG5nLWJ5dGVz", resp.Content)
}

func TestAllowedImageTypes(t *testing.T) {
	assert.True(t, AllowedImageTypes["image/jpeg"])
	assert.True(t, AllowedImageTypes["image/png"])
	assert.False(t, AllowedImageTypes["image/gif"])
	assert.False(t, AllowedImageTypes["text/plain"])
}

func TestOTPIsExpired(t *testing.T) {
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	otp := OTP{CreatedAt: created, ExpiresAt: created.Add(5 * time.Minute)}

	assert.False(t, otp.IsExpired(created))
	assert.False(t, otp.IsExpired(created.Add(5*time.Minute)))
	assert.True(t, otp.IsExpired(created.Add(5*time.Minute+time.Second)))
}
