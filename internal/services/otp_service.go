package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/siteapi/internal/logger"
	"github.com/example/siteapi/internal/metrics"
	"github.com/example/siteapi/internal/models"
)

// OTPTTL is how long a sent code stays valid.
const OTPTTL = 5 * time.Minute

const (
	otpMin = 100000
	otpMax = 999999
)

var (
	ErrOTPNotFound = errors.New("phone number not found")
	ErrInvalidOTP  = errors.New("invalid OTP")
	ErrOTPExpired  = errors.New("OTP has expired")
	// ErrSMSDelivery wraps every failure of the SMS sender during Send.
	ErrSMSDelivery = errors.New("failed to send SMS")
)

// OTPService manages one-time codes tied to phone numbers.
type OTPService struct {
	db       *gorm.DB
	sender   SMSSender
	now      func() time.Time
	generate func() (string, error)
}

// NewOTPService constructs an OTPService.
func NewOTPService(db *gorm.DB, sender SMSSender) *OTPService {
	return &OTPService{
		db:       db,
		sender:   sender,
		now:      time.Now,
		generate: GenerateCode,
	}
}

// GenerateCode returns a uniformly random 6-digit code in [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+otpMin), nil
}

// Send stores a fresh code for phone and texts it. The record is committed before the
// SMS goes out and is kept when delivery fails. An existing record keeps its
// is_verified flag.
func (s *OTPService) Send(phone string) (*models.OTP, error) {
	code, err := s.generate()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}

	now := s.now().UTC()
	var record models.OTP
	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("phone_number = ?", phone).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = models.OTP{
				PhoneNumber: phone,
				Code:        code,
				IsVerified:  false,
				CreatedAt:   now,
				ExpiresAt:   now.Add(OTPTTL),
			}
			return tx.Create(&record).Error
		}
		if err != nil {
			return err
		}

		record.Code = code
		record.CreatedAt = now
		record.ExpiresAt = now.Add(OTPTTL)
		return tx.Model(&record).Select("otp", "created_at", "expires_at").Updates(&record).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.sender.SendSMS(phone, fmt.Sprintf("Your OTP is: %s", code)); err != nil {
		metrics.RecordOTPEvent("send_failed")
		logger.Log.Warn("otp stored but sms delivery failed", logger.WithPhone(phone), zap.Error(err))
		return &record, fmt.Errorf("%w: %w", ErrSMSDelivery, err)
	}

	metrics.RecordOTPEvent("sent")
	logger.Log.Info("otp sent", logger.WithPhone(phone), zap.Time("expires_at", record.ExpiresAt))
	return &record, nil
}

// Verify checks code against the stored record for phone and marks it verified.
// A still-valid code can be verified any number of times.
func (s *OTPService) Verify(phone, code string) (*models.OTP, error) {
	var record models.OTP
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("phone_number = ?", phone).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOTPNotFound
			}
			return err
		}

		if record.Code != code {
			return ErrInvalidOTP
		}
		if record.IsExpired(s.now()) {
			return ErrOTPExpired
		}

		record.IsVerified = true
		return tx.Model(&record).Update("is_verified", true).Error
	})
	if err != nil {
		if errors.Is(err, ErrOTPNotFound) || errors.Is(err, ErrInvalidOTP) || errors.Is(err, ErrOTPExpired) {
			metrics.RecordOTPEvent("rejected")
		}
		return nil, err
	}

	metrics.RecordOTPEvent("verified")
	return &record, nil
}
