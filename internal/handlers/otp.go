package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/siteapi/internal/services"
)

const maxPhoneLength = 15

// OTPHandler exposes sending and verifying one-time codes.
type OTPHandler struct {
	otp *services.OTPService
}

// NewOTPHandler constructs OTPHandler.
func NewOTPHandler(otp *services.OTPService) *OTPHandler {
	return &OTPHandler{otp: otp}
}

func phoneFromQuery(c *fiber.Ctx) (string, error) {
	phone := strings.TrimSpace(c.Query("phone_number"))
	if phone == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "phone_number is required")
	}
	if len(phone) > maxPhoneLength {
		return "", fiber.NewError(fiber.StatusBadRequest, "phone_number must be at most 15 characters")
	}
	return phone, nil
}

func (h *OTPHandler) SendOTP(c *fiber.Ctx) error {
	phone, err := phoneFromQuery(c)
	if err != nil {
		return err
	}

	if _, err := h.otp.Send(phone); err != nil {
		if !errors.Is(err, services.ErrSMSDelivery) {
			return err
		}
		var perr *services.ProviderError
		if errors.As(err, &perr) {
			return fiber.NewError(fiber.StatusBadRequest, "Failed to send SMS: "+perr.Message)
		}
		cause := strings.TrimPrefix(err.Error(), services.ErrSMSDelivery.Error()+": ")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to send SMS: "+cause)
	}

	return c.JSON(fiber.Map{
		"message":      "OTP sent successfully",
		"phone_number": phone,
	})
}

func (h *OTPHandler) VerifyOTP(c *fiber.Ctx) error {
	phone, err := phoneFromQuery(c)
	if err != nil {
		return err
	}
	code := c.Query("otp")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "otp is required")
	}

	if _, err := h.otp.Verify(phone, code); err != nil {
		switch {
		case errors.Is(err, services.ErrOTPNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Phone number not found")
		case errors.Is(err, services.ErrInvalidOTP):
			return fiber.NewError(fiber.StatusBadRequest, "Invalid OTP")
		case errors.Is(err, services.ErrOTPExpired):
			return fiber.NewError(fiber.StatusBadRequest, "OTP has expired")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"message":      "OTP verified successfully",
		"phone_number": phone,
	})
}
