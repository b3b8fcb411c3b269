package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/siteapi/internal/models"
)

// UserHandler manages site users keyed by phone number.
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

type userRequest struct {
	Username     string `json:"username"`
	CountryCode  string `json:"country_code"`
	PhoneNumber  string `json:"phone_number"`
	SelectedSite string `json:"selected_site"`
}

func (r *userRequest) apply(u *models.User) {
	u.Username = r.Username
	u.CountryCode = r.CountryCode
	u.PhoneNumber = r.PhoneNumber
	u.SelectedSite = r.SelectedSite
}

func parseUserRequest(c *fiber.Ctx) (*userRequest, error) {
	var req userRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.PhoneNumber == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "phone_number is required")
	}
	return &req, nil
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	req, err := parseUserRequest(c)
	if err != nil {
		return err
	}

	var user models.User
	req.apply(&user)
	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "phone number already registered")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      user.ID,
		"message": "User created successfully",
	})
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := h.db.Order("id asc").Find(&users).Error; err != nil {
		return err
	}
	if len(users) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "No users found")
	}
	return c.JSON(users)
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}
	return c.JSON(user)
}

// UpdateUser overwrites every field of the user inside one transaction.
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	req, err := parseUserRequest(c)
	if err != nil {
		return err
	}

	var user models.User
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "User not found")
			}
			return err
		}
		req.apply(&user)
		return tx.Save(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "phone number already registered")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"id":      user.ID,
		"message": "User data updated successfully",
	})
}

func (h *UserHandler) DeleteUserByPhone(c *fiber.Ctx) error {
	phone, err := pathParam(c, "phone_number")
	if err != nil {
		return err
	}

	result := h.db.Where("phone_number = ?", phone).Delete(&models.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
