package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/siteapi/internal/database"
	"github.com/example/siteapi/internal/logger"
	"github.com/example/siteapi/internal/metrics"
	"github.com/example/siteapi/internal/models"
)

// BlogHandler manages blog posts. New posts take the lowest free id.
type BlogHandler struct {
	db *gorm.DB
}

// NewBlogHandler constructs BlogHandler.
func NewBlogHandler(db *gorm.DB) *BlogHandler {
	return &BlogHandler{db: db}
}

type blogRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

func parseBlogRequest(c *fiber.Ctx) (*blogRequest, error) {
	var req blogRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "content is required")
	}
	return &req, nil
}

func (h *BlogHandler) CreateBlog(c *fiber.Ctx) error {
	req, err := parseBlogRequest(c)
	if err != nil {
		return err
	}

	blog := models.Blog{Title: req.Title, Content: req.Content, Author: req.Author}
	err = h.db.Transaction(func(tx *gorm.DB) error {
		id, err := database.NextAvailableID(tx, &models.Blog{})
		if err != nil {
			return err
		}
		blog.ID = id
		return tx.Create(&blog).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Log.Warn("blog id taken by a concurrent insert", zap.Int("id", blog.ID))
			return fiber.NewError(fiber.StatusConflict, "blog id already taken, retry the request")
		}
		return err
	}

	metrics.RecordIDAllocation("blogs")
	return c.Status(fiber.StatusCreated).JSON(blog)
}

func (h *BlogHandler) ListBlogs(c *fiber.Ctx) error {
	var blogs []models.Blog
	if err := h.db.Order("id asc").Find(&blogs).Error; err != nil {
		return err
	}
	if len(blogs) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "No blogs found")
	}
	return c.JSON(blogs)
}

func (h *BlogHandler) GetBlog(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var blog models.Blog
	if err := h.db.First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Blog not found")
		}
		return err
	}
	return c.JSON(blog)
}

func (h *BlogHandler) UpdateBlog(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	req, err := parseBlogRequest(c)
	if err != nil {
		return err
	}

	var blog models.Blog
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&blog, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Blog not found")
			}
			return err
		}
		blog.Title = req.Title
		blog.Content = req.Content
		blog.Author = req.Author
		return tx.Save(&blog).Error
	})
	if err != nil {
		return err
	}
	return c.JSON(blog)
}

func (h *BlogHandler) DeleteBlog(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	result := h.db.Delete(&models.Blog{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Blog not found")
	}
	return c.JSON(fiber.Map{"message": "Blog deleted successfully"})
}
