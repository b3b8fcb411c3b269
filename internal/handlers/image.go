package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/siteapi/internal/database"
	"github.com/example/siteapi/internal/logger"
	"github.com/example/siteapi/internal/metrics"
	"github.com/example/siteapi/internal/models"
)

// batchUploadSize is the exact number of files POST /admin/upload-images accepts.
const batchUploadSize = 3

// ImageHandler manages banner images stored inline in the database.
type ImageHandler struct {
	db *gorm.DB
}

// NewImageHandler constructs ImageHandler.
func NewImageHandler(db *gorm.DB) *ImageHandler {
	return &ImageHandler{db: db}
}

func tooManyImages() error {
	return fiber.NewError(fiber.StatusConflict,
		fmt.Sprintf("Maximum of %d images allowed. Delete an image before uploading a new one.", models.MaxStoredImages))
}

func invalidImageType(filename string) error {
	return fiber.NewError(fiber.StatusBadRequest,
		fmt.Sprintf("Invalid file type for %s. Only JPEG and PNG are allowed.", filename))
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// insertImage allocates the lowest free id and stores the image within tx.
func insertImage(tx *gorm.DB, img *models.Image) error {
	id, err := database.NextAvailableID(tx, &models.Image{})
	if err != nil {
		return err
	}
	img.ID = id
	return tx.Create(img).Error
}

func imageConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		logger.Log.Warn("image id taken by a concurrent insert", zap.Error(err))
		return fiber.NewError(fiber.StatusConflict, "image id already taken, retry the request")
	}
	return err
}

// UploadImage stores one image from the "file" form field. The stored count is
// checked before the content type.
func (h *ImageHandler) UploadImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}

	var img models.Image
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Image{}).Count(&count).Error; err != nil {
			return err
		}
		if count >= models.MaxStoredImages {
			return tooManyImages()
		}

		contentType := fh.Header.Get(fiber.HeaderContentType)
		if !models.AllowedImageTypes[contentType] {
			return invalidImageType(fh.Filename)
		}

		content, err := readUpload(fh)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read uploaded file")
		}

		img = models.Image{Name: fh.Filename, Content: content, ContentType: contentType}
		return insertImage(tx, &img)
	})
	if err != nil {
		return imageConflict(err)
	}

	metrics.RecordIDAllocation("images")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      img.ID,
		"message": "Image uploaded successfully",
	})
}

// UploadImages stores exactly three images from the "files" form field in one
// transaction. Like UploadImage, the stored count is checked before the types.
func (h *ImageHandler) UploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid multipart form")
	}
	files := form.File["files"]
	if len(files) != batchUploadSize {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Exactly %d images must be uploaded.", batchUploadSize))
	}

	ids := make([]int, 0, len(files))
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Image{}).Count(&count).Error; err != nil {
			return err
		}
		if count+int64(len(files)) > models.MaxStoredImages {
			return tooManyImages()
		}
		for _, fh := range files {
			if !models.AllowedImageTypes[fh.Header.Get(fiber.HeaderContentType)] {
				return invalidImageType(fh.Filename)
			}
		}

		for _, fh := range files {
			content, err := readUpload(fh)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "could not read uploaded file")
			}
			img := models.Image{
				Name:        fh.Filename,
				Content:     content,
				ContentType: fh.Header.Get(fiber.HeaderContentType),
			}
			if err := insertImage(tx, &img); err != nil {
				return err
			}
			ids = append(ids, img.ID)
		}
		return nil
	})
	if err != nil {
		return imageConflict(err)
	}

	for range ids {
		metrics.RecordIDAllocation("images")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ids":     ids,
		"message": "Images uploaded successfully.",
	})
}

func (h *ImageHandler) ListImages(c *fiber.Ctx) error {
	var images []models.Image
	if err := h.db.Order("id asc").Find(&images).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "No images found")
	}

	out := make([]models.ImageResponse, 0, len(images))
	for i := range images {
		out = append(out, images[i].Response())
	}
	return c.JSON(out)
}

func (h *ImageHandler) GetImage(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var img models.Image
	if err := h.db.First(&img, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Image not found")
		}
		return err
	}
	return c.JSON(img.Response())
}

// RenameImage sets the name of an image from the new_name query parameter.
func (h *ImageHandler) RenameImage(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	newName := strings.TrimSpace(c.Query("new_name"))
	if newName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "new_name is required")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var img models.Image
		if err := tx.Select("id", "name").First(&img, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Image not found")
			}
			return err
		}
		return tx.Model(&img).Update("name", newName).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"id":      id,
		"name":    newName,
		"message": "Image name updated successfully",
	})
}

func (h *ImageHandler) DeleteImage(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	result := h.db.Delete(&models.Image{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Image not found")
	}
	return c.JSON(fiber.Map{"message": "Image deleted successfully"})
}
