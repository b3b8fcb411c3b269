package handlers

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/siteapi/internal/logger"
	"github.com/example/siteapi/internal/storage"
)

// ReelHandler uploads, lists and deletes short videos in object storage.
type ReelHandler struct {
	store storage.ReelStorage
}

// NewReelHandler constructs ReelHandler.
func NewReelHandler(store storage.ReelStorage) *ReelHandler {
	return &ReelHandler{store: store}
}

// storageError maps object storage failures. Provider messages are appended to the
// detail; not-found is handled by the caller.
func storageError(err error) error {
	logger.Log.Error("object storage request failed", zap.Error(err))
	return fiber.NewError(fiber.StatusInternalServerError, "object storage error: "+err.Error())
}

func (h *ReelHandler) UploadReel(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}

	contentType := fh.Header.Get(fiber.HeaderContentType)
	if !storage.AllowedVideoTypes[contentType] {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Invalid file type for %s. Only MP4, MOV and AVI videos are allowed.", fh.Filename))
	}

	name := filepath.Base(fh.Filename)
	if name == "." || name == "/" {
		return fiber.NewError(fiber.StatusBadRequest, "invalid file name")
	}

	f, err := fh.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not read uploaded file")
	}
	defer f.Close()

	result, err := h.store.UploadReel(c.UserContext(), name, contentType, f, fh.Size)
	if err != nil {
		return storageError(err)
	}

	logger.Log.Info("reel uploaded", zap.String("key", result.Key), zap.Int64("size", result.Size))
	return c.JSON(fiber.Map{
		"message": "File uploaded successfully",
		"url":     result.URL,
	})
}

func (h *ReelHandler) ListReels(c *fiber.Ctx) error {
	urls, err := h.store.ListReels(c.UserContext())
	if err != nil {
		return storageError(err)
	}
	if len(urls) == 0 {
		return c.JSON(fiber.Map{"message": "No reels found"})
	}
	return c.JSON(urls)
}

func (h *ReelHandler) DeleteReel(c *fiber.Ctx) error {
	filename, err := pathParam(c, "filename")
	if err != nil {
		return err
	}

	if err := h.store.DeleteReel(c.UserContext(), filename); err != nil {
		if errors.Is(err, storage.ErrReelNotFound) {
			return fiber.NewError(fiber.StatusNotFound,
				fmt.Sprintf("Reel '%s' not found in the bucket", filename))
		}
		return storageError(err)
	}

	return c.JSON(fiber.Map{"message": fmt.Sprintf("Reel '%s' deleted successfully", filename)})
}
