package routes

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/example/siteapi/internal/database"
	"github.com/example/siteapi/internal/handlers"
	"github.com/example/siteapi/internal/storage"
)

type nopSender struct{}

func (nopSender) SendSMS(to, body string) error { return nil }

type emptyReels struct{}

func (emptyReels) UploadReel(ctx context.Context, filename, contentType string, body io.Reader, size int64) (*storage.UploadResult, error) {
	return &storage.UploadResult{Key: storage.ReelPrefix + filename}, nil
}

func (emptyReels) ListReels(ctx context.Context) ([]string, error) { return nil, nil }

func (emptyReels) DeleteReel(ctx context.Context, filename string) error {
	return storage.ErrReelNotFound
}

func newTestApp(t *testing.T) *fiber.App {
	db, err := gorm.Open(sqlite.Open(":memory:"), database.Options())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	app := fiber.New(handlers.AppConfig(fiber.DefaultBodyLimit))
	Register(app, db, Dependencies{SMS: nopSender{}, Reels: emptyReels{}})
	return app
}

func TestRoutesAreRegistered(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{fiber.MethodGet, "/health", fiber.StatusOK},
		{fiber.MethodGet, "/metrics", fiber.StatusOK},
		{fiber.MethodGet, "/user/get_all_users", fiber.StatusNotFound},
		{fiber.MethodGet, "/user/get_user_by_id/1", fiber.StatusNotFound},
		{fiber.MethodDelete, "/user/delete_user_by_phone_number/123", fiber.StatusNotFound},
		{fiber.MethodGet, "/blogs/", fiber.StatusNotFound},
		{fiber.MethodGet, "/blogs/1", fiber.StatusNotFound},
		{fiber.MethodDelete, "/blogs/1", fiber.StatusNotFound},
		{fiber.MethodGet, "/admin/images", fiber.StatusNotFound},
		{fiber.MethodGet, "/admin/images/1", fiber.StatusNotFound},
		{fiber.MethodDelete, "/admin/delete_image/1", fiber.StatusNotFound},
		{fiber.MethodPut, "/admin/update_image/1?new_name=x", fiber.StatusNotFound},
		{fiber.MethodPost, "/otp/send-otp?phone_number=15550001111", fiber.StatusOK},
		{fiber.MethodPost, "/otp/verify-otp?phone_number=15559999999&otp=123456", fiber.StatusNotFound},
		{fiber.MethodGet, "/reels/get-reels/", fiber.StatusOK},
		{fiber.MethodDelete, "/reels/delete-reel/a.mp4", fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestCreateBlogThroughRouter(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/blogs/create_blogs", "/blogs/"} {
		req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(`{"title":"A","content":"B","author":"C"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode, path)
	}
}
