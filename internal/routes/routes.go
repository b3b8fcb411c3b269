package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/example/siteapi/internal/handlers"
	"github.com/example/siteapi/internal/services"
	"github.com/example/siteapi/internal/storage"
)

// Dependencies are the external collaborators handed to the handlers.
type Dependencies struct {
	SMS   services.SMSSender
	Reels storage.ReelStorage
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, deps Dependencies) {
	userHandler := handlers.NewUserHandler(db)
	blogHandler := handlers.NewBlogHandler(db)
	imageHandler := handlers.NewImageHandler(db)
	otpHandler := handlers.NewOTPHandler(services.NewOTPService(db, deps.SMS))
	reelHandler := handlers.NewReelHandler(deps.Reels)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Users
	user := app.Group("/user")
	user.Post("/create_user", userHandler.CreateUser)
	user.Get("/get_all_users", userHandler.ListUsers)
	user.Get("/get_user_by_id/:id", userHandler.GetUser)
	user.Put("/update_user_by_id/:id", userHandler.UpdateUser)
	user.Delete("/delete_user_by_phone_number/:phone_number", userHandler.DeleteUserByPhone)

	// Blogs
	blogs := app.Group("/blogs")
	blogs.Post("/create_blogs", blogHandler.CreateBlog)
	blogs.Post("/", blogHandler.CreateBlog)
	blogs.Get("/", blogHandler.ListBlogs)
	blogs.Get("/:id", blogHandler.GetBlog)
	blogs.Put("/:id", blogHandler.UpdateBlog)
	blogs.Delete("/:id", blogHandler.DeleteBlog)

	// Banner images
	admin := app.Group("/admin")
	admin.Post("/upload-image", imageHandler.UploadImage)
	admin.Post("/upload-images", imageHandler.UploadImages)
	admin.Get("/images", imageHandler.ListImages)
	admin.Get("/images/:id", imageHandler.GetImage)
	admin.Put("/update_image/:id", imageHandler.RenameImage)
	admin.Delete("/delete_image/:id", imageHandler.DeleteImage)

	otp := app.Group("/otp")
	otp.Post("/send-otp", otpHandler.SendOTP)
	otp.Post("/verify-otp", otpHandler.VerifyOTP)

	reels := app.Group("/reels")
	reels.Post("/upload-reel", reelHandler.UploadReel)
	reels.Get("/get-reels", reelHandler.ListReels)
	reels.Delete("/delete-reel/:filename", reelHandler.DeleteReel)
}
