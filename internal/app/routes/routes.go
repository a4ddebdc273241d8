package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/hemope/doador-api/internal/app/controllers"
	"github.com/hemope/doador-api/internal/app/models"
	"github.com/hemope/doador-api/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth   *controllers.AuthController
	User   *controllers.UserController
	Donor  *controllers.DonorController
	Upload *controllers.UploadController
	Admin  *controllers.AdminController
}

// SetupRouter configures all application routes. limiter may be nil.
func SetupRouter(
	router *gin.Engine,
	ctrls Controllers,
	authMiddleware *middleware.AuthMiddleware,
	limiter *middleware.RateLimiter,
) {
	router.GET("/health", controllers.Health)
	router.NoRoute(middleware.NoRoute())

	api := router.Group("/api")
	if limiter != nil {
		api.Use(limiter.Middleware())
	}

	auth := api.Group("/auth")
	{
		auth.POST("/register", ctrls.Auth.Register)
		auth.POST("/login", ctrls.Auth.Login)
	}

	api.GET("/donors/:codigo", ctrls.Donor.GetByCodigo)

	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	users := authenticated.Group("/users")
	{
		users.GET("/me", ctrls.User.GetMe)
		users.GET("/me/card.png", ctrls.User.GetCard)
	}

	adminOnly := authenticated.Group("")
	adminOnly.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))

	upload := adminOnly.Group("/upload")
	{
		upload.POST("/xls", ctrls.Upload.UploadXLS)
		upload.GET("/logs", ctrls.Upload.ListLogs)
		upload.GET("/logs/:id", ctrls.Upload.GetLog)
		upload.GET("/template", ctrls.Upload.Template)
	}

	admin := adminOnly.Group("/admin")
	{
		admin.PATCH("/users/:id/status", ctrls.Admin.SetUserStatus)
	}
}
