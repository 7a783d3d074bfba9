package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camco/camco-backend/controllers"
	"github.com/camco/camco-backend/middleware"
	"github.com/camco/camco-backend/utils"
)

func SetupRouter(r *gin.Engine) *gin.Engine {
	// Route sai method trả 405 thay vì 404 (giữ tương thích client cũ)
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		utils.JSONError(c, http.StatusMethodNotAllowed, utils.CodeMethodNotAllowed, "Method không được hỗ trợ")
	})
	r.NoRoute(func(c *gin.Context) {
		utils.JSONError(c, http.StatusNotFound, utils.CodeNotFound, "Không tìm thấy đường dẫn")
	})

	r.GET("/health", controllers.HealthCheck)

	auth := r.Group("/auth")
	{
		auth.POST("/login", controllers.Login)
		auth.POST("/logout", controllers.Logout)
	}

	// Chiến lược xác thực chọn một lần: phiên cookie hoặc bypass
	authn := middleware.SelectAuthMiddleware()

	r.GET("/me", authn, controllers.Me)

	catalog := r.Group("/catalog", authn)
	{
		catalog.GET("", controllers.GetCatalogItems)
		catalog.POST("", middleware.RequireEdit(), controllers.CreateCatalogItem)
		catalog.PATCH("/:id", middleware.RequireEdit(), controllers.UpdateCatalogItem)
		catalog.DELETE("/:id", middleware.RequireEdit(), controllers.DeleteCatalogItem)
	}

	loans := r.Group("/loans", authn)
	{
		loans.GET("", controllers.GetLoans)
		loans.POST("", middleware.RequireEdit(), controllers.CreateLoan)
		loans.GET("/:id", controllers.GetLoanDetail)
		loans.PATCH("/:id", middleware.RequireEdit(), controllers.UpdateLoan)
		loans.PATCH("/:id/status", middleware.RequireEdit(), controllers.ToggleLoanStatus)
		loans.DELETE("/:id", middleware.RequireDelete(), controllers.DeleteLoan)
	}

	r.POST("/export", authn, middleware.RequireExport(), controllers.ExportLoans)

	return r
}
