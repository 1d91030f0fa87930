package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	staffModel "library-backend/internal/domains/staff/model"
	"library-backend/internal/shared/middleware"
	"library-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.CORSOrigins),
	)

	auth := middleware.AuthMiddleware(c.JWTManager)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupAuthorRoutes(v1, c, auth)
		setupBookRoutes(v1, c, auth)
		setupEditionRoutes(v1, c, auth)
		setupCopyRoutes(v1, c, auth)
		setupMemberRoutes(v1, c, auth)
		setupLoanRoutes(v1, c, auth)
		setupReportRoutes(v1, c)
		setupAdminRoutes(v1, c, auth)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.POST("/auth/login", c.StaffHandler.Login)
}

// ========================================
// CATALOGUE ROUTES (reads public, writes need a token)
// ========================================
func setupAuthorRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	authors := v1.Group("/authors")
	{
		authors.GET("", c.AuthorHandler.List)
		authors.GET("/:id", c.AuthorHandler.GetByID)
		authors.POST("", auth, c.AuthorHandler.Create)
		authors.PATCH("/:id", auth, c.AuthorHandler.Update)
		authors.DELETE("/:id", auth, c.AuthorHandler.Delete)
	}
}

func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	books := v1.Group("/books")
	{
		books.GET("", c.BookHandler.List)
		books.GET("/:id", c.BookHandler.GetByID)
		books.POST("", auth, c.BookHandler.Create)
		books.PATCH("/:id", auth, c.BookHandler.Update)
		books.DELETE("/:id", auth, c.BookHandler.Delete)
	}
}

func setupEditionRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	editions := v1.Group("/editions")
	{
		editions.GET("", c.EditionHandler.List)
		editions.GET("/:id", c.EditionHandler.GetByID)
		editions.POST("", auth, c.EditionHandler.Create)
		editions.PATCH("/:id", auth, c.EditionHandler.Update)
		editions.DELETE("/:id", auth, c.EditionHandler.Delete)
	}
}

func setupCopyRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	copies := v1.Group("/copies")
	{
		copies.GET("", c.CopyHandler.List)
		copies.GET("/:id", c.CopyHandler.GetByID)
		copies.POST("", auth, c.CopyHandler.Create)
		copies.PATCH("/:id", auth, c.CopyHandler.Update)
		copies.DELETE("/:id", auth, c.CopyHandler.Delete)
	}
}

// ========================================
// MEMBER & LOAN ROUTES
// ========================================
func setupMemberRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	members := v1.Group("/members")
	{
		members.GET("", c.MemberHandler.List)
		members.GET("/:id", c.MemberHandler.GetByID)
		members.GET("/:id/loans", c.LoanHandler.MemberLoans)
		members.POST("", auth, c.MemberHandler.Create)
		members.PATCH("/:id", auth, c.MemberHandler.Update)
		members.DELETE("/:id", auth, c.MemberHandler.Delete)
	}
}

func setupLoanRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	loans := v1.Group("/loans")
	{
		loans.GET("", c.LoanHandler.List)
		loans.GET("/:id", c.LoanHandler.GetByID)
		loans.POST("", auth, c.LoanHandler.Checkout)
		loans.POST("/:id/return", auth, c.LoanHandler.Return)
	}
}

// ========================================
// REPORT ROUTES
// ========================================
func setupReportRoutes(v1 *gin.RouterGroup, c *container.Container) {
	reports := v1.Group("/reports")
	{
		reports.GET("/copies", c.ReportHandler.CopiesCatalog)
		reports.GET("/books", c.ReportHandler.SearchBooks)
		reports.GET("/authors", c.ReportHandler.SearchAuthors)
		reports.GET("/editions", c.ReportHandler.SearchISBN)
		reports.GET("/members/:national_id", c.ReportHandler.MemberReport)
		reports.GET("/statistics", c.ReportHandler.Statistics)
		reports.GET("/statistics/export", c.ReportHandler.ExportStatistics)
		reports.GET("/consistency", c.ReportHandler.Consistency)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	admin := v1.Group("/admin")
	admin.Use(auth, middleware.RequireRole(string(staffModel.RoleAdmin)))
	{
		admin.POST("/reconcile", c.AdminHandler.Reconcile)
		admin.POST("/staff", c.StaffHandler.Create)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := appCtx.Store.Health(ctx); err != nil {
			dbStatus = "error: " + err.Error()
			health["status"] = "degraded"
		}

		cacheStatus := "ok"
		if err := appCtx.Cache.Ping(ctx); err != nil {
			cacheStatus = "error: " + err.Error()
		}

		queueStatus := "disabled"
		if appCtx.Queue != nil {
			queueStatus = "ok"
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"cache":    cacheStatus,
			"queue":    queueStatus,
		}
		health["pool"] = appCtx.Store.Stats()

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
