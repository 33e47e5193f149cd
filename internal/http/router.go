package http

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookhive/bookhive/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	// Inject auth data for templates
	router.Use(AuthContextMiddleware())

	// Load HTML templates
	tmpl := template.Must(template.New("").ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)

	// Serve static files
	router.Static("/static", cfg.StaticPath)

	// Login, signup, logout and first-run setup
	if cfg.AuthController != nil {
		cfg.AuthController.RegisterRoutes(router)
	}

	// Create controllers
	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Catalog)
	membersController := NewMembersController(cfg.Roster)
	loansController := NewLoansController(cfg.Ledger, cfg.Catalog, cfg.Roster)
	reportsController := NewReportsController(cfg.Catalog, cfg.Roster, cfg.Ledger)
	dashboardController := NewDashboardController(cfg.Catalog, cfg.Roster, cfg.Ledger)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Landing pages
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
	router.GET("/dashboard", dashboardController.DashboardPage)

	// Catalog
	router.GET("/books", booksController.BooksPage)
	router.POST("/books", booksController.HandleBookAction)

	// Roster
	router.GET("/members", membersController.MembersPage)
	router.POST("/members", membersController.HandleMemberAction)

	// Circulation
	router.GET("/issue_return", loansController.LoansPage)
	router.POST("/issue_return", loansController.HandleLoanAction)

	// Reports
	router.GET("/reports", reportsController.ReportsPage)

	// Admin-only book editing
	if cfg.AuthMiddleware != nil {
		adminOnly := router.Group("/", cfg.AuthMiddleware.RequireAdmin())
		adminOnly.GET("/edit_book/:id", booksController.EditBookPage)
		adminOnly.POST("/edit_book/:id", booksController.EditBook)
	} else {
		router.GET("/edit_book/:id", booksController.EditBookPage)
		router.POST("/edit_book/:id", booksController.EditBook)
	}

	return router
}
