package http

import (
	"github.com/bookhive/bookhive/internal/auth"
	"github.com/bookhive/bookhive/internal/database"
)

// RouterConfig contains all dependencies and configuration needed to
// create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Catalog  CatalogStore
	Roster   RosterStore
	Ledger   LedgerStore

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	AuthController *auth.AuthController
	CSRFSecret     []byte
	SecureCookies  bool

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
