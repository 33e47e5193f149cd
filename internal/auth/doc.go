// Package auth provides authentication and authorization for the
// application.
//
// Every page except login, signup and first-run setup requires a session.
// Sessions are sqlite-backed cookies; passwords are bcrypt hashes. Users
// carry one of two roles:
//
//   - admin: manages the catalog and the member roster
//   - member: browses, borrows and cancels
//
// Configuration (environment variables):
//
//	AUTH_SESSION_SECRET=<hex-32-bytes>  # Auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h           # Session duration
//	AUTH_BCRYPT_COST=12                 # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true            # HTTPS-only cookies
//
// Extract the caller in handlers:
//
//	role := auth.GetUserRole(c)
//	if role == entities.UserRoleAdmin { ... }
package auth
