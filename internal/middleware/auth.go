package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"splitpath/internal/db"
	"splitpath/internal/models"
)

// AuthMiddleware handles dashboard authentication via sessions.
type AuthMiddleware struct {
	db *db.DB
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(database *db.DB) *AuthMiddleware {
	return &AuthMiddleware{db: database}
}

// RequireAuth ensures the user is authenticated, redirecting to /login
// if not. Used for HTML dashboard routes.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	user := m.sessionUser(c)
	if user == nil {
		return c.Redirect().To("/login")
	}
	c.Locals("user", user)
	return c.Next()
}

// RequireAPIAuth ensures the user is authenticated, returning 401 JSON
// if not. Used for the admin JSON API.
func (m *AuthMiddleware) RequireAPIAuth(c fiber.Ctx) error {
	user := m.sessionUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "unauthorized",
		})
	}
	c.Locals("user", user)
	return c.Next()
}

// RequireAdmin ensures the authenticated user has the admin role.
// Must run after RequireAPIAuth or RequireAuth.
func (m *AuthMiddleware) RequireAdmin(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok || !user.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status": "error",
			"error":  "admin role required",
		})
	}
	return c.Next()
}

// sessionUser loads the user referenced by the session, or nil.
func (m *AuthMiddleware) sessionUser(c fiber.Ctx) *models.User {
	sess := session.FromContext(c)
	if sess == nil {
		return nil
	}

	sub, _ := sess.Get("user_sub").(string)
	if sub == "" {
		return nil
	}

	user, err := m.db.GetUserBySub(c.Context(), sub)
	if err != nil {
		sess.Destroy()
		return nil
	}
	return user
}
