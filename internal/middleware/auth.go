package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"contentradar/internal/models"
)

// UserSource resolves an authenticated session subject to a user record.
// *db.DB satisfies it; tests substitute an in-memory fake.
type UserSource interface {
	GetUserBySub(ctx context.Context, sub string) (*models.User, error)
}

// AuthMiddleware handles user authentication via sessions.
type AuthMiddleware struct {
	users UserSource
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(users UserSource) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// resolveUser loads the session user, if any.
func (m *AuthMiddleware) resolveUser(c fiber.Ctx) *models.User {
	sess := session.FromContext(c)
	if sess == nil {
		return nil
	}

	sub, _ := sess.Get("user_sub").(string)
	if sub == "" {
		return nil
	}

	user, err := m.users.GetUserBySub(c.Context(), sub)
	if err != nil {
		sess.Destroy()
		return nil
	}
	return user
}

// RequireAuth ensures the user is authenticated, redirecting to /login if not.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	user := m.resolveUser(c)
	if user == nil {
		return c.Redirect().To("/login")
	}

	c.Locals("user", user)
	return c.Next()
}

// RequireAdmin is the capability gate in front of every API route. It is
// checked before any validation: an unauthenticated caller gets 401, an
// authenticated non-admin gets 403, regardless of which operation was
// attempted.
func (m *AuthMiddleware) RequireAdmin(c fiber.Ctx) error {
	user := m.resolveUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "authentication required",
		})
	}
	if !user.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status": "error",
			"error":  "administrator capability required",
		})
	}

	c.Locals("user", user)
	return c.Next()
}

// RequireAdminPage is the HTML counterpart of RequireAdmin for the
// dashboard routes.
func (m *AuthMiddleware) RequireAdminPage(c fiber.Ctx) error {
	user := m.resolveUser(c)
	if user == nil {
		return c.Redirect().To("/login")
	}
	if !user.IsAdmin() {
		return fiber.NewError(fiber.StatusForbidden, "administrator capability required")
	}

	c.Locals("user", user)
	return c.Next()
}
