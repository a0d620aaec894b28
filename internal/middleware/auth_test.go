package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"contentradar/internal/db"
	"contentradar/internal/models"
)

type fakeUsers struct {
	users map[string]*models.User
}

func (f *fakeUsers) GetUserBySub(_ context.Context, sub string) (*models.User, error) {
	if u, ok := f.users[sub]; ok {
		return u, nil
	}
	return nil, db.ErrUserNotFound
}

// newTestApp builds a fiber app with the session middleware, a login
// helper route, and one route behind each gate.
func newTestApp(users UserSource) *fiber.App {
	app := fiber.New()

	sessionMiddleware, _ := session.NewWithStore(session.Config{})
	app.Use(sessionMiddleware)

	app.Post("/test-login/:sub", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		sess.Set("user_sub", c.Params("sub"))
		return c.SendString("ok")
	})

	m := NewAuthMiddleware(users)
	app.Get("/api/protected", m.RequireAdmin, func(c fiber.Ctx) error {
		return c.SendString("admin ok")
	})
	app.Get("/page", m.RequireAuth, func(c fiber.Ctx) error {
		return c.SendString("page ok")
	})

	return app
}

// login performs the test login and returns the session cookie header.
func login(t *testing.T, app *fiber.App, sub string) string {
	t.Helper()

	req, _ := http.NewRequest("POST", "/test-login/"+sub, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	cookies := resp.Header.Get("Set-Cookie")
	if cookies == "" {
		t.Fatal("login did not set a session cookie")
	}
	return cookies
}

func TestRequireAdmin_Unauthenticated(t *testing.T) {
	app := newTestApp(&fakeUsers{users: map[string]*models.User{}})

	req, _ := http.NewRequest("GET", "/api/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestRequireAdmin_ViewerForbidden(t *testing.T) {
	app := newTestApp(&fakeUsers{users: map[string]*models.User{
		"viewer-sub": {Sub: "viewer-sub", Role: models.RoleViewer},
	}})

	cookie := login(t, app, "viewer-sub")

	req, _ := http.NewRequest("GET", "/api/protected", nil)
	req.Header.Set("Cookie", cookie)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
}

func TestRequireAdmin_AdminAllowed(t *testing.T) {
	app := newTestApp(&fakeUsers{users: map[string]*models.User{
		"admin-sub": {Sub: "admin-sub", Role: models.RoleAdmin},
	}})

	cookie := login(t, app, "admin-sub")

	req, _ := http.NewRequest("GET", "/api/protected", nil)
	req.Header.Set("Cookie", cookie)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestRequireAuth_RedirectsToLogin(t *testing.T) {
	app := newTestApp(&fakeUsers{users: map[string]*models.User{}})

	req, _ := http.NewRequest("GET", "/page", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusFound)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want %q", loc, "/login")
	}
}

func TestRequireAdmin_UnknownSubTreatedAsUnauthenticated(t *testing.T) {
	app := newTestApp(&fakeUsers{users: map[string]*models.User{}})

	cookie := login(t, app, "ghost-sub")

	req, _ := http.NewRequest("GET", "/api/protected", nil)
	req.Header.Set("Cookie", cookie)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}
