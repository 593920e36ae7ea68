package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/postboard/configs"
	"github.com/maheshrc27/postboard/pkg/utils"
)

const secret = "0123456789abcdef0123456789abcdef"

func testApp() *fiber.App {
	m := NewAuthMiddleware(config.Config{SecretKey: secret, CookieName: "session"})
	app := fiber.New()
	app.Use(m.AuthMiddleware())
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	})
	return app
}

func request(t *testing.T, app *fiber.App, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: cookie})
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestAuthMiddleware(t *testing.T) {
	app := testApp()

	if resp := request(t, app, ""); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("missing cookie: status = %d", resp.StatusCode)
	}
	if resp := request(t, app, "garbage"); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad cookie: status = %d", resp.StatusCode)
	}

	token, err := utils.GenerateToken(secret, "u1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if resp := request(t, app, token); resp.StatusCode != http.StatusOK {
		t.Errorf("valid cookie: status = %d", resp.StatusCode)
	}

	approval, err := utils.GenerateApprovalToken(secret, "p1", "jti", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if resp := request(t, app, approval); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("approval token as session: status = %d", resp.StatusCode)
	}
}
