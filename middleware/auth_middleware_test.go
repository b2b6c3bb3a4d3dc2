package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anjiri1684/fee_collect/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func guardedApp(codec *session.Codec) *fiber.App {
	app := fiber.New()
	app.Use("/dashboard", DashboardGuard(codec))
	app.Get("/dashboard", func(c *fiber.Ctx) error {
		return c.SendString("dashboard")
	})
	app.Use("/login", LoginRedirect(codec))
	app.Get("/login", func(c *fiber.Ctx) error {
		return c.SendString("login")
	})
	return app
}

func sessionToken(t *testing.T, codec *session.Codec, expiry time.Time) string {
	t.Helper()
	token, err := codec.Encode(session.Claims{
		UserID: uuid.New(),
		Email:  "admin@school.test",
		Name:   "Admin",
		Expiry: expiry,
	})
	if err != nil {
		t.Fatalf("encode session: %v", err)
	}
	return token
}

func TestDashboardGuard(t *testing.T) {
	codec := session.NewCodec("guard-test-secret")
	app := guardedApp(codec)

	cases := []struct {
		name         string
		cookie       string
		wantStatus   int
		wantLocation string
	}{
		{
			name:       "valid session passes through",
			cookie:     sessionToken(t, codec, time.Now().Add(time.Hour)),
			wantStatus: fiber.StatusOK,
		},
		{
			name:         "missing cookie redirects to login",
			wantStatus:   fiber.StatusFound,
			wantLocation: "/login",
		},
		{
			name:         "expired session redirects to login",
			cookie:       sessionToken(t, codec, time.Now().Add(-time.Minute)),
			wantStatus:   fiber.StatusFound,
			wantLocation: "/login",
		},
		{
			name:         "session signed with another secret redirects to login",
			cookie:       sessionToken(t, session.NewCodec("other-secret"), time.Now().Add(time.Hour)),
			wantStatus:   fiber.StatusFound,
			wantLocation: "/login",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/dashboard", nil)
			if tc.cookie != "" {
				req.Header.Set("Cookie", session.CookieName+"="+tc.cookie)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}
			if got := resp.Header.Get("Location"); got != tc.wantLocation {
				t.Errorf("Location = %q, want %q", got, tc.wantLocation)
			}
		})
	}
}

func TestLoginRedirect(t *testing.T) {
	codec := session.NewCodec("guard-test-secret")
	app := guardedApp(codec)

	t.Run("authenticated admin is sent to dashboard", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/login", nil)
		req.Header.Set("Cookie", session.CookieName+"="+sessionToken(t, codec, time.Now().Add(time.Hour)))
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusFound {
			t.Fatalf("status = %d, want 302", resp.StatusCode)
		}
		if got := resp.Header.Get("Location"); got != "/dashboard" {
			t.Errorf("Location = %q, want /dashboard", got)
		}
	})

	t.Run("anonymous visitor sees login page", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/login", nil)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("stale session falls through to login page", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/login", nil)
		req.Header.Set("Cookie", session.CookieName+"="+sessionToken(t, codec, time.Now().Add(-time.Minute)))
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})
}
