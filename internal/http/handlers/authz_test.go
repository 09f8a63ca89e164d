package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"

	"thrifttech/internal/http/handlers"
	"thrifttech/internal/repos"
	"thrifttech/internal/services"
)

func newAuthzApp(t *testing.T) (*fiber.App, *repos.UserRepo) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	userRepo := repos.NewUserRepo(db)
	authSvc := services.NewAuthService(userRepo)

	engine := html.New("../../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Get("/admin", handlers.RequireAdmin(authSvc), func(c *fiber.Ctx) error {
		return c.SendString("admin ok")
	})
	app.Get("/orders", handlers.RequireUser(authSvc), func(c *fiber.Ctx) error {
		return c.SendString("orders ok")
	})
	return app, userRepo
}

func TestAdminArea_AnonymousRedirected(t *testing.T) {
	app, _ := newAuthzApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("anonymous should be redirected to login, got %d", resp.StatusCode)
	}
}

func TestAdminArea_CustomerForbidden(t *testing.T) {
	app, userRepo := newAuthzApp(t)

	uid, err := userRepo.Create("Carol Customer", "carol", "carol@test.local", "x")
	if err != nil {
		t.Fatal(err)
	}
	sid := "sid-customer"
	if err := userRepo.BindSession(sid, uid); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("customer must not reach the admin area, got %d", resp.StatusCode)
	}
}

func TestAdminArea_AdminAllowed(t *testing.T) {
	app, userRepo := newAuthzApp(t)

	// OpenDB seeds the admin account
	admin, err := userRepo.ByEmail("admin@thrifttech.local")
	if err != nil {
		t.Fatal(err)
	}
	sid := "sid-admin"
	if err := userRepo.BindSession(sid, admin.ID); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin should pass, got %d", resp.StatusCode)
	}
}

func TestUserArea_RequiresLogin(t *testing.T) {
	app, userRepo := newAuthzApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/orders", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("anonymous should be redirected, got %d", resp.StatusCode)
	}

	uid, err := userRepo.Create("Uma User", "uma", "uma@test.local", "x")
	if err != nil {
		t.Fatal(err)
	}
	sid := "sid-user"
	if err := userRepo.BindSession(sid, uid); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("GET", "/orders", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signed-in customer should pass, got %d", resp.StatusCode)
	}
}
