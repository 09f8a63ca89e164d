package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"thrifttech/internal/config"
	"thrifttech/internal/http/handlers"
	applog "thrifttech/internal/log"
	"thrifttech/internal/repos"
	"thrifttech/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := services.NewAuthService(userRepo)
	authH := &handlers.AuthHandler{
		Auth:     authSvc,
		Loyalty:  repos.NewLoyaltyRepo(db),
		Prods:    repos.NewProductRepo(db),
		Orders:   repos.NewOrderRepo(db),
		Invoices: repos.NewInvoiceRepo(db),
	}

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates/headers)
	app.Use(func(c *fiber.Ctx) error {
		if u := authSvc.CurrentUser(c.Cookies("sid")); u != nil {
			c.Locals("user", u)
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	app.Static("/static", "./web/static")
	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(mediaDir, clean), true)
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, authSvc)
	requireUser := handlers.RequireUser(authSvc)

	// Public pages
	app.Get("/", deps.CatalogHandler.Home)
	app.Get("/product", deps.CatalogHandler.Browse)
	app.Get("/product/:id", deps.CatalogHandler.Detail)
	app.Get("/auction", deps.AuctionHandler.Page)
	app.Get("/rent", deps.RentalHandler.Page)

	// API
	app.Get("/api/products", limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.api.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), deps.CatalogHandler.APIProducts)

	// Cart & checkout
	app.Get("/cart", requireUser, deps.CartHandler.View)
	app.Post("/cart", requireUser, deps.CartHandler.Add)
	app.Post("/cart/update/:productId", requireUser, deps.CartHandler.Update)
	app.Post("/cart/remove/:productId", requireUser, deps.CartHandler.Remove)
	app.Get("/checkout", requireUser, deps.CheckoutHandler.Form)
	app.Post("/checkout", requireUser, deps.CheckoutHandler.Place)

	// Orders & invoices
	app.Get("/orders", requireUser, deps.CheckoutHandler.History)
	app.Get("/order/:id", requireUser, deps.CheckoutHandler.View)
	app.Post("/order/:id/cancel", requireUser, deps.CheckoutHandler.Cancel)
	app.Post("/order/:id/reorder", requireUser, deps.CheckoutHandler.Reorder)
	app.Get("/invoices", requireUser, deps.CheckoutHandler.InvoiceList)
	app.Get("/invoice/:id", requireUser, deps.CheckoutHandler.Invoice)

	// Rentals & auctions
	app.Post("/rent", requireUser, deps.RentalHandler.Book)
	app.Post("/auction/bid", requireUser, deps.AuctionHandler.Bid)

	// Auth routes (login throttled)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Get("/register", authH.RegisterForm)
	app.Post("/register", authH.Register)
	app.Post("/logout", authH.Logout)

	// Account & selling
	app.Get("/account", requireUser, authH.Account)
	app.Post("/account/profile", requireUser, authH.UpdateProfile)
	app.Post("/account/password", requireUser, authH.ChangePassword)
	app.Get("/sell", requireUser, authH.SellForm)
	app.Post("/sell", requireUser, authH.Sell)

	// Admin
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", deps.AdminHandler.Dashboard)
	admin.Get("/products", deps.AdminHandler.Products)
	admin.Get("/products/add", deps.AdminHandler.AddForm)
	admin.Post("/products/add", deps.AdminHandler.Add)
	admin.Get("/products/:id/edit", deps.AdminHandler.EditForm)
	admin.Post("/products/:id/edit", deps.AdminHandler.Edit)
	admin.Post("/products/:id/delete", deps.AdminHandler.Delete)
	admin.Get("/users", deps.AdminHandler.UsersPage)
	admin.Post("/users/:id/delete", deps.AdminHandler.DeleteUser)
	admin.Get("/reports", deps.AdminHandler.ReportsPage)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
