package handlers

import (
	"errors"
	"strconv"
	"time"

	applog "thrifttech/internal/log"
	"thrifttech/internal/repos"
	"thrifttech/internal/services"
	"thrifttech/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth     *services.AuthService
	Loyalty  *repos.LoyaltyRepo
	Prods    *repos.ProductRepo
	Orders   *repos.OrderRepo
	Invoices *repos.InvoiceRepo
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok || !validate.Password(pass) {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Err": "Invalid email or password"})
	}

	u, err := h.Auth.Login(sid, email, pass)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Err": "Invalid email or password"})
	}

	applog.Audit(c, "auth.login.success", map[string]any{"email": email})
	if u.Role == "admin" {
		return c.Redirect("/admin")
	}
	return c.Redirect("/")
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	sid := ensureSID(c)
	fullName, okN := validate.Name(c.FormValue("full_name"))
	username, okU := validate.Name(c.FormValue("username"))
	email, okE := validate.Email(c.FormValue("email"))
	pass := c.FormValue("password")

	if !okN || !okU || !okE {
		applog.Security(c, "auth.register.fail", map[string]any{"reason": "bad_format"})
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{"Err": "Please check your details and try again"})
	}
	if !validate.Password(pass) {
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{"Err": "Password must be 8-72 characters"})
	}

	_, err := h.Auth.Register(sid, fullName, username, email, pass)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{"Err": "An account with this email already exists"})
		}
		applog.Error(c, "auth.register.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("register", fiber.Map{"Err": "Could not create your account"})
	}

	applog.Audit(c, "auth.register", map[string]any{"email": email})
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}

// Account shows the profile page with the loyalty balance and recent activity.
func (h *AuthHandler) Account(c *fiber.Ctx) error {
	u := currentUser(c)
	points, err := h.Loyalty.Points(u.ID)
	if err != nil {
		applog.Error(c, "account.load.fail", err, nil)
		points = 0
	}
	orders, _ := h.Orders.ListByUser(u.ID)
	if len(orders) > 5 {
		orders = orders[:5]
	}
	invoices, _ := h.Invoices.ListByUser(u.ID)
	if len(invoices) > 5 {
		invoices = invoices[:5]
	}
	return render(c, "account", fiber.Map{
		"Points":     points,
		"PointValue": services.PointValue,
		"Orders":     orders,
		"Invoices":   invoices,
		"Err":        c.Query("err"),
		"Msg":        c.Query("msg"),
	})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	u := currentUser(c)
	fullName, okN := validate.Name(c.FormValue("full_name"))
	username, okU := validate.Name(c.FormValue("username"))
	email, okE := validate.Email(c.FormValue("email"))
	if !okN || !okU || !okE {
		return c.Redirect("/account?err=Please+check+your+details")
	}

	if err := h.Auth.UpdateProfile(u.ID, fullName, username, email); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Redirect("/account?err=This+email+is+already+in+use")
		}
		applog.Error(c, "account.profile.fail", err, nil)
		return c.Redirect("/account?err=Could+not+update+your+profile")
	}
	applog.Audit(c, "account.profile.update", map[string]any{"user_id": u.ID})
	return c.Redirect("/account?msg=Profile+updated")
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	u := currentUser(c)
	current := c.FormValue("current_password")
	next := c.FormValue("new_password")
	if !validate.Password(next) {
		return c.Redirect("/account?err=New+password+must+be+8-72+characters")
	}

	if err := h.Auth.ChangePassword(u.ID, current, next); err != nil {
		if errors.Is(err, services.ErrWrongPassword) {
			applog.Security(c, "account.password.fail", map[string]any{"user_id": u.ID})
			return c.Redirect("/account?err=Current+password+is+incorrect")
		}
		applog.Error(c, "account.password.fail", err, nil)
		return c.Redirect("/account?err=Could+not+change+your+password")
	}
	applog.Audit(c, "account.password.change", map[string]any{"user_id": u.ID})
	return c.Redirect("/account?msg=Password+changed")
}

// SellForm is the customer listing form.
func (h *AuthHandler) SellForm(c *fiber.Ctx) error {
	return render(c, "sell", fiber.Map{"Err": ""})
}

// Sell lets a signed-in customer list an item; only allow-listed tech
// categories are accepted.
func (h *AuthHandler) Sell(c *fiber.Ctx) error {
	u := currentUser(c)
	p, err := productFromForm(c)
	if err != nil {
		applog.Security(c, "sell.validation.fail", map[string]any{"error": err.Error()})
		return c.Status(fiber.StatusBadRequest).Render("sell", fiber.Map{"Err": err.Error()})
	}
	p.SellerID = u.ID

	id, err := h.Prods.Insert(p)
	if err != nil {
		applog.Error(c, "sell.insert.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("sell", fiber.Map{"Err": "Could not list your item"})
	}
	applog.Audit(c, "sell.listed", map[string]any{"product_id": id, "seller_id": u.ID})
	return c.Redirect("/product/" + strconv.FormatInt(id, 10))
}
