package handlers

import (
	applog "thrifttech/internal/log"
	"thrifttech/internal/repos"
	"thrifttech/internal/services"
	"thrifttech/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Prods   *repos.ProductRepo
	Users   *repos.UserRepo
	Reports *services.ReportService
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Reports.Dashboard()
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load the dashboard"})
	}
	return render(c, "admin_dashboard", fiber.Map{"Dash": d})
}

// GET /admin/products
func (h *AdminHandler) Products(c *fiber.Ctx) error {
	products, err := h.Prods.All()
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	return render(c, "admin_products", fiber.Map{"Products": products})
}

// GET /admin/products/add
func (h *AdminHandler) AddForm(c *fiber.Ctx) error {
	return render(c, "admin_product_form", fiber.Map{"Err": ""})
}

// POST /admin/products/add
func (h *AdminHandler) Add(c *fiber.Ctx) error {
	u := currentUser(c)
	p, err := productFromForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).Render("admin_product_form", fiber.Map{"Err": err.Error()})
	}
	p.SellerID = u.ID

	id, err := h.Prods.Insert(p)
	if err != nil {
		applog.Error(c, "admin.products.add.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("admin_product_form", fiber.Map{"Err": "Could not save the product"})
	}
	applog.Audit(c, "admin.products.add", map[string]any{"product_id": id})
	return c.Redirect("/admin/products")
}

// GET /admin/products/:id/edit
func (h *AdminHandler) EditForm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	p, err := h.Prods.Get(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	return render(c, "admin_product_form", fiber.Map{"P": p, "Err": ""})
}

// POST /admin/products/:id/edit
func (h *AdminHandler) Edit(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	existing, err := h.Prods.Get(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Product not found"})
	}

	p, err := productFromForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).Render("admin_product_form", fiber.Map{"P": existing, "Err": err.Error()})
	}
	p.ID = id
	p.SellerID = existing.SellerID
	p.Status = existing.Status
	if s := c.FormValue("status"); s == "available" || s == "unavailable" {
		p.Status = s
	}

	if err := h.Prods.Update(p); err != nil {
		applog.Error(c, "admin.products.edit.fail", err, map[string]any{"product_id": id})
		return c.Status(fiber.StatusInternalServerError).Render("admin_product_form", fiber.Map{"P": existing, "Err": "Could not save the product"})
	}
	applog.Audit(c, "admin.products.edit", map[string]any{"product_id": id})
	return c.Redirect("/admin/products")
}

// Delete removes a product; rows with order, auction or rental history are
// kept but retired instead.
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing id")
	}
	softDeleted, err := h.Prods.Delete(id)
	if err != nil {
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product_id": id})
		return c.Status(fiber.StatusBadRequest).SendString("could not delete product")
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product_id": id, "retired": softDeleted})
	return c.Redirect("/admin/products")
}

// UsersPage lists customer accounts.
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	users, err := h.Users.ListCustomers()
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load users"})
	}
	return render(c, "admin_users", fiber.Map{"Users": users})
}

// DeleteUser removes a customer account; order and invoice history stays.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing id")
	}
	if err := h.Users.DeleteCascade(id); err != nil {
		applog.Error(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
		return c.Status(fiber.StatusBadRequest).SendString("could not delete user")
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return c.Redirect("/admin/users")
}

// GET /admin/reports
func (h *AdminHandler) ReportsPage(c *fiber.Ctx) error {
	r, err := h.Reports.All()
	if err != nil {
		applog.Error(c, "admin.reports.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load reports"})
	}
	return render(c, "admin_reports", fiber.Map{"R": r})
}
