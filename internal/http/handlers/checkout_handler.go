package handlers

import (
	"errors"
	"strconv"

	applog "thrifttech/internal/log"
	"thrifttech/internal/repos"
	"thrifttech/internal/services"
	"thrifttech/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	Cart     *services.CartService
	Checkout *services.CheckoutService
	Orders   *repos.OrderRepo
	Invoices *repos.InvoiceRepo
	Loyalty  *repos.LoyaltyRepo
}

// Form shows the checkout page with totals priced against the user's loyalty
// balance.
func (h *CheckoutHandler) Form(c *fiber.Ctx) error {
	u := currentUser(c)
	cv, err := h.Cart.View(u.ID)
	if err != nil {
		applog.Error(c, "checkout.load.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	if len(cv.Lines) == 0 {
		return c.Redirect("/cart")
	}
	points, _ := h.Loyalty.Points(u.ID)
	return render(c, "checkout", fiber.Map{"Cart": cv, "Points": points})
}

// Place runs the checkout. The totals are always recomputed server-side from
// the stored cart, never taken from the form.
func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	u := currentUser(c)

	zip, ok := validate.ZIP(c.FormValue("zip"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "zip"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid zip code")
	}
	details := services.ShippingDetails{
		FirstName:     c.FormValue("first_name"),
		LastName:      c.FormValue("last_name"),
		Address:       c.FormValue("address"),
		City:          c.FormValue("city"),
		Province:      c.FormValue("province"),
		Zip:           zip,
		PaymentMethod: c.FormValue("payment_method"),
	}

	result, err := h.Checkout.Place(u.ID, details)
	if err != nil {
		if errors.Is(err, services.ErrCartEmpty) {
			return c.Redirect("/cart")
		}
		applog.Error(c, "checkout.place.fail", err, nil)
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	applog.Audit(c, "checkout.place", map[string]any{
		"order_id":      result.OrderID,
		"invoice_id":    result.InvoiceID,
		"total":         result.Totals.Total,
		"points_earned": result.PointsEarned,
	})
	return c.Redirect("/order/" + strconv.FormatInt(result.OrderID, 10))
}

// History lists the user's orders.
func (h *CheckoutHandler) History(c *fiber.Ctx) error {
	u := currentUser(c)
	orders, err := h.Orders.ListByUser(u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "orders", fiber.Map{"Orders": orders})
}

// View shows one order; owners and admins only.
func (h *CheckoutHandler) View(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	o, items, err := h.Orders.Get(id)
	if err != nil || (o.UserID != u.ID && u.Role != "admin") {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": id})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	return render(c, "order", fiber.Map{"Order": o, "Items": items})
}

// Cancel flips a pending or processing order to cancelled.
func (h *CheckoutHandler) Cancel(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	cancelled, err := h.Orders.Cancel(id, u.ID)
	if err != nil {
		applog.Error(c, "order.cancel.fail", err, map[string]any{"order_id": id})
		return c.Status(fiber.StatusInternalServerError).SendString("could not cancel order")
	}
	if !cancelled {
		return c.Status(fiber.StatusBadRequest).SendString("this order can no longer be cancelled")
	}
	applog.Audit(c, "order.cancel", map[string]any{"order_id": id})
	return c.Redirect("/orders")
}

// Reorder puts a past order's still-available items back into the cart.
func (h *CheckoutHandler) Reorder(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	o, _, err := h.Orders.Get(id)
	if err != nil || o.UserID != u.ID {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	items, err := h.Orders.ItemsForReorder(id)
	if err != nil {
		applog.Error(c, "order.reorder.fail", err, map[string]any{"order_id": id})
		return c.Status(fiber.StatusInternalServerError).SendString("could not reorder")
	}
	for _, it := range items {
		if err := h.Cart.Add(u.ID, it.ProductID, it.Qty); err != nil {
			applog.Error(c, "order.reorder.add.fail", err, map[string]any{"product_id": it.ProductID})
		}
	}
	applog.Audit(c, "order.reorder", map[string]any{"order_id": id, "items": len(items)})
	return c.Redirect("/cart")
}

// InvoiceList shows the user's invoices.
func (h *CheckoutHandler) InvoiceList(c *fiber.Ctx) error {
	u := currentUser(c)
	invoices, err := h.Invoices.ListByUser(u.ID)
	if err != nil {
		applog.Error(c, "invoices.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load invoices"})
	}
	return render(c, "invoices", fiber.Map{"Invoices": invoices})
}

// Invoice shows one invoice together with its order lines; owners and admins
// only.
func (h *CheckoutHandler) Invoice(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Invoice not found"})
	}
	inv, err := h.Invoices.Get(id)
	if err != nil || (inv.UserID != u.ID && u.Role != "admin") {
		applog.Security(c, "access.denied.invoice", map[string]any{"invoice_id": id})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Invoice not found"})
	}
	o, items, err := h.Orders.Get(inv.OrderID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Invoice not found"})
	}
	return render(c, "invoice", fiber.Map{"Invoice": inv, "Order": o, "Items": items})
}
