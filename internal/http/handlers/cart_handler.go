package handlers

import (
	applog "thrifttech/internal/log"
	"thrifttech/internal/services"
	"thrifttech/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	u := currentUser(c)
	cv, err := h.Cart.View(u.ID)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

// Add coalesces repeated adds of the same product into one line, capped at 10.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	u := currentUser(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	qty := validate.Qty(c.FormValue("qty"))

	if err := h.Cart.Add(u.ID, productID, qty); err != nil {
		applog.Error(c, "cart.add.fail", err, map[string]any{"product_id": productID})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	applog.Audit(c, "cart.add", map[string]any{"product_id": productID, "qty": qty})
	return c.Redirect("/cart")
}

// Update sets a line quantity; zero removes the line.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	u := currentUser(c)
	productID, ok := validate.ID(c.Params("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	qty := validate.QtyOrZero(c.FormValue("qty"))

	if err := h.Cart.SetQty(u.ID, productID, qty); err != nil {
		applog.Error(c, "cart.update.fail", err, map[string]any{"product_id": productID})
		return c.Status(fiber.StatusInternalServerError).SendString("could not update cart")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	u := currentUser(c)
	productID, ok := validate.ID(c.Params("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	if err := h.Cart.Remove(u.ID, productID); err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"product_id": productID})
		return c.Status(fiber.StatusInternalServerError).SendString("could not update cart")
	}
	return c.Redirect("/cart")
}
