package handlers

import (
	"errors"
	"strconv"

	applog "thrifttech/internal/log"
	"thrifttech/internal/services"
	"thrifttech/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type RentalHandler struct {
	Rentals *services.RentalService
	Catalog *services.CatalogService
}

// Page lists the rentable gear with daily rates, plus the user's bookings when
// signed in.
func (h *RentalHandler) Page(c *fiber.Ctx) error {
	products, err := h.Catalog.Rentals()
	if err != nil {
		applog.Error(c, "rental.page.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load rentals"})
	}
	data := fiber.Map{"Products": products}
	if u := currentUser(c); u != nil {
		if history, err := h.Rentals.History(u.ID); err == nil {
			data["Rentals"] = history
		}
	}
	return render(c, "rent", data)
}

// Book creates a rental booking for a date range.
func (h *RentalHandler) Book(c *fiber.Ctx) error {
	u := currentUser(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	start, okS := validate.Date(c.FormValue("start_date"))
	end, okE := validate.Date(c.FormValue("end_date"))
	if !okS || !okE {
		return c.Status(fiber.StatusBadRequest).SendString("invalid dates")
	}

	booking, err := h.Rentals.Book(u.ID, productID, start, end)
	if err != nil {
		if errors.Is(err, services.ErrBadDateRange) {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
		}
		applog.Error(c, "rental.book.fail", err, map[string]any{"product_id": productID})
		return c.Status(fiber.StatusInternalServerError).SendString("could not book rental")
	}

	applog.Audit(c, "rental.book", map[string]any{
		"rental_id": booking.RentalID,
		"days":      booking.Days,
		"total":     booking.Total,
	})
	return c.Redirect("/rent?booked=" + strconv.FormatInt(booking.RentalID, 10))
}
