package handlers

import (
	applog "thrifttech/internal/log"
	"thrifttech/internal/services"
	"thrifttech/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// Home shows the featured tech products.
func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	products, err := h.Catalog.List("", "", "")
	if err != nil {
		applog.Error(c, "catalog.home.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load the catalog"})
	}
	return render(c, "home", fiber.Map{"Products": products})
}

// Browse is the catalog page with category filter and sorting.
func (h *CatalogHandler) Browse(c *fiber.Ctx) error {
	category := c.Query("category")
	sortBy := c.Query("sort", "title")
	order := c.Query("order", "asc")

	products, err := h.Catalog.List(category, sortBy, order)
	if err != nil {
		applog.Error(c, "catalog.browse.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load the catalog"})
	}
	return render(c, "catalog", fiber.Map{
		"Products": products,
		"Category": category,
		"SortBy":   sortBy,
		"Order":    order,
	})
}

// Detail renders one product with up to four same-category recommendations.
func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	p, err := h.Catalog.Get(id)
	if err != nil || p.Status != "available" || !services.IsTechCategory(p.Category) {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	recs, err := h.Catalog.Recommendations(p)
	if err != nil {
		recs = nil
	}
	if services.IsRentalCategory(p.Category) {
		rate := services.ResolveDailyRate(p)
		p.DailyRate = &rate
	}
	return render(c, "product", fiber.Map{"P": p, "Recommendations": recs})
}

// APIProducts is the JSON catalog for other services: same allow-list and
// sorting rules as the HTML pages.
func (h *CatalogHandler) APIProducts(c *fiber.Ctx) error {
	category := c.Query("category")
	sortBy := c.Query("sort", "Title")
	order := c.Query("order", "asc")

	products, err := h.Catalog.List(category, sortBy, order)
	if err != nil {
		applog.Error(c, "catalog.api.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to retrieve products",
		})
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"count":    len(products),
		"products": products,
		"filters": fiber.Map{
			"category": category,
			"sort_by":  sortBy,
			"order":    order,
		},
		"service_info": fiber.Map{
			"endpoint":    "/api/products",
			"description": "ThriftTech Product Catalog API",
			"version":     "1.0",
		},
	})
}
