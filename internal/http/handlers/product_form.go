package handlers

import (
	"errors"
	"strconv"
	"strings"

	"thrifttech/internal/domain"
	"thrifttech/internal/services"
	"thrifttech/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// productFromForm builds a product from the listing form shared by /sell and
// the admin pages. The category must be on the tech allow-list.
func productFromForm(c *fiber.Ctx) (domain.Product, error) {
	title, ok := validate.Name(c.FormValue("title"))
	if !ok {
		return domain.Product{}, errors.New("title must be 1-60 characters")
	}
	price, ok := validate.Price(c.FormValue("price"))
	if !ok {
		return domain.Product{}, errors.New("price must be a positive number")
	}
	category := strings.TrimSpace(c.FormValue("category"))
	if !services.IsTechCategory(category) {
		return domain.Product{}, errors.New("category must be one of the supported tech categories")
	}
	stock, err := strconv.Atoi(strings.TrimSpace(c.FormValue("stock")))
	if err != nil || stock < 0 {
		stock = 1
	}

	p := domain.Product{
		Title:       title,
		Description: strings.TrimSpace(c.FormValue("description")),
		Price:       price,
		Category:    category,
		Photo:       strings.TrimSpace(c.FormValue("photo")),
		Stock:       stock,
		Status:      "available",
	}
	if rate, ok := validate.Price(c.FormValue("daily_rate")); ok && services.IsRentalCategory(category) {
		p.DailyRate = &rate
	}
	return p, nil
}
