package services

import (
	"sort"
	"strings"

	"thrifttech/internal/domain"
	"thrifttech/internal/repos"
)

// techCategories is the fixed allow-list for customer-facing listings.
// Matching is case-insensitive everywhere.
var techCategories = map[string]bool{
	"electronics":     true,
	"smartphones":     true,
	"laptops":         true,
	"tablets":         true,
	"cameras":         true,
	"gaming console":  true,
	"audio equipment": true,
	// tech-related rental categories; excluded from the general catalog but
	// shown on the rental page
	"camera rental": true,
	"laptop rental": true,
	"audio rental":  true,
	"av rental":     true,
	"vr rental":     true,
	"drone rental":  true,
	"gaming rental": true,
}

var rentalCategories = map[string]bool{
	"camera rental": true,
	"laptop rental": true,
	"audio rental":  true,
	"av rental":     true,
	"vr rental":     true,
	"drone rental":  true,
	"gaming rental": true,
}

func IsTechCategory(c string) bool   { return techCategories[strings.ToLower(c)] }
func IsRentalCategory(c string) bool { return rentalCategories[strings.ToLower(c)] }

// AuctionCategories lists the non-rental tech categories eligible for
// auction seeding and listing.
func AuctionCategories() []string {
	out := make([]string, 0, len(techCategories))
	for c := range techCategories {
		if !rentalCategories[c] {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

// List returns catalog products: tech allow-list only, rentals excluded,
// optionally narrowed to one category, sorted by title/price/category. The
// sort is stable so equal keys keep a deterministic order.
func (s *CatalogService) List(category, sortBy, order string) ([]domain.Product, error) {
	var products []domain.Product
	var err error
	if category != "" {
		products, err = s.Prods.ByCategory(category)
	} else {
		products, err = s.Prods.All()
	}
	if err != nil {
		return nil, err
	}

	filtered := products[:0]
	for _, p := range products {
		if IsTechCategory(p.Category) && !IsRentalCategory(p.Category) {
			filtered = append(filtered, p)
		}
	}
	products = filtered

	desc := strings.EqualFold(order, "desc")
	less := func(a, b domain.Product) bool { return a.Title < b.Title }
	switch strings.ToLower(sortBy) {
	case "price":
		less = func(a, b domain.Product) bool { return a.Price < b.Price }
	case "category":
		less = func(a, b domain.Product) bool { return a.Category < b.Category }
	}
	sort.SliceStable(products, func(i, j int) bool {
		if desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
	return products, nil
}

func (s *CatalogService) Get(id int64) (domain.Product, error) {
	return s.Prods.Get(id)
}

// Recommendations returns up to four other tech products from the same
// category.
func (s *CatalogService) Recommendations(p domain.Product) ([]domain.Product, error) {
	same, err := s.Prods.ByCategory(p.Category)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, 4)
	for _, c := range same {
		if c.ID != p.ID && IsTechCategory(c.Category) {
			out = append(out, c)
			if len(out) == 4 {
				break
			}
		}
	}
	return out, nil
}

// Rentals returns the rental-category products with their daily rate
// resolved.
func (s *CatalogService) Rentals() ([]domain.Product, error) {
	products, err := s.Prods.All()
	if err != nil {
		return nil, err
	}
	out := []domain.Product{}
	for _, p := range products {
		if IsRentalCategory(p.Category) {
			rate := ResolveDailyRate(p)
			p.DailyRate = &rate
			out = append(out, p)
		}
	}
	return out, nil
}
