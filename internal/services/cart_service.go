package services

import (
	"errors"

	"thrifttech/internal/domain"
	"thrifttech/internal/repos"
)

var ErrProductNotFound = errors.New("product not found")

type CartService struct {
	Carts   *repos.CartRepo
	Prods   *repos.ProductRepo
	Loyalty *repos.LoyaltyRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo, loyalty *repos.LoyaltyRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods, Loyalty: loyalty}
}

// Add puts qty of a product into the user's cart; repeated adds coalesce into
// one line. qty is expected to be pre-clamped to [1,10] by the handler.
func (s *CartService) Add(userID, productID int64, qty int) error {
	p, err := s.Prods.Get(productID)
	if err != nil || p.Status != "available" {
		return ErrProductNotFound
	}
	return s.Carts.Upsert(userID, productID, qty)
}

// SetQty updates a line; qty 0 removes it.
func (s *CartService) SetQty(userID, productID int64, qty int) error {
	return s.Carts.SetQty(userID, productID, qty)
}

func (s *CartService) Remove(userID, productID int64) error {
	return s.Carts.Remove(userID, productID)
}

func (s *CartService) Clear(userID int64) error {
	return s.Carts.Clear(userID)
}

type CartView struct {
	Lines  []domain.CartLine
	Totals Totals
}

// View loads the cart with totals priced against the user's current loyalty
// balance.
func (s *CartService) View(userID int64) (CartView, error) {
	lines, err := s.Carts.Lines(userID)
	if err != nil {
		return CartView{}, err
	}
	points, err := s.Loyalty.Points(userID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Lines: lines, Totals: CalculateTotals(lines, points)}, nil
}
