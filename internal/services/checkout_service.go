package services

import (
	"errors"
	"fmt"
	"strings"

	"thrifttech/internal/repos"
)

var ErrCartEmpty = errors.New("cart is empty")

// ShippingDetails are validated by presence only; no format checks beyond
// what the handlers already apply.
type ShippingDetails struct {
	FirstName     string
	LastName      string
	Address       string
	City          string
	Province      string
	Zip           string
	PaymentMethod string
}

func (d ShippingDetails) validate() error {
	fields := map[string]string{
		"first name":     d.FirstName,
		"last name":      d.LastName,
		"address":        d.Address,
		"city":           d.City,
		"province":       d.Province,
		"zip code":       d.Zip,
		"payment method": d.PaymentMethod,
	}
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	return nil
}

type CheckoutService struct {
	Carts   *repos.CartRepo
	Orders  *repos.OrderRepo
	Loyalty *repos.LoyaltyRepo
}

func NewCheckoutService(carts *repos.CartRepo, orders *repos.OrderRepo, loyalty *repos.LoyaltyRepo) *CheckoutService {
	return &CheckoutService{Carts: carts, Orders: orders, Loyalty: loyalty}
}

type CheckoutResult struct {
	OrderID      int64
	InvoiceID    int64
	Totals       Totals
	PointsEarned int
}

// Place runs the whole checkout: totals from the current cart and loyalty
// balance, then one transaction covering order, items, invoice, loyalty award
// and redemption, and the cart clear. There is no payment gateway; payment is
// treated as succeeded and the order lands as completed.
func (s *CheckoutService) Place(userID int64, details ShippingDetails) (CheckoutResult, error) {
	if err := details.validate(); err != nil {
		return CheckoutResult{}, err
	}

	lines, err := s.Carts.Lines(userID)
	if err != nil {
		return CheckoutResult{}, err
	}
	if len(lines) == 0 {
		return CheckoutResult{}, ErrCartEmpty
	}

	points, err := s.Loyalty.Points(userID)
	if err != nil {
		return CheckoutResult{}, err
	}
	totals := CalculateTotals(lines, points)

	earned := PointsEarned(totals.Total)
	redeemed := 0
	if totals.LoyaltyDiscount > 0 {
		redeemed = PointsRedeemed(totals.LoyaltyDiscount)
	}

	orderID, invoiceID, err := s.Orders.Place(userID, lines, repos.PlacedOrder{
		Total:    totals.Total,
		Tax:      totals.Tax,
		Shipping: totals.Shipping,
		Discount: totals.TotalDiscount,
	}, earned, redeemed)
	if err != nil {
		return CheckoutResult{}, err
	}

	return CheckoutResult{
		OrderID:      orderID,
		InvoiceID:    invoiceID,
		Totals:       totals,
		PointsEarned: earned,
	}, nil
}
