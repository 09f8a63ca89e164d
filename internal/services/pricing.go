package services

import (
	"math"

	"thrifttech/internal/domain"
)

// Pricing constants, in currency units.
const (
	vatRate          = 0.15
	flatShipping     = 85.0
	freeShippingOver = 500.0
	bulkRate         = 0.05
	bulkOver         = 1000.0
	// PointValue is what one loyalty point is worth at checkout.
	PointValue = 0.10
	// loyaltyCapRate caps the loyalty discount at 10% of the subtotal.
	loyaltyCapRate = 0.10
)

type Totals struct {
	Subtotal        float64
	Tax             float64
	Shipping        float64
	LoyaltyDiscount float64
	BulkDiscount    float64
	TotalDiscount   float64
	Total           float64
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// CalculateTotals prices a cart snapshot. Pure function: same lines and points
// balance always produce the same totals. An empty cart yields all zeros, so
// callers must reject empty-cart checkout themselves.
//
// Rules, applied in order: 15% VAT on the subtotal; flat 85 shipping waived
// over 500; loyalty discount of 0.10 per point capped at 10% of the subtotal
// (zero when points < 0, i.e. no user); 5% bulk discount over 1000. Rounding
// to 2 decimals happens once at the end.
func CalculateTotals(lines []domain.CartLine, points int) Totals {
	subtotal := 0.0
	for _, l := range lines {
		subtotal += l.Price * float64(l.Qty)
	}

	tax := subtotal * vatRate

	shipping := flatShipping
	if subtotal > freeShippingOver || subtotal == 0 {
		shipping = 0
	}

	loyalty := 0.0
	if points > 0 {
		loyalty = math.Min(float64(points)*PointValue, subtotal*loyaltyCapRate)
	}

	bulk := 0.0
	if subtotal > bulkOver {
		bulk = subtotal * bulkRate
	}

	discount := loyalty + bulk
	return Totals{
		Subtotal:        round2(subtotal),
		Tax:             round2(tax),
		Shipping:        round2(shipping),
		LoyaltyDiscount: round2(loyalty),
		BulkDiscount:    round2(bulk),
		TotalDiscount:   round2(discount),
		Total:           round2(subtotal + tax + shipping - discount),
	}
}

// PointsEarned is the loyalty award for a completed order: one point per 10
// currency units spent.
func PointsEarned(orderTotal float64) int {
	return int(math.Floor(orderTotal / 10))
}

// PointsRedeemed converts an applied loyalty discount back into points.
func PointsRedeemed(loyaltyDiscount float64) int {
	return int(math.Round(loyaltyDiscount / PointValue))
}
