package services

import (
	"errors"
	"math"
	"time"

	"thrifttech/internal/domain"
	"thrifttech/internal/repos"
)

var ErrBadDateRange = errors.New("end date must be after start date")

const defaultDailyRate = 150.0

// ResolveDailyRate prefers the stored rate, then derives one from the price
// (5%, floored at the default), then falls back to the flat default.
func ResolveDailyRate(p domain.Product) float64 {
	if p.DailyRate != nil {
		return *p.DailyRate
	}
	if p.Price > 0 {
		return math.Max(defaultDailyRate, round2(p.Price*0.05))
	}
	return defaultDailyRate
}

type RentalService struct {
	Rentals *repos.RentalRepo
	Prods   *repos.ProductRepo
}

func NewRentalService(rentals *repos.RentalRepo, prods *repos.ProductRepo) *RentalService {
	return &RentalService{Rentals: rentals, Prods: prods}
}

type Booking struct {
	RentalID  int64
	Days      int
	DailyRate float64
	Total     float64
}

// Book validates the range, resolves the rate and persists the booking.
// Date-only granularity; days = end − start. Existing bookings for the same
// product are not consulted, so overlapping rentals remain possible (kept
// from the source behavior; see DESIGN.md).
func (s *RentalService) Book(userID, productID int64, start, end time.Time) (Booking, error) {
	if !end.After(start) {
		return Booking{}, ErrBadDateRange
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return Booking{}, ErrProductNotFound
	}

	rate := ResolveDailyRate(p)
	days := int(end.Sub(start).Hours() / 24)
	total := round2(float64(days) * rate)

	id, err := s.Rentals.Create(domain.Rental{
		ProductID: productID,
		UserID:    userID,
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		DailyRate: rate,
		TotalCost: total,
	})
	if err != nil {
		return Booking{}, err
	}
	return Booking{RentalID: id, Days: days, DailyRate: rate, Total: total}, nil
}

func (s *RentalService) History(userID int64) ([]domain.Rental, error) {
	return s.Rentals.ListByUser(userID)
}
