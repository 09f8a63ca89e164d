package repos

import (
	"thrifttech/internal/domain"

	"github.com/jmoiron/sqlx"
)

type RentalRepo struct{ db *sqlx.DB }

func NewRentalRepo(db *sqlx.DB) *RentalRepo { return &RentalRepo{db: db} }

// Create persists a booking. Overlapping date ranges for the same product are
// deliberately not rejected; see DESIGN.md.
func (r *RentalRepo) Create(rental domain.Rental) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO rentals(product_id, user_id, start_date, end_date, daily_rate, total_cost, status)
		VALUES(?,?,?,?,?,?,'active')
	`, rental.ProductID, rental.UserID, rental.StartDate, rental.EndDate, rental.DailyRate, rental.TotalCost)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *RentalRepo) ListByUser(userID int64) ([]domain.Rental, error) {
	out := []domain.Rental{}
	err := r.db.Select(&out, `
		SELECT r.id, r.product_id, r.user_id, r.start_date, r.end_date,
		       r.daily_rate, r.total_cost, r.status, r.created_at,
		       p.title, p.photo
		FROM rentals r
		JOIN products p ON p.id = r.product_id
		WHERE r.user_id = ?
		ORDER BY r.id DESC
	`, userID)
	return out, err
}
