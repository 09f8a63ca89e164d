package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type LoyaltyRepo struct{ db *sqlx.DB }

func NewLoyaltyRepo(db *sqlx.DB) *LoyaltyRepo { return &LoyaltyRepo{db: db} }

// Points returns the user's balance; a missing row reads as zero.
func (r *LoyaltyRepo) Points(userID int64) (int, error) {
	var pts int
	err := r.db.Get(&pts, `SELECT points FROM loyalty_points WHERE user_id=?`, userID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return pts, err
}
