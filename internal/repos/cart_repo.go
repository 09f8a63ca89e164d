package repos

import (
	"thrifttech/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// Upsert coalesces repeated adds into one line per (user, product). The stored
// quantity is capped at 10 so the line always honors the [1,10] invariant.
func (r *CartRepo) Upsert(userID, productID int64, qty int) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(user_id, product_id, qty)
		VALUES(?,?,?)
		ON CONFLICT(user_id, product_id) DO UPDATE
		SET qty = MIN(cart_items.qty + excluded.qty, 10)
	`, userID, productID, qty)
	return err
}

func (r *CartRepo) SetQty(userID, productID int64, qty int) error {
	if qty <= 0 {
		return r.Remove(userID, productID)
	}
	_, err := r.db.Exec(`
		UPDATE cart_items SET qty=? WHERE user_id=? AND product_id=?
	`, qty, userID, productID)
	return err
}

func (r *CartRepo) Remove(userID, productID int64) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE user_id=? AND product_id=?`, userID, productID)
	return err
}

func (r *CartRepo) Clear(userID int64) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE user_id=?`, userID)
	return err
}

func (r *CartRepo) Lines(userID int64) ([]domain.CartLine, error) {
	lines := []domain.CartLine{}
	err := r.db.Select(&lines, `
		SELECT ci.user_id, ci.product_id, ci.qty, p.title, p.price, p.photo,
		       (ci.qty * p.price) AS total
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = ?
		ORDER BY p.title
	`, userID)
	return lines, err
}
