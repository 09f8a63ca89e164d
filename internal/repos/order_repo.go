package repos

import (
	"thrifttech/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// PlacedOrder carries the totals frozen into a checkout.
type PlacedOrder struct {
	Total    float64
	Tax      float64
	Shipping float64
	Discount float64
}

// Place materializes a cart into order + items + invoice and settles loyalty
// points, all inside one transaction. An order never exists without its
// invoice: any failure mid-sequence rolls the whole checkout back.
func (r *OrderRepo) Place(userID int64, lines []domain.CartLine, totals PlacedOrder, pointsEarned, pointsRedeemed int) (orderID, invoiceID int64, err error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		INSERT INTO orders(user_id, total, tax, shipping, discount, status)
		VALUES(?,?,?,?,?,'completed')
	`, userID, totals.Total, totals.Tax, totals.Shipping, totals.Discount)
	if err != nil {
		return 0, 0, err
	}
	orderID, err = res.LastInsertId()
	if err != nil {
		return 0, 0, err
	}

	for _, l := range lines {
		if _, err := tx.Exec(`
			INSERT INTO order_items(order_id, product_id, qty, price)
			VALUES(?,?,?,?)
		`, orderID, l.ProductID, l.Qty, l.Price); err != nil {
			return 0, 0, err
		}
		if _, err := tx.Exec(`
			UPDATE products SET stock = MAX(stock - ?, 0) WHERE id = ?
		`, l.Qty, l.ProductID); err != nil {
			return 0, 0, err
		}
	}

	res, err = tx.Exec(`
		INSERT INTO invoices(user_id, order_id, total) VALUES(?,?,?)
	`, userID, orderID, totals.Total)
	if err != nil {
		return 0, 0, err
	}
	invoiceID, err = res.LastInsertId()
	if err != nil {
		return 0, 0, err
	}

	if pointsEarned > 0 {
		if _, err := tx.Exec(`
			INSERT INTO loyalty_points(user_id, points) VALUES(?,?)
			ON CONFLICT(user_id) DO UPDATE SET points = points + excluded.points
		`, userID, pointsEarned); err != nil {
			return 0, 0, err
		}
	}
	if pointsRedeemed > 0 {
		if _, err := tx.Exec(`
			UPDATE loyalty_points SET points = points - ? WHERE user_id = ?
		`, pointsRedeemed, userID); err != nil {
			return 0, 0, err
		}
	}

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE user_id=?`, userID); err != nil {
		return 0, 0, err
	}

	return orderID, invoiceID, tx.Commit()
}

func (r *OrderRepo) Get(orderID int64) (domain.Order, []domain.OrderItem, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
		SELECT id, user_id, total, tax, shipping, discount, status, created_at
		FROM orders WHERE id = ?
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	var items []domain.OrderItem
	if err := r.db.Select(&items, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.qty, oi.price, p.title
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY p.title
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

func (r *OrderRepo) ListByUser(userID int64) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT id, user_id, total, tax, shipping, discount, status, created_at
		FROM orders WHERE user_id = ? ORDER BY id DESC
	`, userID)
	return out, err
}

func (r *OrderRepo) UpdateStatus(orderID int64, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status=? WHERE id=?`, status, orderID)
	return err
}

// Cancel flips an order to cancelled only while it is still pending or
// processing; completed and cancelled orders stay untouched.
func (r *OrderRepo) Cancel(orderID, userID int64) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE orders SET status='cancelled'
		WHERE id=? AND user_id=? AND status IN ('pending','processing')
	`, orderID, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *OrderRepo) ItemsForReorder(orderID int64) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := r.db.Select(&items, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.qty, oi.price, p.title
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ? AND p.status = 'available'
	`, orderID)
	return items, err
}
