package repos

import "github.com/jmoiron/sqlx"

// ReportRepo runs the admin aggregates. Every report is a deterministic
// function of the underlying rows; no transformation happens in Go.
type ReportRepo struct{ db *sqlx.DB }

func NewReportRepo(db *sqlx.DB) *ReportRepo { return &ReportRepo{db: db} }

type StockRow struct {
	Title string `db:"title"`
	Stock int    `db:"stock"`
}

type CategoryCount struct {
	Category string `db:"category"`
	Count    int    `db:"count"`
}

type TitleCount struct {
	Title string `db:"title"`
	Count int    `db:"count"`
}

type DateCount struct {
	Date  string `db:"date"`
	Count int    `db:"count"`
}

func (r *ReportRepo) ProductsSold() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(DISTINCT product_id) FROM order_items`)
	return n, err
}

func (r *ReportRepo) UsersRegisteredToday() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM users WHERE DATE(created_at) = DATE('now')`)
	return n, err
}

func (r *ReportRepo) TotalRevenue() (float64, error) {
	var v float64
	err := r.db.Get(&v, `SELECT COALESCE(SUM(total),0) FROM orders WHERE status='completed'`)
	return v, err
}

func (r *ReportRepo) InvoicesToday() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM invoices WHERE DATE(created_at) = DATE('now')`)
	return n, err
}

func (r *ReportRepo) ProductsOnHand() ([]StockRow, error) {
	out := []StockRow{}
	err := r.db.Select(&out, `SELECT title, stock FROM products WHERE stock > 0 ORDER BY title`)
	return out, err
}

func (r *ReportRepo) LowStock() ([]StockRow, error) {
	out := []StockRow{}
	err := r.db.Select(&out, `SELECT title, stock FROM products WHERE stock < 5 ORDER BY stock ASC`)
	return out, err
}

func (r *ReportRepo) TopSellingCategories() ([]CategoryCount, error) {
	out := []CategoryCount{}
	err := r.db.Select(&out, `
		SELECT p.category AS category, SUM(oi.qty) AS count
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		GROUP BY p.category
		ORDER BY count DESC
	`)
	return out, err
}

func (r *ReportRepo) ProductsByCategory() ([]CategoryCount, error) {
	out := []CategoryCount{}
	err := r.db.Select(&out, `
		SELECT category, COUNT(*) AS count FROM products GROUP BY category ORDER BY category
	`)
	return out, err
}

func (r *ReportRepo) InvoicesByDate() ([]DateCount, error) {
	out := []DateCount{}
	err := r.db.Select(&out, `
		SELECT DATE(created_at) AS date, COUNT(*) AS count
		FROM invoices GROUP BY DATE(created_at) ORDER BY date DESC
	`)
	return out, err
}

func (r *ReportRepo) TopProducts() ([]TitleCount, error) {
	out := []TitleCount{}
	err := r.db.Select(&out, `
		SELECT p.title AS title, SUM(oi.qty) AS count
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status = 'completed'
		GROUP BY p.id, p.title
		ORDER BY count DESC
	`)
	return out, err
}
