package repos

import (
	"time"

	"thrifttech/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, seller_id, title, description, price, category, photo, stock, daily_rate,
  status, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) All() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products WHERE status='available'`)
	return out, err
}

func (r *ProductRepo) ByCategory(category string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
		SELECT `+productCols+` FROM products
		WHERE status='available' AND LOWER(category) = LOWER(?)
	`, category)
	return out, err
}

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) Insert(p domain.Product) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO products(seller_id, title, description, price, category, photo, stock, daily_rate)
		VALUES(?,?,?,?,?,?,?,?)
	`, p.SellerID, p.Title, p.Description, p.Price, p.Category, p.Photo, p.Stock, p.DailyRate)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
		UPDATE products
		SET title=?, description=?, price=?, category=?, photo=?, stock=?, daily_rate=?, status=?, updated_at=?
		WHERE id=?
	`, p.Title, p.Description, p.Price, p.Category, p.Photo, p.Stock, p.DailyRate, p.Status,
		time.Now().UTC().Format(time.RFC3339), p.ID)
	return err
}

// Delete removes a product, or soft-deletes it (status=unavailable) when order,
// auction or rental history references the row. Returns true when the row was
// soft-deleted.
func (r *ProductRepo) Delete(id int64) (bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var refs int
	if err := tx.Get(&refs, `
		SELECT
		  (SELECT COUNT(*) FROM order_items WHERE product_id=?) +
		  (SELECT COUNT(*) FROM auctions WHERE product_id=?) +
		  (SELECT COUNT(*) FROM rentals WHERE product_id=?)
	`, id, id, id); err != nil {
		return false, err
	}

	if refs > 0 {
		if _, err := tx.Exec(`UPDATE products SET status='unavailable' WHERE id=?`, id); err != nil {
			return false, err
		}
		return true, tx.Commit()
	}

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE product_id=?`, id); err != nil {
		return false, err
	}
	if _, err := tx.Exec(`DELETE FROM products WHERE id=?`, id); err != nil {
		return false, err
	}
	return false, tx.Commit()
}
