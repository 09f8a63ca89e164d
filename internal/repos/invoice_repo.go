package repos

import (
	"thrifttech/internal/domain"

	"github.com/jmoiron/sqlx"
)

type InvoiceRepo struct{ db *sqlx.DB }

func NewInvoiceRepo(db *sqlx.DB) *InvoiceRepo { return &InvoiceRepo{db: db} }

func (r *InvoiceRepo) ListByUser(userID int64) ([]domain.Invoice, error) {
	var out []domain.Invoice
	err := r.db.Select(&out, `
		SELECT id, user_id, order_id, total, created_at
		FROM invoices WHERE user_id = ? ORDER BY id DESC
	`, userID)
	return out, err
}

func (r *InvoiceRepo) Get(invoiceID int64) (domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.Get(&inv, `
		SELECT id, user_id, order_id, total, created_at
		FROM invoices WHERE id = ?
	`, invoiceID)
	return inv, err
}
