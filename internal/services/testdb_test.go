package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"thrifttech/internal/domain"
	"thrifttech/internal/repos"
)

// newTestDB builds an in-memory store with the real schema. One connection
// only: every pooled sqlite ":memory:" connection would otherwise see its own
// empty database.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	if err := repos.EnsureSchema(db); err != nil {
		t.Fatal(err)
	}
	return db
}

func addUser(t *testing.T, db *sqlx.DB, email string) int64 {
	t.Helper()
	res, err := db.Exec(`
		INSERT INTO users(full_name, username, email, password_hash, role)
		VALUES('Test User', 'tester', ?, 'x', 'customer')
	`, email)
	if err != nil {
		t.Fatal(err)
	}
	id, _ := res.LastInsertId()
	return id
}

func addProduct(t *testing.T, db *sqlx.DB, p domain.Product) int64 {
	t.Helper()
	if p.Stock == 0 {
		p.Stock = 10
	}
	res, err := db.Exec(`
		INSERT INTO products(title, description, price, category, photo, stock, daily_rate)
		VALUES(?,?,?,?,?,?,?)
	`, p.Title, p.Description, p.Price, p.Category, p.Photo, p.Stock, p.DailyRate)
	if err != nil {
		t.Fatal(err)
	}
	id, _ := res.LastInsertId()
	return id
}
