package repos

import (
	"thrifttech/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, full_name, username, email, password_hash, role`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(fullName, username, email, hash string) (int64, error) {
	res, err := r.DB.Exec(`
		INSERT INTO users(full_name, username, email, password_hash, role)
		VALUES(?,?,?,?,'customer')
	`, fullName, username, email, hash)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *UserRepo) EmailTaken(email string, exceptUserID int64) (bool, error) {
	var n int
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(email)=LOWER(?) AND id <> ?`, email, exceptUserID)
	return n > 0, err
}

func (r *UserRepo) UpdateProfile(id int64, fullName, username, email string) error {
	_, err := r.DB.Exec(`UPDATE users SET full_name=?, username=?, email=? WHERE id=?`,
		fullName, username, email, id)
	return err
}

func (r *UserRepo) UpdatePassword(id int64, hash string) error {
	_, err := r.DB.Exec(`UPDATE users SET password_hash=? WHERE id=?`, hash, id)
	return err
}

func (r *UserRepo) ListCustomers() ([]domain.User, error) {
	var out []domain.User
	err := r.DB.Select(&out, `SELECT `+userCols+` FROM users WHERE role='customer' ORDER BY email`)
	return out, err
}

// ---------- sessions ----------

func (r *UserRepo) BindSession(sid string, userID int64) error {
	_, err := r.DB.Exec(`
		INSERT INTO sessions(id, user_id, last_seen)
		VALUES(?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id, last_seen=CURRENT_TIMESTAMP
	`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
		SELECT u.id, u.full_name, u.username, u.email, u.password_hash, u.role
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = ?
	`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL, last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

// DeleteCascade removes a customer account and its cart, sessions and loyalty
// balance; orders, invoices, rentals and bids stay for audit.
func (r *UserRepo) DeleteCascade(userID int64) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE user_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM loyalty_points WHERE user_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM sessions WHERE user_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		UPDATE auctions SET highest_bidder_id=NULL WHERE highest_bidder_id=?
	`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM users WHERE id=? AND role='customer'`, userID); err != nil {
		return err
	}

	return tx.Commit()
}
