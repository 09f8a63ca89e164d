package domain

type User struct {
	ID       int64  `db:"id"`
	FullName string `db:"full_name"`
	Username string `db:"username"`
	Email    string `db:"email"`
	Hash     string `db:"password_hash"`
	Role     string `db:"role"` // customer | admin
}
