package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// OpenDB opens the sqlite store and runs the full schema upfront. No table is
// ever created inside a request path.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	if err := seedAdmin(db); err != nil {
		return nil, err
	}
	if err := seedCatalog(db); err != nil {
		return nil, err
	}

	return db, nil
}

// EnsureSchema is exported so tests can build an in-memory store with the real
// tables.
func EnsureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS users(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  full_name TEXT NOT NULL,
  username TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'customer' CHECK (role IN ('customer','admin')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id INTEGER NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  seller_id INTEGER NOT NULL DEFAULT 0,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  category TEXT NOT NULL,
  photo TEXT NOT NULL DEFAULT '',
  stock INTEGER NOT NULL DEFAULT 10,
  daily_rate NUMERIC NULL,
  status TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available','unavailable')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(LOWER(category));
CREATE INDEX IF NOT EXISTS idx_products_status   ON products(status);

CREATE TABLE IF NOT EXISTS cart_items(
  user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  qty INTEGER NOT NULL CHECK (qty >= 1 AND qty <= 10),
  added_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (user_id, product_id)
);

CREATE TABLE IF NOT EXISTS orders(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  total NUMERIC NOT NULL,
  tax NUMERIC NOT NULL DEFAULT 0,
  shipping NUMERIC NOT NULL DEFAULT 0,
  discount NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','processing','completed','cancelled')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);

CREATE TABLE IF NOT EXISTS order_items(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL REFERENCES products(id),
  qty INTEGER NOT NULL,
  price NUMERIC NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);

CREATE TABLE IF NOT EXISTS invoices(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  order_id INTEGER NOT NULL UNIQUE REFERENCES orders(id),
  total NUMERIC NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_invoices_user ON invoices(user_id);

CREATE TABLE IF NOT EXISTS loyalty_points(
  user_id INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
  points INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS rentals(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(id),
  user_id INTEGER NOT NULL,
  start_date TEXT NOT NULL,
  end_date TEXT NOT NULL,
  daily_rate NUMERIC NOT NULL,
  total_cost NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_rentals_user ON rentals(user_id);

CREATE TABLE IF NOT EXISTS auctions(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(id),
  starting_bid NUMERIC NOT NULL,
  current_bid NUMERIC NULL,
  highest_bidder_id INTEGER NULL,
  photo TEXT NOT NULL DEFAULT '',
  start_time TEXT NOT NULL,
  end_time TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
-- one active auction per product; guards the seeder against double-seeding
CREATE UNIQUE INDEX IF NOT EXISTS idx_auctions_active_product
  ON auctions(product_id) WHERE status = 'active';
CREATE INDEX IF NOT EXISTS idx_auctions_end ON auctions(end_time);
`
	_, err := db.Exec(schema)
	return err
}

// seedAdmin guarantees an admin account exists (idempotent).
func seedAdmin(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users WHERE role='admin'`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("Admin@123"), 12)
	if err != nil {
		return err
	}
	log.Println("[seed] creating default admin account")
	_, err = db.Exec(`
		INSERT INTO users(full_name, username, email, password_hash, role)
		VALUES('Administrator', 'admin', 'admin@thrifttech.local', ?, 'admin')
		ON CONFLICT(email) DO NOTHING
	`, string(hash))
	return err
}

// seedCatalog inserts a demo catalog when the store is empty so the home,
// rental and auction pages have something to show.
func seedCatalog(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products")

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	type p struct {
		title, desc, cat, photo string
		price                   float64
		daily                   *float64
	}
	rate := func(v float64) *float64 { return &v }
	demo := []p{
		{"iPhone 12 (Refurbished)", "Unlocked, 128GB, battery health 88%", "Smartphones", "iphone12.jpg", 5999.00, nil},
		{"ThinkPad X1 Carbon Gen 9", "i7, 16GB RAM, 512GB SSD", "Laptops", "x1carbon.jpg", 12499.00, nil},
		{"Canon EOS 250D", "DSLR body with 18-55mm kit lens", "Cameras", "eos250d.jpg", 7899.00, nil},
		{"PlayStation 5", "Disc edition, one controller", "Gaming Console", "ps5.jpg", 10999.00, nil},
		{"Bose QC45 Headphones", "Noise cancelling, carry case included", "Audio Equipment", "qc45.jpg", 4299.00, nil},
		{"Samsung Galaxy Tab S8", "WiFi, 256GB, with S Pen", "Tablets", "tabs8.jpg", 8499.00, nil},
		{"4K Projector Kit", "Projector, screen and cabling", "AV Rental", "projector.jpg", 15999.00, rate(450)},
		{"Sony A7 III Kit", "Body, 24-70mm lens, two batteries", "Camera Rental", "a7iii.jpg", 28999.00, rate(650)},
		{"DJI Mavic 3", "Fly-more combo, licensed operator not included", "Drone Rental", "mavic3.jpg", 32999.00, rate(800)},
		{"Meta Quest 3", "VR headset with two controllers", "VR Rental", "quest3.jpg", 8999.00, nil},
	}
	for _, d := range demo {
		if _, err := tx.Exec(`
			INSERT INTO products(title, description, price, category, photo, stock, daily_rate)
			VALUES(?,?,?,?,?,10,?)
		`, d.title, d.desc, d.price, d.cat, d.photo, d.daily); err != nil {
			return err
		}
	}

	return tx.Commit()
}
