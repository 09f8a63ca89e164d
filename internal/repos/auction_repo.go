package repos

import (
	"time"

	"thrifttech/internal/domain"

	"github.com/jmoiron/sqlx"
)

type AuctionRepo struct{ db *sqlx.DB }

func NewAuctionRepo(db *sqlx.DB) *AuctionRepo { return &AuctionRepo{db: db} }

func now() string { return time.Now().UTC().Format(time.RFC3339) }

func (r *AuctionRepo) Get(id int64) (domain.Auction, error) {
	var a domain.Auction
	err := r.db.Get(&a, `
		SELECT id, product_id, starting_bid, current_bid, highest_bidder_id,
		       photo, start_time, end_time, status, created_at,
		       '' AS title, '' AS description, '' AS highest_bidder
		FROM auctions WHERE id = ?
	`, id)
	return a, err
}

// ListActive returns running auctions for the given categories, soonest-ending
// first, joined with product and highest-bidder info.
func (r *AuctionRepo) ListActive(categories []string) ([]domain.Auction, error) {
	query, args, err := sqlx.In(`
		SELECT a.id, a.product_id, a.starting_bid, a.current_bid, a.highest_bidder_id,
		       COALESCE(NULLIF(a.photo,''), p.photo) AS photo,
		       a.start_time, a.end_time, a.status, a.created_at,
		       p.title, p.description,
		       COALESCE(u.full_name,'') AS highest_bidder
		FROM auctions a
		JOIN products p ON p.id = a.product_id
		LEFT JOIN users u ON u.id = a.highest_bidder_id
		WHERE a.status='active' AND a.end_time > ?
		  AND LOWER(p.category) IN (?)
		ORDER BY a.end_time ASC
	`, now(), categories)
	if err != nil {
		return nil, err
	}
	out := []domain.Auction{}
	err = r.db.Select(&out, query, args...)
	return out, err
}

// PlaceBid is a single compare-and-set against the current row state. It
// succeeds only while the auction is running and the bid still clears the
// minimum computed from the row as it is NOW, so two concurrent bids that both
// validated against a stale read cannot both win: the loser matches zero rows.
func (r *AuctionRepo) PlaceBid(auctionID, bidderID int64, bid, minIncrement float64) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE auctions
		SET current_bid = ?, highest_bidder_id = ?
		WHERE id = ? AND status = 'active' AND end_time > ?
		  AND ? >= (CASE WHEN COALESCE(current_bid, 0) > 0
		                 THEN current_bid ELSE starting_bid END) + ?
	`, bid, bidderID, auctionID, now(), bid, minIncrement)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SeedActive tops the pool of running auctions up to minActive by randomly
// selecting eligible products not already under auction. Expired rows are
// retired first so the one-active-auction-per-product index reflects reality;
// the index makes concurrent seeding runs safe (duplicates become no-ops).
func (r *AuctionRepo) SeedActive(minActive int, categories []string, duration time.Duration) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ts := now()
	if _, err := tx.Exec(`
		UPDATE auctions SET status='ended' WHERE status='active' AND end_time <= ?
	`, ts); err != nil {
		return err
	}

	query, args, err := sqlx.In(`
		SELECT COUNT(*)
		FROM auctions a JOIN products p ON p.id = a.product_id
		WHERE a.status='active' AND a.end_time > ? AND LOWER(p.category) IN (?)
	`, ts, categories)
	if err != nil {
		return err
	}
	var active int
	if err := tx.Get(&active, query, args...); err != nil {
		return err
	}
	if active >= minActive {
		return tx.Commit()
	}

	end := time.Now().UTC().Add(duration).Format(time.RFC3339)
	query, args, err = sqlx.In(`
		INSERT INTO auctions(product_id, starting_bid, photo, start_time, end_time, status)
		SELECT id, ROUND(MAX(500, price * 0.6), 2), photo, ?, ?, 'active'
		FROM products
		WHERE status='available' AND LOWER(category) IN (?)
		  AND id NOT IN (SELECT product_id FROM auctions WHERE status='active')
		ORDER BY RANDOM()
		LIMIT ?
		ON CONFLICT(product_id) WHERE status='active' DO NOTHING
	`, ts, end, categories, minActive-active)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return tx.Commit()
}
