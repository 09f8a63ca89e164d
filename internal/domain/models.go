package domain

type Product struct {
	ID          int64    `db:"id" json:"ProductId"`
	SellerID    int64    `db:"seller_id" json:"-"`
	Title       string   `db:"title" json:"Title"`
	Description string   `db:"description" json:"Description"`
	Price       float64  `db:"price" json:"Price"`
	Category    string   `db:"category" json:"Category"`
	Photo       string   `db:"photo" json:"Photo"`
	Stock       int      `db:"stock" json:"Stock"`
	DailyRate   *float64 `db:"daily_rate" json:"DailyRate,omitempty"`
	Status      string   `db:"status" json:"Status"` // available | unavailable
	CreatedAt   string   `db:"created_at" json:"CreatedAt"`
	UpdatedAt   string   `db:"updated_at" json:"UpdatedAt"`
}

type CartLine struct {
	UserID    int64   `db:"user_id"`
	ProductID int64   `db:"product_id"`
	Qty       int     `db:"qty"`
	Title     string  `db:"title"`
	Price     float64 `db:"price"`
	Photo     string  `db:"photo"`
	Total     float64 `db:"total"`
}

type Order struct {
	ID        int64   `db:"id"`
	UserID    int64   `db:"user_id"`
	Total     float64 `db:"total"`
	Tax       float64 `db:"tax"`
	Shipping  float64 `db:"shipping"`
	Discount  float64 `db:"discount"`
	Status    string  `db:"status"` // pending | processing | completed | cancelled
	CreatedAt string  `db:"created_at"`
}

type OrderItem struct {
	ID        int64   `db:"id"`
	OrderID   int64   `db:"order_id"`
	ProductID int64   `db:"product_id"`
	Qty       int     `db:"qty"`
	Price     float64 `db:"price"`
	Title     string  `db:"title"`
}

type Invoice struct {
	ID        int64   `db:"id"`
	UserID    int64   `db:"user_id"`
	OrderID   int64   `db:"order_id"`
	Total     float64 `db:"total"`
	CreatedAt string  `db:"created_at"`
}

type Rental struct {
	ID        int64   `db:"id"`
	ProductID int64   `db:"product_id"`
	UserID    int64   `db:"user_id"`
	StartDate string  `db:"start_date"` // YYYY-MM-DD
	EndDate   string  `db:"end_date"`
	DailyRate float64 `db:"daily_rate"`
	TotalCost float64 `db:"total_cost"`
	Status    string  `db:"status"`
	CreatedAt string  `db:"created_at"`
	Title     string  `db:"title"`
	Photo     string  `db:"photo"`
}

// Auction rows are never explicitly closed: a row counts as active only while
// status='active' and end_time is in the future.
type Auction struct {
	ID              int64    `db:"id"`
	ProductID       int64    `db:"product_id"`
	StartingBid     float64  `db:"starting_bid"`
	CurrentBid      *float64 `db:"current_bid"`
	HighestBidderID *int64   `db:"highest_bidder_id"`
	Photo           string   `db:"photo"`
	StartTime       string   `db:"start_time"`
	EndTime         string   `db:"end_time"`
	Status          string   `db:"status"`
	CreatedAt       string   `db:"created_at"`
	Title           string   `db:"title"`
	Description     string   `db:"description"`
	HighestBidder   string   `db:"highest_bidder"`
	TimeLeft        string   `db:"-"`
}
