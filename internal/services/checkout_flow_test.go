package services_test

import (
	"errors"
	"testing"

	"thrifttech/internal/domain"
	"thrifttech/internal/repos"
	"thrifttech/internal/services"
)

func TestCartAdd_CoalescesAndCaps(t *testing.T) {
	db := newTestDB(t)
	uid := addUser(t, db, "cart@test.local")
	pid := addProduct(t, db, domain.Product{Title: "Pixel 7", Price: 4500, Category: "Smartphones"})

	cartSvc := services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db), repos.NewLoyaltyRepo(db))

	if err := cartSvc.Add(uid, pid, 3); err != nil {
		t.Fatal(err)
	}
	if err := cartSvc.Add(uid, pid, 4); err != nil {
		t.Fatal(err)
	}

	cv, err := cartSvc.View(uid)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Lines) != 1 || cv.Lines[0].Qty != 7 {
		t.Fatalf("want one line with qty 7, got %+v", cv.Lines)
	}

	// pushing past the cap sticks at 10
	if err := cartSvc.Add(uid, pid, 8); err != nil {
		t.Fatal(err)
	}
	cv, _ = cartSvc.View(uid)
	if cv.Lines[0].Qty != 10 {
		t.Fatalf("want qty capped at 10, got %d", cv.Lines[0].Qty)
	}
}

func TestCartAdd_UnknownProduct(t *testing.T) {
	db := newTestDB(t)
	uid := addUser(t, db, "cart2@test.local")

	cartSvc := services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db), repos.NewLoyaltyRepo(db))
	if err := cartSvc.Add(uid, 999, 1); !errors.Is(err, services.ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound, got %v", err)
	}
}

func TestCheckout_PlacesOrderAtomically(t *testing.T) {
	db := newTestDB(t)
	uid := addUser(t, db, "buyer@test.local")
	pid := addProduct(t, db, domain.Product{Title: "ThinkPad T14", Price: 9000, Category: "Laptops", Stock: 5})

	cartRepo := repos.NewCartRepo(db)
	loyaltyRepo := repos.NewLoyaltyRepo(db)
	cartSvc := services.NewCartService(cartRepo, repos.NewProductRepo(db), loyaltyRepo)
	checkoutSvc := services.NewCheckoutService(cartRepo, repos.NewOrderRepo(db), loyaltyRepo)

	if err := cartSvc.Add(uid, pid, 2); err != nil {
		t.Fatal(err)
	}

	details := services.ShippingDetails{
		FirstName: "B", LastName: "Uyer", Address: "1 Main Rd",
		City: "Cape Town", Province: "WC", Zip: "8001", PaymentMethod: "card",
	}
	result, err := checkoutSvc.Place(uid, details)
	if err != nil {
		t.Fatal(err)
	}

	// 18000 subtotal + 2700 tax + 0 shipping - 900 bulk
	if result.Totals.Total != 19800 {
		t.Fatalf("want total 19800, got %v", result.Totals.Total)
	}
	if result.OrderID == 0 || result.InvoiceID == 0 {
		t.Fatalf("missing ids: %+v", result)
	}

	var status string
	if err := db.Get(&status, `SELECT status FROM orders WHERE id=?`, result.OrderID); err != nil {
		t.Fatal(err)
	}
	if status != "completed" {
		t.Fatalf("want completed order, got %s", status)
	}

	// stock decremented, cart cleared, points awarded
	var stock int
	_ = db.Get(&stock, `SELECT stock FROM products WHERE id=?`, pid)
	if stock != 3 {
		t.Fatalf("want stock 3, got %d", stock)
	}
	cv, _ := cartSvc.View(uid)
	if len(cv.Lines) != 0 {
		t.Fatalf("cart should be empty, got %+v", cv.Lines)
	}
	points, _ := loyaltyRepo.Points(uid)
	if points != services.PointsEarned(19800) {
		t.Fatalf("want %d points, got %d", services.PointsEarned(19800), points)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	db := newTestDB(t)
	uid := addUser(t, db, "empty@test.local")

	checkoutSvc := services.NewCheckoutService(repos.NewCartRepo(db), repos.NewOrderRepo(db), repos.NewLoyaltyRepo(db))
	details := services.ShippingDetails{
		FirstName: "A", LastName: "B", Address: "C",
		City: "D", Province: "E", Zip: "1234", PaymentMethod: "card",
	}
	if _, err := checkoutSvc.Place(uid, details); !errors.Is(err, services.ErrCartEmpty) {
		t.Fatalf("want ErrCartEmpty, got %v", err)
	}
}

func TestCheckout_MissingDetails(t *testing.T) {
	db := newTestDB(t)
	uid := addUser(t, db, "nodetails@test.local")

	checkoutSvc := services.NewCheckoutService(repos.NewCartRepo(db), repos.NewOrderRepo(db), repos.NewLoyaltyRepo(db))
	if _, err := checkoutSvc.Place(uid, services.ShippingDetails{FirstName: "only"}); err == nil {
		t.Fatal("want validation error for missing shipping details")
	}
}

// A failure mid-transaction must leave no half-written order behind.
func TestCheckout_RollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	uid := addUser(t, db, "rollback@test.local")
	pid := addProduct(t, db, domain.Product{Title: "EOS R6", Price: 300, Category: "Cameras", Stock: 5})

	cartRepo := repos.NewCartRepo(db)
	cartSvc := services.NewCartService(cartRepo, repos.NewProductRepo(db), repos.NewLoyaltyRepo(db))
	checkoutSvc := services.NewCheckoutService(cartRepo, repos.NewOrderRepo(db), repos.NewLoyaltyRepo(db))

	if err := cartSvc.Add(uid, pid, 1); err != nil {
		t.Fatal(err)
	}

	// force the invoice insert to fail
	if _, err := db.Exec(`DROP TABLE invoices`); err != nil {
		t.Fatal(err)
	}

	details := services.ShippingDetails{
		FirstName: "R", LastName: "B", Address: "X",
		City: "Y", Province: "Z", Zip: "1234", PaymentMethod: "card",
	}
	if _, err := checkoutSvc.Place(uid, details); err == nil {
		t.Fatal("checkout should fail without the invoices table")
	}

	var orders int
	_ = db.Get(&orders, `SELECT COUNT(*) FROM orders`)
	if orders != 0 {
		t.Fatalf("no order may survive a failed checkout, found %d", orders)
	}
	var stock int
	_ = db.Get(&stock, `SELECT stock FROM products WHERE id=?`, pid)
	if stock != 5 {
		t.Fatalf("stock decrement must roll back, got %d", stock)
	}
	cv, _ := cartSvc.View(uid)
	if len(cv.Lines) != 1 {
		t.Fatalf("cart must survive a failed checkout, got %+v", cv.Lines)
	}
}

// Redeemed points must be settled in the same transaction as the order.
func TestCheckout_RedeemsPoints(t *testing.T) {
	db := newTestDB(t)
	uid := addUser(t, db, "loyal@test.local")
	pid := addProduct(t, db, domain.Product{Title: "Galaxy S22", Price: 600, Category: "Smartphones", Stock: 5})

	if _, err := db.Exec(`INSERT INTO loyalty_points(user_id, points) VALUES(?, 50)`, uid); err != nil {
		t.Fatal(err)
	}

	cartRepo := repos.NewCartRepo(db)
	loyaltyRepo := repos.NewLoyaltyRepo(db)
	cartSvc := services.NewCartService(cartRepo, repos.NewProductRepo(db), loyaltyRepo)
	checkoutSvc := services.NewCheckoutService(cartRepo, repos.NewOrderRepo(db), loyaltyRepo)

	if err := cartSvc.Add(uid, pid, 1); err != nil {
		t.Fatal(err)
	}
	result, err := checkoutSvc.Place(uid, services.ShippingDetails{
		FirstName: "L", LastName: "B", Address: "X",
		City: "Y", Province: "Z", Zip: "1234", PaymentMethod: "card",
	})
	if err != nil {
		t.Fatal(err)
	}

	// 600 + 90 tax - 5 loyalty (50 points at 0.10 each, under the 10% cap)
	if result.Totals.LoyaltyDiscount != 5 {
		t.Fatalf("want loyalty discount 5, got %v", result.Totals.LoyaltyDiscount)
	}
	if result.Totals.Total != 685 {
		t.Fatalf("want total 685, got %v", result.Totals.Total)
	}

	// balance: 50 - 50 redeemed + 68 earned
	points, _ := loyaltyRepo.Points(uid)
	want := 50 - 50 + services.PointsEarned(685)
	if points != want {
		t.Fatalf("want %d points after checkout, got %d", want, points)
	}
}
