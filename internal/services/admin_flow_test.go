package services_test

import (
	"testing"

	"thrifttech/internal/domain"
	"thrifttech/internal/repos"
	"thrifttech/internal/services"
)

func TestProductDelete_HardWhenUnreferenced(t *testing.T) {
	db := newTestDB(t)
	uid := addUser(t, db, "shopper@test.local")
	pid := addProduct(t, db, domain.Product{Title: "Fresh Item", Price: 100, Category: "Electronics"})

	// sitting in a cart is not history; the row still hard-deletes
	if _, err := db.Exec(`INSERT INTO cart_items(user_id, product_id, qty) VALUES(?,?,1)`, uid, pid); err != nil {
		t.Fatal(err)
	}

	prodRepo := repos.NewProductRepo(db)
	soft, err := prodRepo.Delete(pid)
	if err != nil {
		t.Fatal(err)
	}
	if soft {
		t.Fatal("unreferenced product should hard-delete")
	}

	var n int
	_ = db.Get(&n, `SELECT COUNT(*) FROM products WHERE id=?`, pid)
	if n != 0 {
		t.Fatal("product row should be gone")
	}
	_ = db.Get(&n, `SELECT COUNT(*) FROM cart_items WHERE product_id=?`, pid)
	if n != 0 {
		t.Fatal("cart lines for a deleted product must be purged")
	}
}

func TestProductDelete_SoftWithHistory(t *testing.T) {
	db := newTestDB(t)
	uid := addUser(t, db, "historian@test.local")
	pid := addProduct(t, db, domain.Product{Title: "Sold Once", Price: 900, Category: "Cameras"})

	cartRepo := repos.NewCartRepo(db)
	cartSvc := services.NewCartService(cartRepo, repos.NewProductRepo(db), repos.NewLoyaltyRepo(db))
	checkoutSvc := services.NewCheckoutService(cartRepo, repos.NewOrderRepo(db), repos.NewLoyaltyRepo(db))

	if err := cartSvc.Add(uid, pid, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := checkoutSvc.Place(uid, services.ShippingDetails{
		FirstName: "H", LastName: "B", Address: "X",
		City: "Y", Province: "Z", Zip: "1234", PaymentMethod: "card",
	}); err != nil {
		t.Fatal(err)
	}

	prodRepo := repos.NewProductRepo(db)
	soft, err := prodRepo.Delete(pid)
	if err != nil {
		t.Fatal(err)
	}
	if !soft {
		t.Fatal("ordered product must soft-delete")
	}

	p, err := prodRepo.Get(pid)
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != "unavailable" {
		t.Fatalf("want retired product, got status %s", p.Status)
	}

	// order history still resolves the title
	var items int
	_ = db.Get(&items, `SELECT COUNT(*) FROM order_items WHERE product_id=?`, pid)
	if items != 1 {
		t.Fatal("order history must survive the delete")
	}
}

func TestUserDelete_KeepsAuditTrail(t *testing.T) {
	db := newTestDB(t)
	uid := addUser(t, db, "leaver@test.local")
	pid := addProduct(t, db, domain.Product{Title: "Bought Item", Price: 800, Category: "Tablets"})

	cartRepo := repos.NewCartRepo(db)
	cartSvc := services.NewCartService(cartRepo, repos.NewProductRepo(db), repos.NewLoyaltyRepo(db))
	checkoutSvc := services.NewCheckoutService(cartRepo, repos.NewOrderRepo(db), repos.NewLoyaltyRepo(db))

	if err := cartSvc.Add(uid, pid, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := checkoutSvc.Place(uid, services.ShippingDetails{
		FirstName: "L", LastName: "B", Address: "X",
		City: "Y", Province: "Z", Zip: "1234", PaymentMethod: "card",
	}); err != nil {
		t.Fatal(err)
	}
	// leave something in the cart too
	if err := cartSvc.Add(uid, pid, 1); err != nil {
		t.Fatal(err)
	}

	userRepo := repos.NewUserRepo(db)
	if err := userRepo.DeleteCascade(uid); err != nil {
		t.Fatal(err)
	}

	var n int
	_ = db.Get(&n, `SELECT COUNT(*) FROM users WHERE id=?`, uid)
	if n != 0 {
		t.Fatal("user row should be gone")
	}
	_ = db.Get(&n, `SELECT COUNT(*) FROM cart_items WHERE user_id=?`, uid)
	if n != 0 {
		t.Fatal("cart must be purged with the account")
	}
	_ = db.Get(&n, `SELECT COUNT(*) FROM loyalty_points WHERE user_id=?`, uid)
	if n != 0 {
		t.Fatal("loyalty balance must be purged with the account")
	}
	// orders and invoices stay for audit
	_ = db.Get(&n, `SELECT COUNT(*) FROM orders WHERE user_id=?`, uid)
	if n != 1 {
		t.Fatalf("order history must survive account deletion, got %d", n)
	}
	_ = db.Get(&n, `SELECT COUNT(*) FROM invoices WHERE user_id=?`, uid)
	if n != 1 {
		t.Fatalf("invoice history must survive account deletion, got %d", n)
	}
}

func TestUserDelete_NeverRemovesAdmins(t *testing.T) {
	db := newTestDB(t)
	res, err := db.Exec(`
		INSERT INTO users(full_name, username, email, password_hash, role)
		VALUES('Root', 'root', 'root@test.local', 'x', 'admin')
	`)
	if err != nil {
		t.Fatal(err)
	}
	adminID, _ := res.LastInsertId()

	userRepo := repos.NewUserRepo(db)
	if err := userRepo.DeleteCascade(adminID); err != nil {
		t.Fatal(err)
	}
	var n int
	_ = db.Get(&n, `SELECT COUNT(*) FROM users WHERE id=?`, adminID)
	if n != 1 {
		t.Fatal("admin accounts must not be deletable through the cascade")
	}
}
