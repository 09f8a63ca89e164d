package services_test

import (
	"testing"

	"thrifttech/internal/domain"
	"thrifttech/internal/repos"
	"thrifttech/internal/services"
)

func TestCatalogList_AllowListOnly(t *testing.T) {
	db := newTestDB(t)
	addProduct(t, db, domain.Product{Title: "iPhone 12", Price: 6000, Category: "Smartphones"})
	addProduct(t, db, domain.Product{Title: "Leather Couch", Price: 4000, Category: "Furniture"})
	addProduct(t, db, domain.Product{Title: "Camera Kit", Price: 9000, Category: "Camera Rental"})

	svc := services.NewCatalogService(repos.NewProductRepo(db))
	products, err := svc.List("", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 1 || products[0].Title != "iPhone 12" {
		t.Fatalf("only allow-listed non-rental tech may list, got %+v", products)
	}

	// a category off the allow-list never lists, even when asked for directly
	products, err = svc.List("Furniture", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 0 {
		t.Fatalf("furniture must never appear, got %+v", products)
	}
}

func TestCatalogList_Sorting(t *testing.T) {
	db := newTestDB(t)
	addProduct(t, db, domain.Product{Title: "Bravo", Price: 300, Category: "Laptops"})
	addProduct(t, db, domain.Product{Title: "Alpha", Price: 900, Category: "Laptops"})
	addProduct(t, db, domain.Product{Title: "Charlie", Price: 600, Category: "Laptops"})

	svc := services.NewCatalogService(repos.NewProductRepo(db))

	products, err := svc.List("", "title", "asc")
	if err != nil {
		t.Fatal(err)
	}
	if products[0].Title != "Alpha" || products[2].Title != "Charlie" {
		t.Fatalf("bad title sort: %+v", products)
	}

	products, _ = svc.List("", "price", "desc")
	if products[0].Price != 900 || products[2].Price != 300 {
		t.Fatalf("bad price desc sort: %+v", products)
	}
}

func TestCatalogList_CaseInsensitiveCategory(t *testing.T) {
	db := newTestDB(t)
	addProduct(t, db, domain.Product{Title: "Tab S8", Price: 8000, Category: "Tablets"})

	svc := services.NewCatalogService(repos.NewProductRepo(db))
	products, err := svc.List("tablets", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 1 {
		t.Fatalf("category match must ignore case, got %+v", products)
	}
}

func TestCatalogRentals_ResolvesRates(t *testing.T) {
	db := newTestDB(t)
	stored := 650.0
	addProduct(t, db, domain.Product{Title: "A7 III", Price: 28000, Category: "Camera Rental", DailyRate: &stored})
	addProduct(t, db, domain.Product{Title: "Quest 3", Price: 9000, Category: "VR Rental"})
	addProduct(t, db, domain.Product{Title: "PS5", Price: 11000, Category: "Gaming Console"})

	svc := services.NewCatalogService(repos.NewProductRepo(db))
	rentals, err := svc.Rentals()
	if err != nil {
		t.Fatal(err)
	}
	if len(rentals) != 2 {
		t.Fatalf("only rental categories belong here, got %+v", rentals)
	}
	for _, p := range rentals {
		if p.DailyRate == nil {
			t.Fatalf("every rental needs a resolved rate: %+v", p)
		}
		switch p.Title {
		case "A7 III":
			if *p.DailyRate != 650 {
				t.Fatalf("stored rate must win, got %v", *p.DailyRate)
			}
		case "Quest 3":
			if *p.DailyRate != 450 { // 5% of 9000
				t.Fatalf("want derived rate 450, got %v", *p.DailyRate)
			}
		}
	}
}

func TestCatalogRecommendations(t *testing.T) {
	db := newTestDB(t)
	var base domain.Product
	for _, title := range []string{"L1", "L2", "L3", "L4", "L5", "L6"} {
		id := addProduct(t, db, domain.Product{Title: title, Price: 5000, Category: "Laptops"})
		if title == "L1" {
			base = domain.Product{ID: id, Title: title, Category: "Laptops"}
		}
	}

	svc := services.NewCatalogService(repos.NewProductRepo(db))
	recs, err := svc.Recommendations(base)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 4 {
		t.Fatalf("want at most 4 recommendations, got %d", len(recs))
	}
	for _, r := range recs {
		if r.ID == base.ID {
			t.Fatal("a product must not recommend itself")
		}
	}
}
