package services_test

import (
	"errors"
	"testing"
	"time"

	"thrifttech/internal/domain"
	"thrifttech/internal/repos"
	"thrifttech/internal/services"
)

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestRentalBook_TotalFromStoredRate(t *testing.T) {
	db := newTestDB(t)
	uid := addUser(t, db, "renter@test.local")
	rate := 200.0
	pid := addProduct(t, db, domain.Product{
		Title: "Sony A7 III", Price: 25000, Category: "Camera Rental", DailyRate: &rate,
	})

	svc := services.NewRentalService(repos.NewRentalRepo(db), repos.NewProductRepo(db))
	b, err := svc.Book(uid, pid, date("2024-01-01"), date("2024-01-04"))
	if err != nil {
		t.Fatal(err)
	}
	if b.Days != 3 || b.DailyRate != 200 || b.Total != 600 {
		t.Fatalf("want 3 days at 200 = 600, got %+v", b)
	}

	history, err := svc.History(uid)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].TotalCost != 600 || history[0].Status != "active" {
		t.Fatalf("bad history: %+v", history)
	}
}

func TestRentalBook_DerivedRate(t *testing.T) {
	db := newTestDB(t)
	uid := addUser(t, db, "renter2@test.local")

	// 5% of 10000 beats the 150 floor
	dear := addProduct(t, db, domain.Product{Title: "Drone", Price: 10000, Category: "Drone Rental"})
	// 5% of 1000 is 50, so the 150 floor wins
	cheap := addProduct(t, db, domain.Product{Title: "Speaker", Price: 1000, Category: "Audio Rental"})

	svc := services.NewRentalService(repos.NewRentalRepo(db), repos.NewProductRepo(db))

	b, err := svc.Book(uid, dear, date("2024-03-10"), date("2024-03-12"))
	if err != nil {
		t.Fatal(err)
	}
	if b.DailyRate != 500 || b.Total != 1000 {
		t.Fatalf("want derived rate 500, got %+v", b)
	}

	b, err = svc.Book(uid, cheap, date("2024-03-10"), date("2024-03-11"))
	if err != nil {
		t.Fatal(err)
	}
	if b.DailyRate != 150 || b.Total != 150 {
		t.Fatalf("want floor rate 150, got %+v", b)
	}
}

func TestRentalBook_BadRange(t *testing.T) {
	db := newTestDB(t)
	uid := addUser(t, db, "renter3@test.local")
	pid := addProduct(t, db, domain.Product{Title: "Projector", Price: 5000, Category: "AV Rental"})

	svc := services.NewRentalService(repos.NewRentalRepo(db), repos.NewProductRepo(db))

	// same day
	if _, err := svc.Book(uid, pid, date("2024-01-01"), date("2024-01-01")); !errors.Is(err, services.ErrBadDateRange) {
		t.Fatalf("want ErrBadDateRange, got %v", err)
	}
	// reversed
	if _, err := svc.Book(uid, pid, date("2024-01-05"), date("2024-01-01")); !errors.Is(err, services.ErrBadDateRange) {
		t.Fatalf("want ErrBadDateRange, got %v", err)
	}
	// unknown product
	if _, err := svc.Book(uid, 999, date("2024-01-01"), date("2024-01-02")); !errors.Is(err, services.ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound, got %v", err)
	}
}
