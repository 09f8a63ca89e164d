package handlers

import (
	"thrifttech/internal/config"
	"thrifttech/internal/repos"
	"thrifttech/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	CatalogHandler  *CatalogHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	RentalHandler   *RentalHandler
	AuctionHandler  *AuctionHandler
	AdminHandler    *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	invoiceRepo := repos.NewInvoiceRepo(db)
	loyaltyRepo := repos.NewLoyaltyRepo(db)
	rentalRepo := repos.NewRentalRepo(db)
	auctionRepo := repos.NewAuctionRepo(db)
	reportRepo := repos.NewReportRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo, loyaltyRepo)
	checkoutSvc := services.NewCheckoutService(cartRepo, orderRepo, loyaltyRepo)
	rentalSvc := services.NewRentalService(rentalRepo, prodRepo)
	auctionSvc := services.NewAuctionService(auctionRepo)
	reportSvc := services.NewReportService(reportRepo)

	return &Deps{
		CatalogHandler: &CatalogHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		CheckoutHandler: &CheckoutHandler{
			Cart:     cartSvc,
			Checkout: checkoutSvc,
			Orders:   orderRepo,
			Invoices: invoiceRepo,
			Loyalty:  loyaltyRepo,
		},
		RentalHandler:  &RentalHandler{Rentals: rentalSvc, Catalog: catalogSvc},
		AuctionHandler: &AuctionHandler{Auctions: auctionSvc},
		AdminHandler: &AdminHandler{
			Prods:   prodRepo,
			Users:   userRepo,
			Reports: reportSvc,
		},
	}
}
