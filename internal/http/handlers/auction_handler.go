package handlers

import (
	"errors"
	"net/url"

	applog "thrifttech/internal/log"
	"thrifttech/internal/services"
	"thrifttech/internal/validate"

	"github.com/gofiber/fiber/v2"
)

const minActiveAuctions = 6

type AuctionHandler struct {
	Auctions *services.AuctionService
}

// Page tops the auction pool up and lists the running auctions. Seeding is
// idempotent, so rendering the page concurrently is fine.
func (h *AuctionHandler) Page(c *fiber.Ctx) error {
	if err := h.Auctions.Seed(minActiveAuctions); err != nil {
		applog.Error(c, "auction.seed.fail", err, nil)
	}
	auctions, err := h.Auctions.ListActive()
	if err != nil {
		applog.Error(c, "auction.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load auctions"})
	}
	return render(c, "auction", fiber.Map{
		"Auctions":     auctions,
		"MinIncrement": services.MinIncrement,
		"Err":          c.Query("err"),
	})
}

func auctionRedirect(c *fiber.Ctx, msg string) error {
	return c.Redirect("/auction?err=" + url.QueryEscape(msg))
}

// Bid places a bid; rejections carry the exact reason back to the page.
func (h *AuctionHandler) Bid(c *fiber.Ctx) error {
	u := currentUser(c)
	auctionID, ok := validate.ID(c.FormValue("auctionId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "auctionId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing auctionId")
	}
	amount, ok := validate.Price(c.FormValue("amount"))
	if !ok {
		return auctionRedirect(c, "invalid bid amount")
	}

	err := h.Auctions.Bid(auctionID, u.ID, amount)
	if err == nil {
		applog.Audit(c, "auction.bid", map[string]any{"auction_id": auctionID, "amount": amount})
		return c.Redirect("/auction")
	}

	var minBid services.MinBidError
	switch {
	case errors.Is(err, services.ErrAuctionNotFound):
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Auction not found"})
	case errors.As(err, &minBid), errors.Is(err, services.ErrAuctionEnded), errors.Is(err, services.ErrOutbid):
		applog.Info(c, "auction.bid.rejected", map[string]any{"auction_id": auctionID, "reason": err.Error()})
		return auctionRedirect(c, err.Error())
	default:
		applog.Error(c, "auction.bid.fail", err, map[string]any{"auction_id": auctionID})
		return c.Status(fiber.StatusInternalServerError).SendString("could not place bid")
	}
}
