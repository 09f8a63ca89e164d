package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"thrifttech/internal/domain"
	"thrifttech/internal/repos"
)

// MinIncrement is the least amount a new bid must exceed the current bid by.
const MinIncrement = 100.0

const auctionDuration = 3 * 24 * time.Hour

var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrAuctionEnded    = errors.New("this auction has ended")
	// ErrOutbid: the bid cleared the minimum we validated against, but a
	// concurrent bid landed first.
	ErrOutbid = errors.New("someone outbid you, refresh and try again")
)

// MinBidError rejects a low bid and carries the exact minimum for the
// user-facing message.
type MinBidError struct{ Min float64 }

func (e MinBidError) Error() string { return fmt.Sprintf("minimum bid is R%.2f", e.Min) }

type AuctionService struct {
	Auctions *repos.AuctionRepo
}

func NewAuctionService(auctions *repos.AuctionRepo) *AuctionService {
	return &AuctionService{Auctions: auctions}
}

// Bid applies the acceptance rule: base is the current bid when positive,
// else the starting bid, and the proposal must reach base + MinIncrement.
// The write itself is a compare-and-set, so of two concurrent bids that both
// validated against the same snapshot exactly one wins and the other gets
// ErrOutbid. Equal amounts: first committed wins.
func (s *AuctionService) Bid(auctionID, bidderID int64, amount float64) error {
	a, err := s.Auctions.Get(auctionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAuctionNotFound
		}
		return err
	}
	if a.Status != "active" || !endsAfterNow(a.EndTime) {
		return ErrAuctionEnded
	}

	base := a.StartingBid
	if a.CurrentBid != nil && *a.CurrentBid > 0 {
		base = *a.CurrentBid
	}
	minBid := base + MinIncrement
	if amount < minBid {
		return MinBidError{Min: minBid}
	}

	ok, err := s.Auctions.PlaceBid(auctionID, bidderID, amount, MinIncrement)
	if err != nil {
		return err
	}
	if !ok {
		// The row moved between our read and the conditional write. If the
		// auction expired in the meantime, report that instead.
		if a, err := s.Auctions.Get(auctionID); err == nil && !endsAfterNow(a.EndTime) {
			return ErrAuctionEnded
		}
		return ErrOutbid
	}
	return nil
}

// ListActive returns running auctions with a friendly time-left string.
func (s *AuctionService) ListActive() ([]domain.Auction, error) {
	auctions, err := s.Auctions.ListActive(AuctionCategories())
	if err != nil {
		return nil, err
	}
	for i := range auctions {
		auctions[i].TimeLeft = timeLeft(auctions[i].EndTime)
	}
	return auctions, nil
}

// Seed tops the active pool up to minActive; safe to call on every listing.
func (s *AuctionService) Seed(minActive int) error {
	return s.Auctions.SeedActive(minActive, AuctionCategories(), auctionDuration)
}

func endsAfterNow(endTime string) bool {
	t, err := time.Parse(time.RFC3339, endTime)
	return err == nil && t.After(time.Now().UTC())
}

func timeLeft(endTime string) string {
	t, err := time.Parse(time.RFC3339, endTime)
	if err != nil {
		return ""
	}
	d := time.Until(t)
	if d < 0 {
		return "Ended"
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60
	parts := []string{}
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	parts = append(parts, fmt.Sprintf("%dm", mins))
	return strings.Join(parts, " ")
}
