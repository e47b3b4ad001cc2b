package domain

import "github.com/shopspring/decimal"

// Venue identifies a decentralized exchange acting as a price source.
type Venue string

// Supported venues.
const (
	VenueJupiter  Venue = "jupiter"
	VenueRaydium  Venue = "raydium"
	VenueOrca     Venue = "orca"
	VenueLifinity Venue = "lifinity"
	VenueMeteora  Venue = "meteora"
	VenuePhoenix  Venue = "phoenix"
)

// AllVenues lists every supported venue, used for coverage validation.
func AllVenues() []Venue {
	return []Venue{VenueJupiter, VenueRaydium, VenueOrca, VenueLifinity, VenueMeteora, VenuePhoenix}
}

// venueFees holds per-venue taker fee percentages.
var venueFees = map[Venue]decimal.Decimal{
	VenueJupiter:  decimal.RequireFromString("0.30"),
	VenueRaydium:  decimal.RequireFromString("0.25"),
	VenueOrca:     decimal.RequireFromString("0.30"),
	VenueLifinity: decimal.RequireFromString("0.20"),
	VenueMeteora:  decimal.RequireFromString("0.25"),
	VenuePhoenix:  decimal.RequireFromString("0.10"),
}

// FeePercentage returns the venue's trading fee as a percentage (0.30 = 0.3%).
func (v Venue) FeePercentage() decimal.Decimal {
	if fee, ok := venueFees[v]; ok {
		return fee
	}
	return decimal.RequireFromString("0.30")
}

// DisplayName returns a human-readable venue name.
func (v Venue) DisplayName() string {
	switch v {
	case VenueJupiter:
		return "Jupiter"
	case VenueRaydium:
		return "Raydium"
	case VenueOrca:
		return "Orca"
	case VenueLifinity:
		return "Lifinity"
	case VenueMeteora:
		return "Meteora"
	case VenuePhoenix:
		return "Phoenix"
	default:
		return string(v)
	}
}
