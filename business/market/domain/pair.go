// Package domain contains the core domain types for the market context.
package domain

import (
	"fmt"
	"strings"
)

// TokenPair is an ordered (base, quote) symbol pair. Equality is
// order-sensitive: SOL/USDC and USDC/SOL are different pairs.
type TokenPair struct {
	Base  string
	Quote string
}

// NewTokenPair creates a pair with upper-cased symbols.
func NewTokenPair(base, quote string) TokenPair {
	return TokenPair{
		Base:  strings.ToUpper(strings.TrimSpace(base)),
		Quote: strings.ToUpper(strings.TrimSpace(quote)),
	}
}

// ParseTokenPair parses a "BASE/QUOTE" string.
func ParseTokenPair(s string) (TokenPair, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return TokenPair{}, fmt.Errorf("invalid token pair %q, want BASE/QUOTE", s)
	}
	return NewTokenPair(parts[0], parts[1]), nil
}

// Symbol renders the canonical "BASE/QUOTE" form used as a map key everywhere.
func (p TokenPair) Symbol() string {
	return p.Base + "/" + p.Quote
}

// String implements fmt.Stringer.
func (p TokenPair) String() string {
	return p.Symbol()
}
