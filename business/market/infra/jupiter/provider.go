// Package jupiter implements a PriceSource over the Jupiter price API.
package jupiter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/solarb/solarb/business/market/domain"
	"github.com/solarb/solarb/internal/apperror"
)

// halfSpreadBps synthesizes bid/ask around the API's single price point.
// Jupiter's price endpoint returns one aggregate price per token; the
// detector needs a bid/ask pair, so we widen by a conservative half spread.
const halfSpreadBps = 5

// priceResponse is the shape of the Jupiter price API v2 payload.
type priceResponse struct {
	Data map[string]struct {
		ID    string `json:"id"`
		Price string `json:"price"`
	} `json:"data"`
}

// Provider fetches token prices from the Jupiter aggregator.
type Provider struct {
	client  *resty.Client
	limiter *rate.Limiter
}

// New creates a Jupiter provider against the given base URL.
func New(baseURL string, timeout time.Duration, requestsPerSecond int) *Provider {
	if requestsPerSecond <= 0 {
		// Jupiter's public tier allows 600 req/min; stay well under it.
		requestsPerSecond = 5
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)

	return &Provider{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// Name implements app.PriceSource.
func (p *Provider) Name() string { return string(domain.VenueJupiter) }

// GetPrices fetches USD prices for every token referenced by the pairs and
// derives cross-pair quotes from the ratio.
func (p *Provider) GetPrices(ctx context.Context, pairs []domain.TokenPair) ([]domain.Quote, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	tokens := collectTokens(pairs)

	var body priceResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("ids", strings.Join(tokens, ",")).
		SetResult(&body).
		Get("")
	if err != nil {
		return nil, apperror.Transient(apperror.CodeVenueConnectionFailed, "jupiter", err)
	}
	if resp.IsError() {
		return nil, apperror.Transient(apperror.CodeVenueAPIError,
			fmt.Sprintf("jupiter status %d", resp.StatusCode()), nil)
	}

	usd := make(map[string]decimal.Decimal, len(body.Data))
	for token, entry := range body.Data {
		price, err := decimal.NewFromString(entry.Price)
		if err != nil || !price.IsPositive() {
			continue
		}
		usd[strings.ToUpper(token)] = price
	}

	halfSpread := decimal.NewFromInt(halfSpreadBps).Div(decimal.NewFromInt(10000))
	one := decimal.NewFromInt(1)

	var quotes []domain.Quote
	for _, pair := range pairs {
		basePrice, okBase := usd[pair.Base]
		quotePrice, okQuote := usd[pair.Quote]
		if !okBase || !okQuote || quotePrice.IsZero() {
			continue
		}

		mid := basePrice.Div(quotePrice)
		q := domain.NewQuote(domain.VenueJupiter, pair,
			mid.Mul(one.Sub(halfSpread)),
			mid.Mul(one.Add(halfSpread)),
		)
		quotes = append(quotes, q)
	}

	return quotes, nil
}

func collectTokens(pairs []domain.TokenPair) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, pair := range pairs {
		for _, sym := range []string{pair.Base, pair.Quote} {
			if !seen[sym] {
				seen[sym] = true
				tokens = append(tokens, sym)
			}
		}
	}
	return tokens
}
