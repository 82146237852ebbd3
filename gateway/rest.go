// Package gateway gives the venue-side interfaces in spec §6 one real,
// reference-grade implementation to compile against: a rate-limited REST
// client for history/order submission and a resilient websocket tick
// feed. Neither is production exchange connectivity (that is explicitly
// out of scope, spec §1) — they exist so C6's outbound/inbound contracts
// are exercised end to end.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/nyxtrade/tradecore/tradeerr"
	"github.com/nyxtrade/tradecore/types"
)

// RESTClient is an outbound venue client: query historical bars, send and
// cancel orders. Results for send/cancel are fire-and-forget — the real
// outcome arrives later over the inbound feed, per spec §6's "fallible,
// asynchronous" gateway contract.
type RESTClient struct {
	http    *resty.Client
	limiter *rate.Limiter
}

// NewRESTClient returns a client against baseURL, throttled to
// ratePerSecond outbound requests (a burst of 1), the minimum a real venue
// integration needs to avoid tripping exchange rate limits.
func NewRESTClient(baseURL string, ratePerSecond float64) *RESTClient {
	return &RESTClient{
		http:    resty.New().SetBaseURL(baseURL).SetTimeout(10 * time.Second),
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), 1),
	}
}

// QueryHistory fetches bars for sym between start and end at the given
// interval, per the §6 historical-data record shape.
func (c *RESTClient) QueryHistory(ctx context.Context, sym types.Symbol, interval types.Interval, start, end time.Time) ([]types.Bar, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var bars []types.Bar
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":    sym.String(),
			"interval":  string(interval),
			"start":     start.Format(time.RFC3339),
			"end":       end.Format(time.RFC3339),
		}).
		SetResult(&bars).
		Get("/history")
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("query history: HTTP %d", resp.StatusCode())
	}
	return bars, nil
}

// sendOrderRequest is the outbound order submission body.
type sendOrderRequest struct {
	Symbol    string          `json:"symbol"`
	Direction string          `json:"direction"`
	Offset    string          `json:"offset"`
	Price     decimal.Decimal `json:"price"`
	Volume    decimal.Decimal `json:"volume"`
}

// SendOrder submits o to the venue. It does not return a fill or even
// acceptance; the venue's response arrives asynchronously over the
// inbound feed, per spec §6.
func (c *RESTClient) SendOrder(ctx context.Context, o types.Order) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sendOrderRequest{
			Symbol:    o.Symbol.String(),
			Direction: string(o.Direction),
			Offset:    string(o.Offset),
			Price:     o.Price,
			Volume:    o.Volume,
		}).
		Post("/orders")
	if err != nil {
		return fmt.Errorf("send order: %w", err)
	}
	if resp.IsError() {
		return tradeerr.InvalidOrder
	}
	return nil
}

// CancelOrder requests cancellation of orderID.
func (c *RESTClient) CancelOrder(ctx context.Context, orderID string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/orders/" + orderID)
	if err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	if resp.IsError() {
		return tradeerr.NotFound
	}
	return nil
}
