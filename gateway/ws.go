package gateway

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/nyxtrade/tradecore/types"
)

const wsReconnectDelay = 5 * time.Second

// wireTick is the venue's wire shape for a tick message.
type wireTick struct {
	Symbol    string          `json:"symbol"`
	LastPrice decimal.Decimal `json:"last_price"`
	Volume    decimal.Decimal `json:"volume"`
	BidPrice  decimal.Decimal `json:"bid_price"`
	BidVolume decimal.Decimal `json:"bid_volume"`
	AskPrice  decimal.Decimal `json:"ask_price"`
	AskVolume decimal.Decimal `json:"ask_volume"`
	Timestamp int64           `json:"timestamp"` // unix millis
}

// WSFeed subscribes to a venue's tick stream over websocket and delivers
// types.Tick values on a channel. Per-symbol ordering is preserved
// (ticks for one symbol arrive on the wire connection in order); nothing
// here reaches into engine state directly — readers only ever send onto
// the output channel, per spec §5's concurrency model.
type WSFeed struct {
	url string

	mu      sync.Mutex
	conn    *websocket.Conn
	running bool
	stopCh  chan struct{}

	out chan types.Tick
}

// NewWSFeed returns a feed that will dial url once Start is called.
func NewWSFeed(url string) *WSFeed {
	return &WSFeed{
		url:    url,
		stopCh: make(chan struct{}),
		out:    make(chan types.Tick, 1024),
	}
}

// Ticks returns the channel ticks are delivered on. Never closed while
// the feed is running; closed once Stop completes.
func (f *WSFeed) Ticks() <-chan types.Tick {
	return f.out
}

// Start dials url and begins the read loop in a background goroutine,
// reconnecting with a fixed backoff on any read error until Stop is
// called.
func (f *WSFeed) Start() {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return
	}
	f.running = true
	f.mu.Unlock()

	go f.connectionLoop()
}

// Stop ends the read loop and closes the output channel.
func (f *WSFeed) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return
	}
	f.running = false
	close(f.stopCh)
	if f.conn != nil {
		f.conn.Close()
	}
	close(f.out)
}

func (f *WSFeed) connectionLoop() {
	for {
		select {
		case <-f.stopCh:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(f.url, nil)
		if err != nil {
			log.Warn().Err(err).Str("url", f.url).Msg("gateway: websocket dial failed, retrying")
			time.Sleep(wsReconnectDelay)
			continue
		}

		f.mu.Lock()
		f.conn = conn
		f.mu.Unlock()

		f.readLoop(conn)

		select {
		case <-f.stopCh:
			return
		default:
			time.Sleep(wsReconnectDelay)
		}
	}
}

func (f *WSFeed) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Warn().Err(err).Msg("gateway: websocket read failed")
			return
		}

		var wt wireTick
		if err := json.Unmarshal(data, &wt); err != nil {
			continue
		}
		sym, err := types.ParseSymbol(wt.Symbol)
		if err != nil {
			continue
		}

		tick := types.Tick{
			Symbol:     sym,
			Datetime:   time.UnixMilli(wt.Timestamp),
			LastPrice:  wt.LastPrice,
			LastVolume: wt.Volume,
			BidPrice:   wt.BidPrice,
			BidVolume:  wt.BidVolume,
			AskPrice:   wt.AskPrice,
			AskVolume:  wt.AskVolume,
		}

		select {
		case f.out <- tick:
		case <-f.stopCh:
			return
		}
	}
}
