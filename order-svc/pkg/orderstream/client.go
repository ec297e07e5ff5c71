// Package orderstream follows a shop's live order feed the way a back-office
// screen does: it keeps one SSE connection open, reconnects with backoff,
// falls back to polling when the stream stays down, and refetches the full
// order list whenever it may have missed something.
package orderstream

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chuoois/FoodWeb-sub001/events"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrStreamIdle       = errors.New("no data from order stream")
)

type Config struct {
	BaseURL string
	Token   string
	// ShopID selects the shop for staff who manage several; zero uses the
	// shop on the session.
	ShopID int64

	HTTPClient   *http.Client
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	MaxRetries   int
	PollInterval time.Duration
	// IdleTimeout drops a connection that has delivered nothing, heartbeats
	// included, for this long. Keep it a few heartbeat periods wide.
	IdleTimeout  time.Duration
	SnapshotSize int
	Logger       *zerolog.Logger
}

func (c Config) withDefaults() Config {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 8
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 10 * time.Second
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 45 * time.Second
	}
	if c.SnapshotSize <= 0 {
		c.SnapshotSize = 200
	}
	if c.Logger == nil {
		c.Logger = &log.Logger
	}
	return c
}

// NewBackOff returns the reconnect schedule: exponential from BaseDelay,
// capped at MaxDelay, jittered by half either way, and exhausted after
// MaxRetries attempts.
func (c Config) NewBackOff() backoff.BackOff {
	c = c.withDefaults()
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.BaseDelay
	b.MaxInterval = c.MaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0.5
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithMaxRetries(b, uint64(c.MaxRetries))
}

// Order is the slice of an order a staff screen lists.
type Order struct {
	ID            int64     `json:"id"`
	ShopID        int64     `json:"shop_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	TotalAmount   int64     `json:"total_amount"`
	Progress      int       `json:"progress"`
	Version       int       `json:"version"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Update is either one live event or a full snapshot that replaces whatever
// the caller holds.
type Update struct {
	Event    *events.OrderEvent
	Snapshot []Order
}

type Client struct {
	cfg      Config
	retry    backoff.BackOff
	lastSeq  int64
	failures int
	polling  bool
}

func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{cfg: cfg, retry: cfg.NewBackOff()}
}

// LastSeq is the sequence number of the last event delivered.
func (c *Client) LastSeq() int64 {
	return c.lastSeq
}

// Run delivers updates until ctx is done.
func (c *Client) Run(ctx context.Context, updates chan<- Update) error {
	logger := c.cfg.Logger
	for {
		err := c.follow(ctx, updates)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.failures++
		logger.Warn().Err(err).Int("failures", c.failures).Int64("last_seq", c.lastSeq).Msg("order stream dropped")

		wait := c.retry.NextBackOff()
		if wait == backoff.Stop {
			if !c.polling {
				logger.Warn().Int("max_retries", c.cfg.MaxRetries).Msg("stream unavailable, falling back to polling")
				c.polling = true
			}
			if err := c.refetch(ctx, updates); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Error().Err(err).Msg("poll failed")
			}
			wait = c.cfg.PollInterval
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// follow opens one stream and reads it until it breaks or goes quiet for
// longer than IdleTimeout.
func (c *Client) follow(ctx context.Context, updates chan<- Update) error {
	streamCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	resp, err := c.open(streamCtx)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.failures = 0
	c.retry.Reset()
	if c.polling {
		c.cfg.Logger.Info().Msg("order stream recovered")
		c.polling = false
	}

	// A fresh client has nothing to resume from, so the list is loaded once
	// the subscription is live. Events queued meanwhile are applied on top.
	if c.lastSeq == 0 {
		if err := c.refetch(ctx, updates); err != nil {
			return err
		}
	}

	idle := time.AfterFunc(c.cfg.IdleTimeout, func() { cancel(ErrStreamIdle) })
	defer idle.Stop()

	reader := bufio.NewReader(&watchdogReader{r: resp.Body, timer: idle, timeout: c.cfg.IdleTimeout})
	for {
		frame, err := readFrame(reader)
		if err != nil {
			if cause := context.Cause(streamCtx); errors.Is(cause, ErrStreamIdle) {
				return cause
			}
			return err
		}
		if err := c.handle(ctx, frame, updates); err != nil {
			return err
		}
	}
}

func (c *Client) open(ctx context.Context) (*http.Response, error) {
	query := url.Values{}
	if c.cfg.ShopID > 0 {
		query.Set("shop_id", strconv.FormatInt(c.cfg.ShopID, 10))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/ordersManage/sse?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	if c.lastSeq > 0 {
		req.Header.Set("Last-Event-ID", strconv.FormatInt(c.lastSeq, 10))
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return resp, nil
}

func (c *Client) handle(ctx context.Context, f frame, updates chan<- Update) error {
	if f.event == events.TypeResync {
		c.cfg.Logger.Info().Int64("last_seq", c.lastSeq).Str("head", f.id).Msg("server asked for resync")
		if seq, err := strconv.ParseInt(f.id, 10, 64); err == nil {
			c.lastSeq = seq
		}
		return c.refetch(ctx, updates)
	}

	var event events.OrderEvent
	if err := json.Unmarshal([]byte(f.data), &event); err != nil {
		c.cfg.Logger.Warn().Err(err).Str("event", f.event).Msg("skipping unreadable event")
		return nil
	}
	if seq, err := strconv.ParseInt(f.id, 10, 64); err == nil {
		event.Seq = seq
	}

	switch {
	case event.Seq <= c.lastSeq:
		return nil
	case c.lastSeq > 0 && event.Seq > c.lastSeq+1:
		c.cfg.Logger.Info().Int64("last_seq", c.lastSeq).Int64("seq", event.Seq).Msg("sequence gap, refetching orders")
		c.lastSeq = event.Seq
		return c.refetch(ctx, updates)
	}

	c.lastSeq = event.Seq
	return deliver(ctx, updates, Update{Event: &event})
}

// Snapshot fetches the shop's current order list.
func (c *Client) Snapshot(ctx context.Context) ([]Order, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(c.cfg.SnapshotSize))
	if c.cfg.ShopID > 0 {
		query.Set("shop_id", strconv.FormatInt(c.cfg.ShopID, 10))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/ordersManage?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var orders []Order
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

func (c *Client) refetch(ctx context.Context, updates chan<- Update) error {
	orders, err := c.Snapshot(ctx)
	if err != nil {
		return err
	}
	return deliver(ctx, updates, Update{Snapshot: orders})
}

func deliver(ctx context.Context, updates chan<- Update, update Update) error {
	select {
	case updates <- update:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// watchdogReader pushes the idle deadline back whenever bytes arrive.
type watchdogReader struct {
	r       io.Reader
	timer   *time.Timer
	timeout time.Duration
}

func (w *watchdogReader) Read(p []byte) (int, error) {
	n, err := w.r.Read(p)
	if n > 0 {
		w.timer.Reset(w.timeout)
	}
	return n, err
}

type frame struct {
	id    string
	event string
	data  string
}

// readFrame returns the next dispatched SSE event. Comment lines and frames
// without data are skipped.
func readFrame(reader *bufio.Reader) (frame, error) {
	var f frame
	var data []string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return f, io.ErrUnexpectedEOF
			}
			return f, err
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if len(data) > 0 || f.event == events.TypeResync {
				f.data = strings.Join(data, "\n")
				return f, nil
			}
			f = frame{}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "id":
			f.id = value
		case "event":
			f.event = value
		case "data":
			data = append(data, value)
		}
	}
}
