package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/chuoois/FoodWeb-sub001/events"
	"github.com/chuoois/FoodWeb-sub001/httpx"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// lastEventID reads the resume point of a reconnecting client. EventSource
// sends the header itself; the query parameter serves clients that cannot.
func lastEventID(r *http.Request) int64 {
	raw := r.Header.Get("Last-Event-ID")
	if raw == "" {
		raw = r.URL.Query().Get("last_event_id")
	}
	seq, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || seq < 0 {
		return 0
	}
	return seq
}

func writeSSE(w http.ResponseWriter, event events.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", event.Seq, event.Type, payload)
	return err
}

func (h *Handler) streamOrders(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpx.Error(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ctx := r.Context()
	session := sessionOf(r)
	shopID, err := h.Orders.ResolveShop(ctx, session, int64(httpx.QueryInt(r, "shop_id", 0)))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	sub, err := h.Stream.Subscribe(ctx, shopID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer sub.Close()

	connID := uuid.NewString()
	logger := log.With().Str("conn_id", connID).Int64("shop_id", shopID).Int64("account_id", session.AccountID).Logger()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "retry: 3000\n: connected %s\n\n", connID)
	flusher.Flush()

	lastSent := lastEventID(r)
	if lastSent > 0 {
		replay, err := h.Stream.Replay(ctx, shopID, lastSent)
		if err != nil {
			logger.Error().Err(err).Msg("replay read failed")
			return
		}
		if replay.Gap {
			logger.Info().Int64("last_event_id", lastSent).Int64("head", replay.Head).Msg("replay gap, asking client to resync")
			resync := events.OrderEvent{Seq: replay.Head, Type: events.TypeResync, ShopID: shopID, OccurredAt: time.Now()}
			if err := writeSSE(w, resync); err != nil {
				return
			}
			lastSent = replay.Head
		}
		for _, event := range replay.Events {
			if err := writeSSE(w, event); err != nil {
				return
			}
			lastSent = event.Seq
		}
		flusher.Flush()
	}

	logger.Info().Int64("last_event_id", lastSent).Msg("order stream opened")
	defer logger.Info().Msg("order stream closed")

	heartbeat := time.NewTicker(h.Heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case event, ok := <-sub.Events():
			if !ok {
				logger.Warn().Msg("subscription ended")
				return
			}
			if event.Seq <= lastSent {
				continue
			}
			if err := writeSSE(w, event); err != nil {
				return
			}
			lastSent = event.Seq
			flusher.Flush()
		}
	}
}
