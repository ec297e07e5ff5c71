package domain

import "github.com/chuoois/FoodWeb-sub001/events"

// Subscription delivers live order events of one shop.
type Subscription interface {
	Events() <-chan events.OrderEvent
	Close() error
}

// Replay holds the events after a sequence number. Gap is set when some of
// them already fell out of the bounded log.
type Replay struct {
	Events []events.OrderEvent
	Head   int64
	Gap    bool
}
