package domain

import (
	"errors"
	"strings"
)

type Status string

const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusPending        Status = "PENDING"
	StatusConfirmed      Status = "CONFIRMED"
	StatusPreparing      Status = "PREPARING"
	StatusShipping       Status = "SHIPPING"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
	StatusRefunded       Status = "REFUNDED"
)

type Event string

const (
	EventPaymentConfirmed Event = "PAYMENT_CONFIRMED"
	EventAccept           Event = "ACCEPT"
	EventStartPreparing   Event = "START_PREPARING"
	EventShip             Event = "SHIP"
	EventDeliver          Event = "DELIVER"
	EventCancel           Event = "CANCEL"
	EventRefund           Event = "REFUND"
)

var (
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrUnknownStatus     = errors.New("unknown order status")
)

// transitions is the whole lifecycle. A status missing from the table is unknown;
// a status mapping to an empty set is terminal.
var transitions = map[Status]map[Event]Status{
	StatusPendingPayment: {
		EventPaymentConfirmed: StatusPending,
		EventCancel:           StatusCancelled,
	},
	StatusPending: {
		EventAccept: StatusConfirmed,
		EventCancel: StatusCancelled,
		EventRefund: StatusRefunded,
	},
	StatusConfirmed: {
		EventStartPreparing: StatusPreparing,
		EventCancel:         StatusCancelled,
		EventRefund:         StatusRefunded,
	},
	StatusPreparing: {
		EventShip:   StatusShipping,
		EventCancel: StatusCancelled,
		EventRefund: StatusRefunded,
	},
	StatusShipping: {
		EventDeliver: StatusDelivered,
		EventCancel:  StatusCancelled,
		EventRefund:  StatusRefunded,
	},
	StatusCancelled: {
		EventRefund: StatusRefunded,
	},
	StatusDelivered: {},
	StatusRefunded:  {},
}

// progress is the position on the happy path shown to customers and staff.
var progress = map[Status]int{
	StatusPendingPayment: 0,
	StatusPending:        1,
	StatusConfirmed:      2,
	StatusPreparing:      3,
	StatusShipping:       4,
	StatusDelivered:      5,
}

func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := transitions[status]; !ok {
		return "", ErrUnknownStatus
	}
	return status, nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusRefunded
}

// Progress returns the happy-path index of s, or -1 for CANCELLED and REFUNDED.
func (s Status) Progress() int {
	if p, ok := progress[s]; ok {
		return p
	}
	return -1
}

// Transition applies event to current and returns the resulting status.
func Transition(current Status, event Event) (Status, error) {
	allowed, ok := transitions[current]
	if !ok {
		return "", ErrUnknownStatus
	}
	next, ok := allowed[event]
	if !ok {
		return "", ErrInvalidTransition
	}
	return next, nil
}

// EventFor finds the single event that moves current to target. Same-state
// targets are never legal.
func EventFor(current, target Status) (Event, error) {
	allowed, ok := transitions[current]
	if !ok {
		return "", ErrUnknownStatus
	}
	if _, ok := transitions[target]; !ok {
		return "", ErrUnknownStatus
	}
	for event, next := range allowed {
		if next == target {
			return event, nil
		}
	}
	return "", ErrInvalidTransition
}
