package domain

import (
	"errors"
	"fmt"
	"strings"
)

type ShopStatus string

const (
	ShopPendingApproval ShopStatus = "PENDING_APPROVAL"
	ShopActive          ShopStatus = "ACTIVE"
	ShopInactive        ShopStatus = "INACTIVE"
	ShopBanned          ShopStatus = "BANNED"
)

var (
	ErrUnknownShopStatus     = errors.New("unknown shop status")
	ErrInvalidShopTransition = errors.New("shop status change not allowed")
)

// shopTransitions lists the statuses an admin may move a shop to.
var shopTransitions = map[ShopStatus][]ShopStatus{
	ShopPendingApproval: {ShopActive, ShopBanned},
	ShopActive:          {ShopInactive, ShopBanned},
	ShopInactive:        {ShopActive, ShopBanned},
	ShopBanned:          {ShopActive},
}

func ParseShopStatus(s string) (ShopStatus, error) {
	status := ShopStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := shopTransitions[status]; !ok {
		return "", ErrUnknownShopStatus
	}
	return status, nil
}

func (s ShopStatus) CanBecome(to ShopStatus) error {
	for _, next := range shopTransitions[s] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidShopTransition, s, to)
}
