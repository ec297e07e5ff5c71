package domain

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

var ErrCartItemNotFound = errors.New("cart item not found")

// CartItem is one line of a customer's cart. Key identifies the food together
// with its option set, so the same food with other options is another line.
type CartItem struct {
	Key       string       `json:"key"`
	ShopID    int64        `json:"shop_id"`
	FoodID    int64        `json:"food_id"`
	FoodName  string       `json:"food_name"`
	Options   []ItemOption `json:"options"`
	Quantity  int          `json:"quantity"`
	UnitPrice int64        `json:"unit_price"`
	Subtotal  int64        `json:"subtotal"`
}

type Cart struct {
	Items     []CartItem `json:"items"`
	ItemCount int        `json:"item_count"`
	Subtotal  int64      `json:"subtotal"`
}

// CartKey renders "food-opt-opt..." with option ids sorted and deduplicated.
func CartKey(foodID int64, optionIDs []int64) string {
	ids := append([]int64(nil), optionIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	b.WriteString(strconv.FormatInt(foodID, 10))
	for i, id := range ids {
		if i > 0 && ids[i-1] == id {
			continue
		}
		b.WriteByte('-')
		b.WriteString(strconv.FormatInt(id, 10))
	}
	return b.String()
}

// OptionIDs returns the option ids of a cart line.
func (c CartItem) OptionIDs() []int64 {
	ids := make([]int64, 0, len(c.Options))
	for _, opt := range c.Options {
		ids = append(ids, opt.ID)
	}
	return ids
}

// NewCart orders the lines by key and recomputes every total from them.
func NewCart(items []CartItem) Cart {
	cart := Cart{Items: make([]CartItem, 0, len(items))}
	for _, item := range items {
		item.Subtotal = item.UnitPrice * int64(item.Quantity)
		cart.Items = append(cart.Items, item)
		cart.ItemCount += item.Quantity
		cart.Subtotal += item.Subtotal
	}
	sort.Slice(cart.Items, func(i, j int) bool { return cart.Items[i].Key < cart.Items[j].Key })
	return cart
}

// ForShop keeps only the lines of one shop.
func (c Cart) ForShop(shopID int64) []CartItem {
	var out []CartItem
	for _, item := range c.Items {
		if item.ShopID == shopID {
			out = append(out, item)
		}
	}
	return out
}
