package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/chuoois/FoodWeb-sub001/auth"
)

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrEmailTaken           = errors.New("email is already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountLocked        = errors.New("account is locked")
	ErrUnknownAccountStatus = errors.New("unknown account status")
)

type AccountStatus string

const (
	AccountActive AccountStatus = "ACTIVE"
	AccountLocked AccountStatus = "LOCKED"
)

func ParseAccountStatus(s string) (AccountStatus, error) {
	switch status := AccountStatus(strings.ToUpper(strings.TrimSpace(s))); status {
	case AccountActive, AccountLocked:
		return status, nil
	}
	return "", ErrUnknownAccountStatus
}

type Account struct {
	ID           int64         `json:"id" db:"id"`
	Email        string        `json:"email" db:"email"`
	PasswordHash string        `json:"-" db:"password_hash"`
	FullName     string        `json:"full_name" db:"full_name"`
	Phone        string        `json:"phone" db:"phone"`
	Role         auth.Role     `json:"role" db:"role"`
	Status       AccountStatus `json:"status" db:"status"`
	// ShopID is the shop a MANAGER_STAFF account works in; 0 otherwise.
	ShopID    int64     `json:"shop_id,omitempty" db:"shop_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Address is a saved delivery address. Lat/Lng feed the shipping fee at checkout.
type Address struct {
	ID        int64     `json:"id" db:"id"`
	AccountID int64     `json:"account_id" db:"account_id"`
	Label     string    `json:"label" db:"label"`
	Recipient string    `json:"recipient" db:"recipient"`
	Phone     string    `json:"phone" db:"phone"`
	Street    string    `json:"street" db:"street"`
	Ward      string    `json:"ward" db:"ward"`
	District  string    `json:"district" db:"district"`
	City      string    `json:"city" db:"city"`
	Province  string    `json:"province" db:"province"`
	Lat       float64   `json:"lat" db:"lat"`
	Lng       float64   `json:"lng" db:"lng"`
	IsDefault bool      `json:"is_default" db:"is_default"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
