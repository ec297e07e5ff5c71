package auth

import (
	"errors"
	"strings"
)

type Role string

const (
	RoleCustomer      Role = "CUSTOMER"
	RoleManagerStaff  Role = "MANAGER_STAFF"
	RoleStoreDirector Role = "STORE_DIRECTOR"
	RoleFinance       Role = "FINANCE"
	RoleAdmin         Role = "ADMIN"
)

var ErrUnknownRole = errors.New("unknown role")

func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := permissions[role]; !ok {
		return "", ErrUnknownRole
	}
	return role, nil
}

func (r Role) String() string {
	return string(r)
}

// IsShopStaff reports whether the role works inside a shop back-office.
func (r Role) IsShopStaff() bool {
	return r == RoleManagerStaff || r == RoleStoreDirector
}

type Permission string

const (
	PermPlaceOrder     Permission = "order:place"
	PermWriteReview    Permission = "review:write"
	PermManageOrders   Permission = "order:manage"
	PermManageMenu     Permission = "menu:manage"
	PermManageShop     Permission = "shop:manage"
	PermManageVouchers Permission = "voucher:manage"
	PermViewFinance    Permission = "finance:view"
	PermManageAccounts Permission = "account:manage"
	PermApproveShops   Permission = "shop:approve"
)

var permissions = map[Role]map[Permission]bool{
	RoleCustomer: {
		PermPlaceOrder:  true,
		PermWriteReview: true,
	},
	RoleManagerStaff: {
		PermManageOrders: true,
		PermManageMenu:   true,
	},
	RoleStoreDirector: {
		PermManageOrders:   true,
		PermManageMenu:     true,
		PermManageShop:     true,
		PermManageVouchers: true,
	},
	RoleFinance: {
		PermViewFinance: true,
	},
	RoleAdmin: {
		PermViewFinance:    true,
		PermManageAccounts: true,
		PermApproveShops:   true,
		PermManageVouchers: true,
	},
}

// Can reports whether role holds perm. Unknown roles hold nothing.
func Can(role Role, perm Permission) bool {
	return permissions[role][perm]
}
