package account

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrInactiveAccount = errors.New("account is inactive")
	ErrEmptyCode       = errors.New("account code cannot be empty")
	ErrEmptyName       = errors.New("account name cannot be empty")
)

// Type classifies an account within the chart of accounts
type Type string

const (
	TypeAsset     Type = "asset"
	TypeLiability Type = "liability"
	TypeEquity    Type = "equity"
	TypeIncome    Type = "income"
	TypeExpense   Type = "expense"
)

// NormalSide is the side on which an account's balance is conventionally expressed
type NormalSide string

const (
	SideDebit  NormalSide = "debit"
	SideCredit NormalSide = "credit"
)

// Account is one row of the chart of accounts. Rows are immutable after
// seeding; accounts are deactivated rather than deleted.
type Account struct {
	ID         int64      `json:"id"`
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	Type       Type       `json:"type"`
	NormalSide NormalSide `json:"normal_side"`
	IsSystem   bool       `json:"is_system"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NormalSideFor returns the conventional balance side for an account type
func NormalSideFor(t Type) NormalSide {
	switch t {
	case TypeAsset, TypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}
