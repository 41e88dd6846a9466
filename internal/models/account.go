package models

import "time"

// Account is a registered user's identity plus ledger state. The account ID
// is the email address; accounts are never deleted and their histories are
// append-only.
type Account struct {
	ID            string        `json:"email"`
	Name          string        `json:"name"`
	PasswordHash  string        `json:"-"`
	Role          string        `json:"role"`
	WalletBalance float64       `json:"walletBalance"`
	EcoPoints     int64         `json:"ecoPoints"`
	CO2Saved      float64       `json:"co2Saved"`
	Logs          []EarnEvent   `json:"logs"`
	Redemptions   []RedeemEvent `json:"redemptions"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

const (
	WastePlastic    = "Plastic"
	WasteNonPlastic = "NonPlastic"
)

type CostType string

const (
	CostMoney  CostType = "money"
	CostPoints CostType = "points"
)

// EarnEvent records one credited deposit. Immutable once written.
type EarnEvent struct {
	Date      time.Time `json:"date"`
	WasteType string    `json:"wasteType"`
	Weight    float64   `json:"weight"`
	Amount    float64   `json:"amount"`
	Points    int64     `json:"points"`
}

// RedeemEvent records one redemption debit. Immutable once written.
type RedeemEvent struct {
	Date time.Time `json:"date"`
	Item string    `json:"item"`
	Cost float64   `json:"cost"`
	Type string    `json:"type"`
}
