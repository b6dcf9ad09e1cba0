package models

import (
	"time"
)

// Account holds a user's point balance
type Account struct {
	UserID         string    `db:"user_id" json:"userId"`
	Balance        int64     `db:"balance" json:"balance"`
	LastActivityAt time.Time `db:"last_activity_at" json:"lastActivityAt"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// Profile holds the public identity of a user
type Profile struct {
	UserID      string `db:"user_id" json:"userId"`
	Handle      string `db:"handle" json:"handle,omitempty"`
	DisplayName string `db:"display_name" json:"displayName,omitempty"`
}

// HasHandle reports whether the profile has claimed a handle
func (p *Profile) HasHandle() bool {
	return p.Handle != ""
}

// Counterparty snapshots the other side of a transfer at the time it happened.
func (p *Profile) Counterparty() *Counterparty {
	return &Counterparty{
		UserID:      p.UserID,
		Handle:      p.Handle,
		DisplayName: p.DisplayName,
	}
}

// UserOverview combines the account and profile of a user
type UserOverview struct {
	Account *Account `json:"account"`
	Profile *Profile `json:"profile"`
}
