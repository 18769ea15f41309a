package model

import "time"

// Input limits shared by every storage backend
const (
	MaxUsernameLength = 64
	// bcrypt ignores input beyond 72 bytes and rejects it outright
	MaxPasswordBytes = 72
)

// AccountID uniquely identifies an account across the system
type AccountID string

// Account is a registered player's persisted identity and stats
type Account struct {
	ID           AccountID
	Username     string // case-sensitive, immutable
	PasswordHash string // bcrypt hash, never serialized to clients
	BoundAddress *string
	WinCount     int64
	LossCount    int64
	BestTime     *float64 // read-only here, managed outside this service
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsBound reports whether the account is currently bound to an address
func (a *Account) IsBound() bool {
	return a.BoundAddress != nil
}

// BoundTo reports whether the account is bound to exactly the given address
func (a *Account) BoundTo(address string) bool {
	return a.BoundAddress != nil && *a.BoundAddress == address
}

// Stats returns the account's statistics
func (a *Account) Stats() Stats {
	return Stats{
		Wins:     a.WinCount,
		Losses:   a.LossCount,
		BestTime: a.BestTime,
	}
}

// Stats holds the win/loss counters and best completion time for an account
type Stats struct {
	Wins     int64
	Losses   int64
	BestTime *float64
}
