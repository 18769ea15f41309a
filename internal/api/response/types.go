package response

import (
	"encoding/json"

	"github.com/mcoot/solitaire-server/internal/model"
	"github.com/mcoot/solitaire-server/internal/services/auth"
)

// Stats represents an account's statistics in API responses
type Stats struct {
	Wins     int64    `json:"wins"`
	Losses   int64    `json:"losses"`
	BestTime *float64 `json:"best_time"`
}

// StatsFromModel converts model.Stats
func StatsFromModel(s model.Stats) Stats {
	return Stats{
		Wins:     s.Wins,
		Losses:   s.Losses,
		BestTime: s.BestTime,
	}
}

// Account is the response for a newly registered account
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Stats    Stats  `json:"stats"`
}

// AccountFromModel converts a model.Account, leaving out the password hash
// and bound address
func AccountFromModel(a *model.Account) Account {
	return Account{
		ID:       string(a.ID),
		Username: a.Username,
		Stats:    StatsFromModel(a.Stats()),
	}
}

// AccountSummary is a username with its stats flattened alongside
type AccountSummary struct {
	Username string `json:"username"`
	Stats
}

// SummaryFromModel converts a model.Account to an AccountSummary
func SummaryFromModel(a *model.Account) AccountSummary {
	return AccountSummary{
		Username: a.Username,
		Stats:    StatsFromModel(a.Stats()),
	}
}

// SummaryFromConnection converts an auto-connect result
func SummaryFromConnection(c *auth.Connection) AccountSummary {
	return AccountSummary{
		Username: c.Username,
		Stats:    StatsFromModel(c.Stats),
	}
}

// OK acknowledges an operation with no other result
type OK struct {
	OK bool `json:"ok"`
}

// GameSaved is the response for a stored game record
type GameSaved struct {
	Message string `json:"message"`
	File    string `json:"file"`
}

// GameRecord is a stored game returned verbatim under data
type GameRecord struct {
	File string          `json:"file"`
	Data json.RawMessage `json:"data"`
}

// GameRecordFromModel converts a model.GameRecord
func GameRecordFromModel(g *model.GameRecord) GameRecord {
	return GameRecord{
		File: g.File,
		Data: g.Data,
	}
}

// Health is the liveness response
type Health struct {
	On bool `json:"on"`
}

// LegacyHealth is the liveness response on the legacy path
type LegacyHealth struct {
	EstOn bool `json:"estOn"`
}
