package sql

import (
	"time"

	"github.com/mcoot/solitaire-server/internal/model"
)

// accountRow is the persisted shape of an account
type accountRow struct {
	ID           string  `gorm:"primaryKey;size:36"`
	Username     string  `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string  `gorm:"size:72;not null"`
	BoundAddress *string `gorm:"index;size:128"`
	BoundAt      *time.Time
	WinCount     int64 `gorm:"not null;default:0"`
	LossCount    int64 `gorm:"not null;default:0"`
	BestTime     *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (accountRow) TableName() string {
	return "accounts"
}

func rowFromModel(a *model.Account) *accountRow {
	return &accountRow{
		ID:           string(a.ID),
		Username:     a.Username,
		PasswordHash: a.PasswordHash,
		BoundAddress: a.BoundAddress,
		WinCount:     a.WinCount,
		LossCount:    a.LossCount,
		BestTime:     a.BestTime,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (r *accountRow) toModel() *model.Account {
	return &model.Account{
		ID:           model.AccountID(r.ID),
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		BoundAddress: r.BoundAddress,
		WinCount:     r.WinCount,
		LossCount:    r.LossCount,
		BestTime:     r.BestTime,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
