package model

import "time"

// TransactionType tags the direction of a point mutation.
type TransactionType string

const (
	TransactionCharge TransactionType = "CHARGE"
	TransactionUse    TransactionType = "USE"
)

// PointHistory is an append-only record of one completed charge or use.
type PointHistory struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	UserID    int64           `gorm:"not null;index"`
	Amount    int64           `gorm:"not null"`
	Type      TransactionType `gorm:"size:16;not null"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime:false;not null"`
}

func (PointHistory) TableName() string { return "point_history" }

// NewChargeHistory builds the entry recorded after a successful charge.
func NewChargeHistory(userID, amount int64, at time.Time) PointHistory {
	return PointHistory{UserID: userID, Amount: amount, Type: TransactionCharge, UpdatedAt: at}
}

// NewUseHistory builds the entry recorded after a successful use.
func NewUseHistory(userID, amount int64, at time.Time) PointHistory {
	return PointHistory{UserID: userID, Amount: amount, Type: TransactionUse, UpdatedAt: at}
}
