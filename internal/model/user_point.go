package model

import "time"

// UserPoint is the current point balance of one user.
type UserPoint struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false;column:id"`
	Point     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;not null"`
}

func (UserPoint) TableName() string { return "user_point" }

// EmptyUserPoint is the zero balance used for ids that were never charged.
func EmptyUserPoint(id int64) UserPoint {
	return UserPoint{ID: id}
}
