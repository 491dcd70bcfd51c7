package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/richardliu001/point-service/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements PointStore and HistoryStore on a SQL database.
// Every history append also writes an outbox event in the same transaction.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore constructs the store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the tables used by the store.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&model.UserPoint{}, &model.PointHistory{}, &model.OutboxEvent{})
}

// DB returns underlying *gorm.DB
func (s *GormStore) DB(ctx context.Context) *gorm.DB { return s.db.WithContext(ctx) }

// Get loads the balance record of id.
func (s *GormStore) Get(ctx context.Context, id int64) (model.UserPoint, error) {
	var p model.UserPoint
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.UserPoint{}, ErrNotFound
	}
	if err != nil {
		return model.UserPoint{}, err
	}
	return p, nil
}

// Put upserts the balance record.
func (s *GormStore) Put(ctx context.Context, p model.UserPoint) (model.UserPoint, error) {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"point", "updated_at"}),
		}).
		Create(&p).Error
	if err != nil {
		return model.UserPoint{}, err
	}
	return p, nil
}

// Append inserts the history row and its outbox event.
func (s *GormStore) Append(ctx context.Context, h model.PointHistory) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&h).Error; err != nil {
			return err
		}
		payload, err := json.Marshal(map[string]interface{}{
			"history_id": h.ID,
			"user_id":    h.UserID,
			"amount":     h.Amount,
			"type":       h.Type,
			"updated_at": h.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("marshal outbox payload: %w", err)
		}
		evt := &model.OutboxEvent{
			Aggregate:   "UserPoint",
			AggregateID: h.UserID,
			EventType:   model.EventTypeFor(h.Type),
			Payload:     string(payload),
		}
		return tx.Create(evt).Error
	})
}

// ListByUser returns the user's history ordered by id.
func (s *GormStore) ListByUser(ctx context.Context, userID int64) ([]model.PointHistory, error) {
	hs := make([]model.PointHistory, 0)
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id asc").Find(&hs).Error
	if err != nil {
		return nil, err
	}
	return hs, nil
}

var (
	_ PointStore   = (*GormStore)(nil)
	_ HistoryStore = (*GormStore)(nil)
)
