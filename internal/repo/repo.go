package repo

import (
	"context"
	"errors"

	"github.com/richardliu001/point-service/internal/model"
)

// ErrNotFound is returned by PointStore.Get when no record exists for the id.
var ErrNotFound = errors.New("record not found")

// PointStore keeps one balance record per user.
type PointStore interface {
	Get(ctx context.Context, id int64) (model.UserPoint, error)
	// Put upserts p and returns the stored value.
	Put(ctx context.Context, p model.UserPoint) (model.UserPoint, error)
}

// HistoryStore is the append-only point history. It assigns entry ids.
type HistoryStore interface {
	Append(ctx context.Context, h model.PointHistory) error
	// ListByUser returns the user's entries in append order, or an empty slice.
	ListByUser(ctx context.Context, userID int64) ([]model.PointHistory, error)
}

// ForUpdateReader is implemented by PointStores whose Get may serve a cached copy.
// GetForUpdate always reads the durable record, so read-modify-write paths use it.
type ForUpdateReader interface {
	GetForUpdate(ctx context.Context, id int64) (model.UserPoint, error)
}
