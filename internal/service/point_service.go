package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/richardliu001/point-service/internal/lock"
	"github.com/richardliu001/point-service/internal/metrics"
	"github.com/richardliu001/point-service/internal/model"
	"github.com/richardliu001/point-service/internal/repo"
	"go.uber.org/zap"
)

// MaxChargeAmount is the largest amount a single charge may carry.
const MaxChargeAmount int64 = 2_000_000_000

// PointService glues point business rules, the lock registry and the stores.
//
// Charge and Use for one user id are serialized by that id's mutex; the
// read, the balance check, the write and the history append all happen while
// it is held. GetPoint and GetHistories take no lock and may observe a balance
// that an in-flight mutation is about to replace.
type PointService struct {
	points    repo.PointStore
	histories repo.HistoryStore
	locks     *lock.Registry
	metrics   *metrics.Metrics
	log       *zap.SugaredLogger
	now       func() time.Time
}

// Option customizes a PointService.
type Option func(*PointService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *PointService) { s.now = now }
}

// WithMetrics enables operation counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *PointService) { s.metrics = m }
}

// NewPointService returns PointService.
func NewPointService(points repo.PointStore, histories repo.HistoryStore, locks *lock.Registry, logger *zap.SugaredLogger, opts ...Option) *PointService {
	s := &PointService{
		points:    points,
		histories: histories,
		locks:     locks,
		log:       logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPoint returns the balance of id.
func (s *PointService) GetPoint(ctx context.Context, id int64) (model.UserPoint, error) {
	p, err := s.points.Get(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.UserPoint{}, ErrUserNotFound
	}
	if err != nil {
		s.log.Errorw("get point", "user_id", id, "err", err)
		return model.UserPoint{}, fmt.Errorf("get point %d: %w", id, err)
	}
	return p, nil
}

// GetHistories returns every history entry of id, or an empty slice.
func (s *PointService) GetHistories(ctx context.Context, id int64) ([]model.PointHistory, error) {
	hs, err := s.histories.ListByUser(ctx, id)
	if err != nil {
		s.log.Errorw("list point histories", "user_id", id, "err", err)
		return nil, fmt.Errorf("list histories %d: %w", id, err)
	}
	if hs == nil {
		hs = []model.PointHistory{}
	}
	return hs, nil
}

// Charge adds amount to the balance of id, creating the balance on first charge.
func (s *PointService) Charge(ctx context.Context, id, amount int64) (model.UserPoint, error) {
	if amount < 0 {
		return s.reject(model.TransactionCharge, id, amount, ErrInvalidAmount)
	}
	if amount > MaxChargeAmount {
		return s.reject(model.TransactionCharge, id, amount, ErrAmountExceedsLimit)
	}

	// an accepted mutation runs to completion even if the caller goes away
	ctx = context.WithoutCancel(ctx)

	var updated model.UserPoint
	err := s.locks.WithLock(id, func() error {
		current, err := s.loadForUpdate(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			current = model.EmptyUserPoint(id)
		} else if err != nil {
			return fmt.Errorf("get point %d: %w", id, err)
		}

		next := model.UserPoint{ID: id, Point: current.Point + amount, UpdatedAt: s.stamp(current)}
		updated, err = s.commit(ctx, next, model.NewChargeHistory(id, amount, next.UpdatedAt))
		return err
	})
	return s.finish(model.TransactionCharge, id, amount, updated, err)
}

// Use subtracts amount from the balance of id.
func (s *PointService) Use(ctx context.Context, id, amount int64) (model.UserPoint, error) {
	if amount < 0 {
		return s.reject(model.TransactionUse, id, amount, ErrInvalidAmount)
	}

	ctx = context.WithoutCancel(ctx)

	var updated model.UserPoint
	err := s.locks.WithLock(id, func() error {
		current, err := s.loadForUpdate(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInsufficientBalance
		}
		if err != nil {
			return fmt.Errorf("get point %d: %w", id, err)
		}
		if amount > current.Point {
			return ErrInsufficientBalance
		}

		next := model.UserPoint{ID: id, Point: current.Point - amount, UpdatedAt: s.stamp(current)}
		updated, err = s.commit(ctx, next, model.NewUseHistory(id, amount, next.UpdatedAt))
		return err
	})
	return s.finish(model.TransactionUse, id, amount, updated, err)
}

// commit writes the new balance and its history entry. Caller holds the id's lock.
func (s *PointService) commit(ctx context.Context, next model.UserPoint, h model.PointHistory) (model.UserPoint, error) {
	stored, err := s.points.Put(ctx, next)
	if err != nil {
		return model.UserPoint{}, fmt.Errorf("put point %d: %w", next.ID, err)
	}
	h.UpdatedAt = stored.UpdatedAt
	if err := s.histories.Append(ctx, h); err != nil {
		return model.UserPoint{}, fmt.Errorf("append history %d: %w", next.ID, err)
	}
	return stored, nil
}

// loadForUpdate reads the durable balance, skipping any cache. Caller holds the id's lock.
func (s *PointService) loadForUpdate(ctx context.Context, id int64) (model.UserPoint, error) {
	if r, ok := s.points.(repo.ForUpdateReader); ok {
		return r.GetForUpdate(ctx, id)
	}
	return s.points.Get(ctx, id)
}

// stamp never moves updatedAt backwards for an id.
func (s *PointService) stamp(current model.UserPoint) time.Time {
	now := s.now()
	if now.Before(current.UpdatedAt) {
		return current.UpdatedAt
	}
	return now
}

func (s *PointService) reject(t model.TransactionType, id, amount int64, err *PointError) (model.UserPoint, error) {
	s.log.Infow("point request rejected", "type", t, "user_id", id, "amount", amount, "code", err.Code)
	s.metrics.ObserveOperation(string(t), err.Code)
	return model.UserPoint{}, err
}

func (s *PointService) finish(t model.TransactionType, id, amount int64, updated model.UserPoint, err error) (model.UserPoint, error) {
	var pe *PointError
	switch {
	case err == nil:
		s.metrics.ObserveOperation(string(t), metrics.ResultOK)
		s.log.Debugw("point updated", "type", t, "user_id", id, "amount", amount, "point", updated.Point)
		return updated, nil
	case errors.As(err, &pe):
		return s.reject(t, id, amount, pe)
	default:
		s.metrics.ObserveOperation(string(t), metrics.ResultError)
		s.log.Errorw("point update failed", "type", t, "user_id", id, "amount", amount, "err", err)
		return model.UserPoint{}, err
	}
}
