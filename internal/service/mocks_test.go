package service

import (
	"context"

	"github.com/richardliu001/point-service/internal/model"
	"github.com/richardliu001/point-service/internal/repo"
	"github.com/stretchr/testify/mock"
)

type PointStoreMock struct {
	mock.Mock
	repo.PointStore
}

func (m *PointStoreMock) Get(ctx context.Context, id int64) (model.UserPoint, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.UserPoint), args.Error(1)
}

func (m *PointStoreMock) Put(ctx context.Context, p model.UserPoint) (model.UserPoint, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.UserPoint), args.Error(1)
}

type HistoryStoreMock struct {
	mock.Mock
	repo.HistoryStore
}

func (m *HistoryStoreMock) Append(ctx context.Context, h model.PointHistory) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *HistoryStoreMock) ListByUser(ctx context.Context, userID int64) ([]model.PointHistory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PointHistory), args.Error(1)
}
