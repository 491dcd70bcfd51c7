package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/richardliu001/point-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCachedPointStore(t *testing.T) {
	ctx := context.Background()
	ttl := time.Minute
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := model.UserPoint{ID: 1, Point: 100, UpdatedAt: at}
	encoded, err := encodePoint(p)
	require.NoError(t, err)

	var tests = []struct {
		name        string
		seed        []model.UserPoint
		expect      func(mock redismock.ClientMock)
		act         func(s *CachedPointStore) (model.UserPoint, error)
		expected    model.UserPoint
		expectedErr error
	}{
		{
			name: "get miss reads store and fills cache",
			seed: []model.UserPoint{p},
			expect: func(mock redismock.ClientMock) {
				mock.ExpectGet("point:1").RedisNil()
				mock.ExpectSet("point:1", encoded, ttl).SetVal("OK")
			},
			act:      func(s *CachedPointStore) (model.UserPoint, error) { return s.Get(ctx, 1) },
			expected: p,
		},
		{
			name: "get hit skips store",
			expect: func(mock redismock.ClientMock) {
				mock.ExpectGet("point:1").SetVal(encoded)
			},
			act:      func(s *CachedPointStore) (model.UserPoint, error) { return s.Get(ctx, 1) },
			expected: p,
		},
		{
			name: "get miss on absent user",
			expect: func(mock redismock.ClientMock) {
				mock.ExpectGet("point:1").RedisNil()
			},
			act:         func(s *CachedPointStore) (model.UserPoint, error) { return s.Get(ctx, 1) },
			expectedErr: ErrNotFound,
		},
		{
			name: "redis failures do not fail get",
			seed: []model.UserPoint{p},
			expect: func(mock redismock.ClientMock) {
				mock.ExpectGet("point:1").SetErr(errors.New("connection refused"))
				mock.ExpectSet("point:1", encoded, ttl).SetErr(errors.New("connection refused"))
			},
			act:      func(s *CachedPointStore) (model.UserPoint, error) { return s.Get(ctx, 1) },
			expected: p,
		},
		{
			name: "put writes through",
			expect: func(mock redismock.ClientMock) {
				mock.ExpectSet("point:1", encoded, ttl).SetVal("OK")
			},
			act:      func(s *CachedPointStore) (model.UserPoint, error) { return s.Put(ctx, p) },
			expected: p,
		},
		{
			name: "put drops key when write-through fails",
			expect: func(mock redismock.ClientMock) {
				mock.ExpectSet("point:1", encoded, ttl).SetErr(errors.New("connection refused"))
				mock.ExpectDel("point:1").SetVal(1)
			},
			act:      func(s *CachedPointStore) (model.UserPoint, error) { return s.Put(ctx, p) },
			expected: p,
		},
		{
			name: "put survives failed eviction",
			expect: func(mock redismock.ClientMock) {
				mock.ExpectSet("point:1", encoded, ttl).SetErr(errors.New("connection refused"))
				mock.ExpectDel("point:1").SetErr(errors.New("connection refused"))
			},
			act:      func(s *CachedPointStore) (model.UserPoint, error) { return s.Put(ctx, p) },
			expected: p,
		},
		{
			name:     "get for update skips redis",
			seed:     []model.UserPoint{p},
			expect:   func(mock redismock.ClientMock) {},
			act:      func(s *CachedPointStore) (model.UserPoint, error) { return s.GetForUpdate(ctx, 1) },
			expected: p,
		},
		{
			name:        "get for update on absent user",
			expect:      func(mock redismock.ClientMock) {},
			act:         func(s *CachedPointStore) (model.UserPoint, error) { return s.GetForUpdate(ctx, 1) },
			expectedErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			next := NewMemoryPointStore()
			for _, s := range tt.seed {
				_, _ = next.Put(ctx, s)
			}
			rdb, mock := redismock.NewClientMock()
			tt.expect(mock)

			store := NewCachedPointStore(next, rdb, ttl, zap.NewNop().Sugar())
			got, err := tt.act(store)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected.ID, got.ID)
				assert.Equal(t, tt.expected.Point, got.Point)
				assert.True(t, tt.expected.UpdatedAt.Equal(got.UpdatedAt))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCachedPointStore_PutKeepsStoreValue(t *testing.T) {
	ctx := context.Background()
	next := NewMemoryPointStore()
	rdb, mock := redismock.NewClientMock()
	p := model.UserPoint{ID: 2, Point: 7, UpdatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)}
	encoded, err := encodePoint(p)
	require.NoError(t, err)
	mock.ExpectSet("point:2", encoded, time.Minute).SetVal("OK")

	store := NewCachedPointStore(next, rdb, time.Minute, zap.NewNop().Sugar())
	_, err = store.Put(ctx, p)
	require.NoError(t, err)

	got, err := next.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Point)
	assert.NoError(t, mock.ExpectationsWereMet())
}
