package repository

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/arcadegrid/arcadegrid-backend/internal/engine/types"
)

// Testify mocks for the repository interfaces, shared by coordinator,
// reconciler and handler tests.

type MockReplayRepository struct {
	mock.Mock
}

var _ ReplayRepository = (*MockReplayRepository)(nil)

func (m *MockReplayRepository) Admit(ctx context.Context, gameID, payloadHash string, seenAt time.Time) (bool, error) {
	args := m.Called(ctx, gameID, payloadHash, seenAt)
	return args.Bool(0), args.Error(1)
}

type MockScoreRepository struct {
	mock.Mock
}

var _ ScoreRepository = (*MockScoreRepository)(nil)

func (m *MockScoreRepository) AppendEvent(ctx context.Context, ev *types.ScoreEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockScoreRepository) RecordBest(ctx context.Context, ev types.ScoreEvent) (bool, error) {
	args := m.Called(ctx, ev)
	return args.Bool(0), args.Error(1)
}

func (m *MockScoreRepository) GetPlayerBest(ctx context.Context, gameID, playerID string) (types.PlayerBest, bool, error) {
	args := m.Called(ctx, gameID, playerID)
	return args.Get(0).(types.PlayerBest), args.Bool(1), args.Error(2)
}

func (m *MockScoreRepository) ListPlayerBests(ctx context.Context, gameID string) ([]types.PlayerBest, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.PlayerBest), args.Error(1)
}

type MockTipRepository struct {
	mock.Mock
}

var _ TipRepository = (*MockTipRepository)(nil)

func (m *MockTipRepository) Record(ctx context.Context, ev types.TipEvent) (bool, types.TipEvent, error) {
	args := m.Called(ctx, ev)
	return args.Bool(0), args.Get(1).(types.TipEvent), args.Error(2)
}

func (m *MockTipRepository) Get(ctx context.Context, txID string) (types.TipEvent, bool, error) {
	args := m.Called(ctx, txID)
	return args.Get(0).(types.TipEvent), args.Bool(1), args.Error(2)
}

func (m *MockTipRepository) Transition(ctx context.Context, txID string, to types.TipStatus) (types.TipEvent, error) {
	args := m.Called(ctx, txID, to)
	return args.Get(0).(types.TipEvent), args.Error(1)
}

func (m *MockTipRepository) ListPending(ctx context.Context) ([]types.TipEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TipEvent), args.Error(1)
}

type MockFeedRepository struct {
	mock.Mock
}

var _ FeedRepository = (*MockFeedRepository)(nil)

func (m *MockFeedRepository) AttachTip(ctx context.Context, postID string, ev types.TipEvent) error {
	args := m.Called(ctx, postID, ev)
	return args.Error(0)
}

func (m *MockFeedRepository) ListPostTips(ctx context.Context, postID string) ([]types.PostTip, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.PostTip), args.Error(1)
}

func (m *MockFeedRepository) SaveAggregate(ctx context.Context, agg types.PostTipAggregate) error {
	args := m.Called(ctx, agg)
	return args.Error(0)
}

func (m *MockFeedRepository) GetAggregate(ctx context.Context, postID string) (types.PostTipAggregate, bool, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(types.PostTipAggregate), args.Bool(1), args.Error(2)
}
