package confirmer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arcadegrid/arcadegrid-backend/internal/engine/types"
	errs "github.com/arcadegrid/arcadegrid-backend/pkg/errors"
	"github.com/arcadegrid/arcadegrid-backend/pkg/logging"
)

const testTxID = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

type MockChainClient struct {
	mock.Mock
}

var _ ChainClient = (*MockChainClient)(nil)

func (m *MockChainClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	args := m.Called(ctx, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ethtypes.Receipt), args.Error(1)
}

func (m *MockChainClient) TransactionByHash(ctx context.Context, txHash common.Hash) (*ethtypes.Transaction, bool, error) {
	args := m.Called(ctx, txHash)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*ethtypes.Transaction), args.Bool(1), args.Error(2)
}

type MockEngine struct {
	mock.Mock
}

var _ Engine = (*MockEngine)(nil)

func (m *MockEngine) PendingTips(ctx context.Context) ([]types.TipEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TipEvent), args.Error(1)
}

func (m *MockEngine) ConfirmTip(ctx context.Context, txID string, status types.TipStatus) (types.TipEvent, error) {
	args := m.Called(ctx, txID, status)
	return args.Get(0).(types.TipEvent), args.Error(1)
}

func setupConfirmer(maxAge time.Duration) (*Confirmer, *MockChainClient, *MockEngine) {
	chain := new(MockChainClient)
	engine := new(MockEngine)
	return New(chain, engine, maxAge, logging.NoopLogger{}), chain, engine
}

func pendingTip(age time.Duration) types.TipEvent {
	return types.TipEvent{
		TxID:      testTxID,
		Status:    types.TipStatusPending,
		CreatedAt: time.Now().Add(-age),
	}
}

func TestSweepConfirmsSuccessfulReceipt(t *testing.T) {
	c, chain, engine := setupConfirmer(time.Hour)

	engine.On("PendingTips", mock.Anything).Return([]types.TipEvent{pendingTip(time.Minute)}, nil)
	chain.On("TransactionReceipt", mock.Anything, common.HexToHash(testTxID)).
		Return(&ethtypes.Receipt{Status: ethtypes.ReceiptStatusSuccessful, BlockNumber: big.NewInt(1)}, nil)
	engine.On("ConfirmTip", mock.Anything, testTxID, types.TipStatusConfirmed).
		Return(types.TipEvent{TxID: testTxID, Status: types.TipStatusConfirmed}, nil)

	err := c.Sweep(context.Background())

	require.NoError(t, err)
	engine.AssertExpectations(t)
}

func TestSweepFailsRevertedReceipt(t *testing.T) {
	c, chain, engine := setupConfirmer(time.Hour)

	engine.On("PendingTips", mock.Anything).Return([]types.TipEvent{pendingTip(time.Minute)}, nil)
	chain.On("TransactionReceipt", mock.Anything, common.HexToHash(testTxID)).
		Return(&ethtypes.Receipt{Status: ethtypes.ReceiptStatusFailed, BlockNumber: big.NewInt(1)}, nil)
	engine.On("ConfirmTip", mock.Anything, testTxID, types.TipStatusFailed).
		Return(types.TipEvent{TxID: testTxID, Status: types.TipStatusFailed}, nil)

	err := c.Sweep(context.Background())

	require.NoError(t, err)
	engine.AssertExpectations(t)
}

func TestSweepLeavesYoungUnknownTipPending(t *testing.T) {
	c, chain, engine := setupConfirmer(time.Hour)

	engine.On("PendingTips", mock.Anything).Return([]types.TipEvent{pendingTip(time.Minute)}, nil)
	chain.On("TransactionReceipt", mock.Anything, mock.Anything).Return(nil, ethereum.NotFound)
	chain.On("TransactionByHash", mock.Anything, mock.Anything).Return(nil, false, ethereum.NotFound)

	err := c.Sweep(context.Background())

	require.NoError(t, err)
	engine.AssertNotCalled(t, "ConfirmTip", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweepFailsStaleUnknownTip(t *testing.T) {
	c, chain, engine := setupConfirmer(time.Hour)

	engine.On("PendingTips", mock.Anything).Return([]types.TipEvent{pendingTip(2 * time.Hour)}, nil)
	chain.On("TransactionReceipt", mock.Anything, mock.Anything).Return(nil, ethereum.NotFound)
	chain.On("TransactionByHash", mock.Anything, mock.Anything).Return(nil, false, ethereum.NotFound)
	engine.On("ConfirmTip", mock.Anything, testTxID, types.TipStatusFailed).
		Return(types.TipEvent{TxID: testTxID, Status: types.TipStatusFailed}, nil)

	err := c.Sweep(context.Background())

	require.NoError(t, err)
	engine.AssertExpectations(t)
}

func TestSweepKeepsStaleTipDuringRPCOutage(t *testing.T) {
	c, chain, engine := setupConfirmer(time.Hour)

	// A transport failure is not evidence the transaction is unknown; the
	// max-age cutoff must not fire on it, however old the tip is.
	engine.On("PendingTips", mock.Anything).Return([]types.TipEvent{pendingTip(2 * time.Hour)}, nil)
	chain.On("TransactionReceipt", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	chain.On("TransactionByHash", mock.Anything, mock.Anything).Return(nil, false, errors.New("connection refused"))

	err := c.Sweep(context.Background())

	require.NoError(t, err)
	engine.AssertNotCalled(t, "ConfirmTip", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweepLeavesMinedTxWithoutReceipt(t *testing.T) {
	c, chain, engine := setupConfirmer(time.Hour)

	engine.On("PendingTips", mock.Anything).Return([]types.TipEvent{pendingTip(time.Minute)}, nil)
	chain.On("TransactionReceipt", mock.Anything, mock.Anything).Return(nil, errors.New("not found"))
	chain.On("TransactionByHash", mock.Anything, mock.Anything).Return(ethtypes.NewTx(&ethtypes.LegacyTx{}), true, nil)

	err := c.Sweep(context.Background())

	require.NoError(t, err)
	engine.AssertNotCalled(t, "ConfirmTip", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweepToleratesConcurrentFinalization(t *testing.T) {
	c, chain, engine := setupConfirmer(time.Hour)

	engine.On("PendingTips", mock.Anything).Return([]types.TipEvent{pendingTip(time.Minute)}, nil)
	chain.On("TransactionReceipt", mock.Anything, mock.Anything).
		Return(&ethtypes.Receipt{Status: ethtypes.ReceiptStatusSuccessful, BlockNumber: big.NewInt(1)}, nil)
	engine.On("ConfirmTip", mock.Anything, testTxID, types.TipStatusConfirmed).
		Return(types.TipEvent{}, fmt.Errorf("%w: already finalized", errs.ErrInvalidTransition))

	err := c.Sweep(context.Background())

	assert.NoError(t, err)
}

func TestSweepPropagatesListFailure(t *testing.T) {
	c, _, engine := setupConfirmer(time.Hour)

	engine.On("PendingTips", mock.Anything).Return(nil, errors.New("no hosts"))

	err := c.Sweep(context.Background())

	assert.Error(t, err)
}
