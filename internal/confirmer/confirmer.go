// Package confirmer watches pending tips and resolves them against on-chain
// transaction receipts. It is the only writer that moves tips to a terminal
// status automatically; the PUT status endpoint remains available for
// explicit confirmations.
package confirmer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/robfig/cron/v3"

	"github.com/arcadegrid/arcadegrid-backend/internal/engine/types"
	errs "github.com/arcadegrid/arcadegrid-backend/pkg/errors"
	"github.com/arcadegrid/arcadegrid-backend/pkg/logging"
)

// ChainClient is the receipt lookup surface of an Ethereum client.
// *ethclient.Client satisfies it.
type ChainClient interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
	TransactionByHash(ctx context.Context, txHash common.Hash) (*ethtypes.Transaction, bool, error)
}

// Engine is the slice of the coordinator the confirmer drives.
type Engine interface {
	PendingTips(ctx context.Context) ([]types.TipEvent, error)
	ConfirmTip(ctx context.Context, txID string, status types.TipStatus) (types.TipEvent, error)
}

type Confirmer struct {
	chain         ChainClient
	engine        Engine
	logger        logging.Logger
	pendingMaxAge time.Duration
	cron          *cron.Cron
}

func New(chain ChainClient, engine Engine, pendingMaxAge time.Duration, logger logging.Logger) *Confirmer {
	return &Confirmer{
		chain:         chain,
		engine:        engine,
		logger:        logger,
		pendingMaxAge: pendingMaxAge,
		cron:          cron.New(),
	}
}

// Start schedules the sweep at the given interval and returns immediately.
func (c *Confirmer) Start(ctx context.Context, pollInterval time.Duration) error {
	_, err := c.cron.AddFunc(fmt.Sprintf("@every %s", pollInterval), func() {
		if err := c.Sweep(ctx); err != nil {
			c.logger.Errorf("Tip confirmation sweep failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule confirmation sweep: %w", err)
	}
	c.cron.Start()
	c.logger.Infof("Tip confirmation watcher started, interval: %s", pollInterval)
	return nil
}

func (c *Confirmer) Stop() {
	c.cron.Stop()
}

// Sweep resolves every pending tip it can. Per-tip failures are logged and
// skipped; the next sweep retries them.
func (c *Confirmer) Sweep(ctx context.Context) error {
	pending, err := c.engine.PendingTips(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	c.logger.Debugf("Sweeping %d pending tips", len(pending))
	for _, tip := range pending {
		if err := c.resolve(ctx, tip); err != nil {
			c.logger.Warnf("Could not resolve tip %s: %v", tip.TxID, err)
		}
	}
	return nil
}

// resolve checks one tip's transaction on chain and applies the outcome.
func (c *Confirmer) resolve(ctx context.Context, tip types.TipEvent) error {
	txHash := common.HexToHash(tip.TxID)

	receipt, err := c.chain.TransactionReceipt(ctx, txHash)
	if err != nil || receipt == nil {
		_, isPending, txErr := c.chain.TransactionByHash(ctx, txHash)
		if txErr != nil {
			// Only a definitive not-found counts against the tip. An RPC
			// transport failure says nothing about the transaction, so the
			// tip stays pending and the next sweep retries.
			if !errors.Is(txErr, ethereum.NotFound) {
				return txErr
			}
			// The chain does not know this transaction. Give it the max
			// pending age to propagate before writing it off.
			if time.Since(tip.CreatedAt) > c.pendingMaxAge {
				c.logger.Infof("Tip %s unknown on chain after %s, marking failed", tip.TxID, c.pendingMaxAge)
				return c.apply(ctx, tip.TxID, types.TipStatusFailed)
			}
			return nil
		}
		if isPending {
			return nil
		}
		// Mined but the receipt is not available yet; retry next sweep.
		return nil
	}

	status := types.TipStatusFailed
	if receipt.Status == ethtypes.ReceiptStatusSuccessful {
		status = types.TipStatusConfirmed
	}
	return c.apply(ctx, tip.TxID, status)
}

func (c *Confirmer) apply(ctx context.Context, txID string, status types.TipStatus) error {
	_, err := c.engine.ConfirmTip(ctx, txID, status)
	if err != nil {
		// Another writer finalized the tip between the list and the update.
		if errors.Is(err, errs.ErrInvalidTransition) || errors.Is(err, errs.ErrUnknownTip) {
			c.logger.Debugf("Tip %s already finalized elsewhere", txID)
			return nil
		}
		return err
	}
	c.logger.Infof("Tip %s resolved to %s", txID, status)
	return nil
}
