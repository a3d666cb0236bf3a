package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine is the only writer of balances and transactions. Each transfer is
// validated and applied inside a single Store.InTx unit of work, so the
// balance check and the debit can not be split by a concurrent transfer.
type Engine struct {
	store   Store
	log     *zap.Logger
	retries int
}

type Option func(*Engine)

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithRetry sets how many times a transfer is replayed after a retryable
// storage failure. Values are clamped to 0..1.
func WithRetry(n int) Option {
	return func(e *Engine) {
		switch {
		case n < 0:
			e.retries = 0
		case n > 1:
			e.retries = 1
		default:
			e.retries = n
		}
	}
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		log:     zap.NewNop(),
		retries: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Transfer moves amount from fromID to toID and records one transaction.
//
// Checks run in this order and the first failure wins: source exists,
// destination exists, amount > 0, source balance >= amount. Nothing is
// written unless all of them pass.
func (e *Engine) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (*TransferResult, error) {
	log := e.log.With(
		zap.String("from", fromID),
		zap.String("to", toID),
		zap.String("amount", amount.String()),
	)

	var (
		res *TransferResult
		err error
	)
	for attempt := 0; ; attempt++ {
		res, err = e.transfer(ctx, fromID, toID, amount, description)
		if err == nil || attempt >= e.retries || !IsRetryable(err) || ctx.Err() != nil {
			break
		}
		log.Warn("retrying transfer after transient storage failure", zap.Error(err))
	}

	switch {
	case err == nil:
		log.Info("transfer committed", zap.String("transaction_id", res.Transaction.ID))
	case errors.Is(err, ErrStorage):
		log.Error("transfer failed", zap.Error(err))
	default:
		log.Info("transfer rejected", zap.Error(err))
	}
	return res, err
}

func (e *Engine) transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (*TransferResult, error) {
	var res *TransferResult
	err := e.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		accounts, err := tx.LockAccounts(ctx, fromID, toID)
		if err != nil {
			return err
		}

		from, ok := accounts[fromID]
		if !ok {
			return NotFound(fromID)
		}
		to, ok := accounts[toID]
		if !ok {
			return NotFound(toID)
		}
		if !amount.IsPositive() {
			return ErrInvalidAmount
		}
		if from.Balance.LessThan(amount) {
			return &InsufficientFundsError{Current: from.Balance, Requested: amount}
		}

		if err := tx.AdjustBalance(ctx, fromID, amount.Neg()); err != nil {
			return err
		}
		if err := tx.AdjustBalance(ctx, toID, amount); err != nil {
			return err
		}
		tran, err := tx.Append(ctx, fromID, toID, amount, description)
		if err != nil {
			return err
		}

		if fromID == toID {
			to = from
		} else {
			from.Balance = from.Balance.Sub(amount)
			to.Balance = to.Balance.Add(amount)
		}
		res = &TransferResult{Transaction: tran, From: from, To: to}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
