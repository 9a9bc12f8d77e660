package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sokol111/ecommerce-price-sync/pkg/persistence"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type txKey struct{}

func txFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type txManager struct {
	db  txBeginner
	log *zap.Logger
}

func newTxManager(p Postgres, log *zap.Logger) persistence.TxManager {
	return &txManager{db: p.Pool(), log: log}
}

func (m *txManager) WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) (err error) {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				m.log.Warn("transaction rollback failed", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
