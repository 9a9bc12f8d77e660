package persistence

import "context"

// TxManager runs fn in a transaction. Repository calls made with txCtx join
// that transaction; the transaction commits when fn returns nil and rolls
// back otherwise. Nested calls reuse the outer transaction.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}
