package ports

import "context"

// Tx is an opaque transaction handle. The persistence layer decides the
// concrete type (for sqlite, *gorm.DB).
type Tx interface{}

// UnitOfWork is a callback-style transaction boundary: the callback
// returning nil commits, returning an error rolls back. A component scan
// wraps its exception writes in one so a failed scan never leaves partial
// findings behind.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// WithTxContext stores a transaction handle in context.
func WithTxContext(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext reads a transaction handle from context.
func TxFromContext(ctx context.Context) Tx {
	return ctx.Value(txKey{})
}
