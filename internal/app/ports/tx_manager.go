package ports

import "context"

// TxManager wraps one turn's persistence in a transaction. Together with the
// per-session lock it makes the orchestrated call a critical section.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
