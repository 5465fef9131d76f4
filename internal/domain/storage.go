package domain

import "context"

// TxRunner executes a function within a single storage transaction.
// Repository calls made with the context passed to fn join that transaction,
// so reads observe rows inserted earlier in the same request.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
