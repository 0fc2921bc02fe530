package usecase

import "context"

// Transactor runs fn inside one database transaction. Repositories called with
// the ctx passed to fn take part in it; fn returning an error rolls back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
