package ports

import "context"

// Transactor runs fn inside a single multi-document transaction. Every
// repository call made with the context passed to fn participates in that
// transaction; if fn returns an error nothing is committed.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
