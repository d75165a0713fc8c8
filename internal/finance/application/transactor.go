package application

import "context"

// Transactor runs fn inside one database transaction carried by the ctx it
// passes to fn.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// WithinSnapshot runs read-only fn against one consistent view of the data.
	WithinSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}
