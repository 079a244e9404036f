package model

import "context"

// Stores gives access to the stores bound to one transaction.
type Stores interface {
	Users() UserStore
	Parcels() ParcelStore
	Transfers() TransferStore
}

// TxManager runs fn atomically. Returning an error from fn rolls back
// every write made through the given stores.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}
