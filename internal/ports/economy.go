// Package ports declares the interfaces the application expects from its
// host. The nakama subpackage provides the production adapters; tests use
// in-memory fakes.
package ports

import "context"

// WalletUpdate is a single currency change for one user.
type WalletUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort manages the game currency.
type EconomyPort interface {
	// GetBalance returns the user's current gold balance.
	GetBalance(ctx context.Context, userID string) (int64, error)

	// UpdateBalances applies a batch of wallet changes, used to settle all
	// seats when a game ends.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}
