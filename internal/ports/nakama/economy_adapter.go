package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"thirteen/internal/ports"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

// walletCurrencyKey is the wallet entry the game settles in.
const walletCurrencyKey = "gold"

// EconomyAdapter implements ports.EconomyPort on Nakama's wallet system.
type EconomyAdapter struct {
	nk runtime.NakamaModule
}

// NewEconomyAdapter wraps the Nakama module.
func NewEconomyAdapter(nk runtime.NakamaModule) *EconomyAdapter {
	return &EconomyAdapter{nk: nk}
}

// GetBalance returns the user's current gold balance.
func (a *EconomyAdapter) GetBalance(ctx context.Context, userID string) (int64, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get account %s: %w", userID, err)
	}

	var wallet map[string]int64
	if err := json.Unmarshal([]byte(account.Wallet), &wallet); err != nil {
		return 0, fmt.Errorf("unmarshal wallet for %s: %w", userID, err)
	}
	return wallet[walletCurrencyKey], nil
}

// UpdateBalances applies the batch of wallet changes. Every update carries a
// shared batch id in its ledger metadata so one settlement can be traced
// across users.
func (a *EconomyAdapter) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	batchID := uuid.NewString()
	for _, update := range updates {
		if update.Amount == 0 {
			continue
		}

		metadata := make(map[string]interface{}, len(update.Metadata)+1)
		for k, v := range update.Metadata {
			metadata[k] = v
		}
		metadata["settlement_batch"] = batchID

		changes := map[string]int64{walletCurrencyKey: update.Amount}
		if _, _, err := a.nk.WalletUpdate(ctx, update.UserID, changes, metadata, true); err != nil {
			return fmt.Errorf("update wallet for %s: %w", update.UserID, err)
		}
	}
	return nil
}

var _ ports.EconomyPort = (*EconomyAdapter)(nil)
