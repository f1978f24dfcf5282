package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"thirteen/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	welcomeBonusCollection = "onboarding"
	welcomeBonusKey        = "welcome_bonus_v1"
)

// WelcomeBonusAdapter grants the welcome bonus with a storage marker and a
// wallet credit in one atomic MultiUpdate. A second grant fails the marker's
// version check and reports granted=false.
type WelcomeBonusAdapter struct {
	nk runtime.NakamaModule
}

// NewWelcomeBonusAdapter wraps the Nakama module.
func NewWelcomeBonusAdapter(nk runtime.NakamaModule) *WelcomeBonusAdapter {
	return &WelcomeBonusAdapter{nk: nk}
}

// GrantWelcomeBonusOnce credits the bonus unless the user's marker already
// exists.
func (a *WelcomeBonusAdapter) GrantWelcomeBonusOnce(ctx context.Context, userID string, amount int64, metadata map[string]interface{}) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("userID is required")
	}
	if amount <= 0 {
		return false, fmt.Errorf("amount must be positive")
	}

	marker := map[string]interface{}{
		"amount":     amount,
		"granted_at": time.Now().UTC().Format(time.RFC3339),
	}
	value, err := json.Marshal(marker)
	if err != nil {
		return false, fmt.Errorf("marshal welcome bonus marker: %w", err)
	}

	storageWrites := []*runtime.StorageWrite{
		{
			Collection: welcomeBonusCollection,
			Key:        welcomeBonusKey,
			UserID:     userID,
			Value:      string(value),
			// Version "*" only writes when the marker does not exist yet.
			Version:         "*",
			PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	}

	walletUpdates := []*runtime.WalletUpdate{
		{
			UserID:    userID,
			Changeset: map[string]int64{walletCurrencyKey: amount},
			Metadata:  metadata,
		},
	}

	if _, _, err := a.nk.MultiUpdate(ctx, nil, storageWrites, nil, walletUpdates, true); err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return false, nil
		}
		return false, fmt.Errorf("grant welcome bonus: %w", err)
	}
	return true, nil
}

var _ ports.WelcomeBonusPort = (*WelcomeBonusAdapter)(nil)
