package nakama

import (
	"context"

	"thirteen/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// AccountAdapter implements ports.AccountPort on Nakama's account API.
type AccountAdapter struct {
	nk runtime.NakamaModule
}

// NewAccountAdapter wraps the Nakama module.
func NewAccountAdapter(nk runtime.NakamaModule) *AccountAdapter {
	return &AccountAdapter{nk: nk}
}

// UpdateProfile sets the account's username and display name.
func (a *AccountAdapter) UpdateProfile(ctx context.Context, userID, username, displayName string) error {
	return a.nk.AccountUpdateId(ctx, userID, username, nil, displayName, "", "", "", "")
}

var _ ports.AccountPort = (*AccountAdapter)(nil)
