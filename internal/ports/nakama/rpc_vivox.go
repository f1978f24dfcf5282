package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"thirteen/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// VivoxTokenRequest asks for a signed voice token. ChannelName is required
// for join tokens.
type VivoxTokenRequest struct {
	Action      string `json:"action"`
	ChannelName string `json:"channel_name"`
}

// VivoxTokenResponse carries the signed token.
type VivoxTokenResponse struct {
	Token string `json:"token"`
}

// rpcVivoxToken returns an RPC handler bound to a token signer. The signed
// user is always the authenticated caller; clients cannot mint tokens for
// other identities.
func rpcVivoxToken(svc *app.VivoxService) func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error) {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
		if userID == "" {
			return "", runtime.NewError("authentication required", 16) // UNAUTHENTICATED
		}

		var req VivoxTokenRequest
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("malformed vivox token request", 3) // INVALID_ARGUMENT
		}
		if req.Action == "" {
			req.Action = app.VivoxTokenActionLogin
		}

		token, err := svc.GenerateToken(userID, req.Action, req.ChannelName)
		if err != nil {
			logger.Warn("rpcVivoxToken [%s]: %v", userID, err)
			return "", runtime.NewError(err.Error(), 3)
		}

		b, err := json.Marshal(VivoxTokenResponse{Token: token})
		if err != nil {
			return "", runtime.NewError("encode response", 13) // INTERNAL
		}
		return string(b), nil
	}
}
