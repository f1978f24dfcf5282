package nakama

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"thirteen/internal/app/onboarding"
	"thirteen/internal/config"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// afterAuthenticateDevice returns the post-auth hook. Freshly created
// accounts get onboarded: a generated display name and the one-time welcome
// bonus.
func afterAuthenticateDevice(cfg config.Game) func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, *api.Session, *api.AuthenticateDeviceRequest) error {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out *api.Session, in *api.AuthenticateDeviceRequest) error {
		if !out.Created {
			return nil
		}

		userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
		if userID == "" {
			// Some auth paths do not populate the context; fall back to the
			// session token's uid claim.
			resolved, err := extractUserIDFromToken(out.Token)
			if err != nil {
				logger.Error("afterAuthenticateDevice: resolve user id: %v", err)
				return err
			}
			userID = resolved
		}

		logger.Info("afterAuthenticateDevice: onboarding new user %s", userID)

		svc := onboarding.NewService(NewAccountAdapter(nk), NewWelcomeBonusAdapter(nk), cfg.WelcomeBonusAmount, nil)
		result, err := svc.OnboardNewUser(ctx, userID)
		if result.ProfileUpdateErr != nil {
			logger.Warn("afterAuthenticateDevice: profile update for %s: %v", userID, result.ProfileUpdateErr)
		}
		if err == nil && !result.WelcomeBonusGranted {
			logger.Info("afterAuthenticateDevice: welcome bonus already granted to %s", userID)
		}
		if err != nil {
			logger.Error("afterAuthenticateDevice: onboarding %s: %v", userID, err)
			return err
		}
		return nil
	}
}

// extractUserIDFromToken reads the uid claim out of a session JWT without
// verifying it; the token came from Nakama itself on this code path.
func extractUserIDFromToken(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid token format")
	}

	data, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("decode token payload: %w", err)
	}

	var claims map[string]interface{}
	if err := json.Unmarshal(data, &claims); err != nil {
		return "", fmt.Errorf("unmarshal token claims: %w", err)
	}

	uid, ok := claims["uid"].(string)
	if !ok {
		return "", fmt.Errorf("token claims missing uid")
	}
	return uid, nil
}
