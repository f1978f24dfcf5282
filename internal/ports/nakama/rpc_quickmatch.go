package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchRequest optionally pins the stake tier to search for.
type QuickMatchRequest struct {
	Tier string `json:"tier"`
}

// QuickMatchResponse is returned to clients looking for a table.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// rpcQuickMatch finds a lobby with an open seat, creating one when none
// exists.
func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req QuickMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("malformed quick match request", 3) // INVALID_ARGUMENT
		}
	}

	query := fmt.Sprintf("+label.game:%s +label.phase:%s +label.open:>=1", labelGameName, labelPhaseLobby)
	if req.Tier != "" {
		query += fmt.Sprintf(" +label.tier:%s", req.Tier)
	}

	limit := 1
	authoritative := true
	minSize := 0
	maxSize := 3 // leave room for the caller

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("rpcQuickMatch [%s]: list matches: %v", userID, err)
		return "", runtime.NewError("match listing failed", 13) // INTERNAL
	}

	if len(matches) > 0 {
		return quickMatchResult(matches[0].MatchId, false)
	}

	params := map[string]interface{}{}
	if req.Tier != "" {
		params["tier"] = req.Tier
	}
	matchID, err := nk.MatchCreate(ctx, MatchName, params)
	if err != nil {
		logger.Error("rpcQuickMatch [%s]: create match: %v", userID, err)
		return "", runtime.NewError("match creation failed", 13)
	}
	logger.Info("rpcQuickMatch [%s]: created match %s", userID, matchID)
	return quickMatchResult(matchID, true)
}

func quickMatchResult(matchID string, isNew bool) (string, error) {
	b, err := json.Marshal(QuickMatchResponse{MatchID: matchID, IsNew: isNew})
	if err != nil {
		return "", runtime.NewError("encode response", 13)
	}
	return string(b), nil
}
