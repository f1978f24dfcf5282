package nakama

const (
	// RpcQuickMatch is the RPC id clients call to find or create a joinable
	// lobby.
	RpcQuickMatch = "quick_match"

	// RpcVivoxToken is the RPC id clients call for a voice chat token.
	RpcVivoxToken = "vivox_token"

	// MatchName is the authoritative match handler name registered with
	// Nakama.
	MatchName = "thirteen_match"
)

// Client to server opcodes.
const (
	OpStartGame int64 = 1
	OpPlayCards int64 = 2
	OpPassTurn  int64 = 3
)

// Server to client opcodes.
const (
	OpMatchState     int64 = 101
	OpGameStarted    int64 = 102 // sent privately, carries the hand
	OpCardPlayed     int64 = 103
	OpTurnPassed     int64 = 104
	OpPlayerFinished int64 = 105
	OpGameEnded      int64 = 106
	OpGameError      int64 = 107
	OpTurnClock      int64 = 108
)
