package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"thirteen/internal/app"
	"thirteen/internal/bot"
	"thirteen/internal/config"
	"thirteen/internal/domain"
	"thirteen/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger satisfies runtime.Logger for tests.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{})                 {}
func (noopLogger) Info(string, ...interface{})                  {}
func (noopLogger) Warn(string, ...interface{})                  {}
func (noopLogger) Error(string, ...interface{})                 {}
func (noopLogger) WithField(string, interface{}) runtime.Logger { return noopLogger{} }
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} { return nil }

// mockDispatcher records dispatcher calls for assertions.
type mockDispatcher struct {
	broadcasts   []broadcastCall
	labelUpdates []string
}

type broadcastCall struct {
	opCode     int64
	data       []byte
	recipients []runtime.Presence
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcasts = append(md.broadcasts, broadcastCall{opCode: opCode, data: append([]byte(nil), data...), recipients: presences})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return md.BroadcastMessage(opCode, data, presences, sender, reliable)
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error { return nil }

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates = append(md.labelUpdates, label)
	return nil
}

func (md *mockDispatcher) lastOp(opCode int64) *broadcastCall {
	for i := len(md.broadcasts) - 1; i >= 0; i-- {
		if md.broadcasts[i].opCode == opCode {
			return &md.broadcasts[i]
		}
	}
	return nil
}

// fakePresence satisfies runtime.Presence.
type fakePresence struct {
	userID   string
	username string
}

func (p fakePresence) GetUserId() string                 { return p.userID }
func (p fakePresence) GetSessionId() string              { return "session-" + p.userID }
func (p fakePresence) GetNodeId() string                 { return "node" }
func (p fakePresence) GetHidden() bool                   { return false }
func (p fakePresence) GetPersistence() bool              { return true }
func (p fakePresence) GetUsername() string               { return p.username }
func (p fakePresence) GetStatus() string                 { return "" }
func (p fakePresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonJoin }

// mockEconomy records wallet activity.
type mockEconomy struct {
	balances map[string]int64
	updates  []ports.WalletUpdate
}

func (me *mockEconomy) GetBalance(ctx context.Context, userID string) (int64, error) {
	if b, ok := me.balances[userID]; ok {
		return b, nil
	}
	return 0, errors.New("balance not found")
}

func (me *mockEconomy) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	me.updates = append(me.updates, updates...)
	return nil
}

// recordingStrategy tracks events a bot observed.
type recordingStrategy struct {
	events  []app.Event
	private []bool
}

func (r *recordingStrategy) CalculateMove(g *domain.Game, p *domain.Player) (bot.Move, error) {
	return bot.Move{Pass: true}, nil
}

func (r *recordingStrategy) OnEvent(ev app.Event, privateRecipient bool) {
	r.events = append(r.events, ev)
	r.private = append(r.private, privateRecipient)
}

func testHandler(cfg config.Game) *matchHandler {
	return newMatchHandler(cfg, bot.NewRoster(nil))
}

func testState() *MatchState {
	return &MatchState{
		OwnerSeat:      -1,
		LastWinnerSeat: -1,
		Tier:           "novice",
		Presences:      make(map[string]runtime.Presence),
		App:            app.NewService(nil, nil, 0),
		Bots:           make(map[int]*bot.Agent),
	}
}

func seatBot(state *MatchState, seat int, userID string) *recordingStrategy {
	strategy := &recordingStrategy{}
	state.Seats[seat] = userID
	state.Bots[seat] = &bot.Agent{
		Identity: bot.Identity{UserID: userID},
		Seat:     seat,
		Strategy: strategy,
	}
	return strategy
}

func TestMatchInitLabel(t *testing.T) {
	mh := testHandler(config.Default())

	state, tickRate, label := mh.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{"tier": "high"})
	if state == nil {
		t.Fatal("MatchInit returned nil state")
	}
	if tickRate != ticksPerSecond {
		t.Errorf("tickRate = %d, want %d", tickRate, ticksPerSecond)
	}

	var parsed matchLabel
	if err := json.Unmarshal([]byte(label), &parsed); err != nil {
		t.Fatalf("label is not JSON: %v", err)
	}
	if parsed.Game != labelGameName || parsed.Open != 4 || parsed.Phase != labelPhaseLobby || parsed.Tier != "high" {
		t.Errorf("label = %+v", parsed)
	}
}

func TestMatchJoinAssignsSeatsAndOwner(t *testing.T) {
	mh := testHandler(config.Default())
	state := testState()
	dispatcher := &mockDispatcher{}

	out := mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state,
		[]runtime.Presence{fakePresence{userID: "alice", username: "Alice"}, fakePresence{userID: "bob", username: "Bob"}})
	state = out.(*MatchState)

	if state.Seats[0] != "alice" || state.Seats[1] != "bob" {
		t.Errorf("seats = %v", state.Seats)
	}
	if state.OwnerSeat != 0 {
		t.Errorf("owner = %d, want 0", state.OwnerSeat)
	}
	if len(dispatcher.labelUpdates) == 0 {
		t.Error("join should update the label")
	}
	if dispatcher.lastOp(OpMatchState) == nil {
		t.Error("join should broadcast a snapshot")
	}
}

func TestMatchJoinEvictsLobbyBot(t *testing.T) {
	mh := testHandler(config.Default())
	state := testState()
	state.Seats = [domain.NumSeats]string{"alice", "", "", ""}
	state.Presences["alice"] = fakePresence{userID: "alice"}
	seatBot(state, 1, "bot-1")
	seatBot(state, 2, "bot-2")
	seatBot(state, 3, "bot-3")

	out := mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, &mockDispatcher{}, 1, state,
		[]runtime.Presence{fakePresence{userID: "carol"}})
	state = out.(*MatchState)

	carolSeat := state.seatOf("carol")
	if carolSeat < 0 {
		t.Fatal("carol did not get a seat")
	}
	if state.Bots[carolSeat] != nil {
		t.Error("evicted bot agent still registered on the seat")
	}
	if len(state.Bots) != 2 {
		t.Errorf("bots remaining = %d, want 2", len(state.Bots))
	}
}

func TestMatchLeaveTerminatesWithoutHumans(t *testing.T) {
	mh := testHandler(config.Default())
	state := testState()
	state.Seats[0] = "alice"
	state.Presences["alice"] = fakePresence{userID: "alice"}
	seatBot(state, 1, "bot-1")

	out := mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, &mockDispatcher{}, 1, state,
		[]runtime.Presence{fakePresence{userID: "alice"}})
	if out != nil {
		t.Error("match with only bots left should terminate")
	}
}

func TestMatchLeaveKeepsSeatMidGame(t *testing.T) {
	mh := testHandler(config.Default())
	state := testState()
	state.Seats[0] = "alice"
	state.Seats[1] = "bob"
	state.Presences["alice"] = fakePresence{userID: "alice"}
	state.Presences["bob"] = fakePresence{userID: "bob"}
	state.OwnerSeat = 0
	state.Game = &domain.Game{Phase: domain.PhasePlaying}

	out := mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, &mockDispatcher{}, 1, state,
		[]runtime.Presence{fakePresence{userID: "alice"}})
	state = out.(*MatchState)

	if state.Seats[0] != "alice" {
		t.Error("mid-game seat should stay occupied for the turn clock to play out")
	}
	if state.OwnerSeat != 1 {
		t.Errorf("owner = %d, want reassignment to bob", state.OwnerSeat)
	}
}

func TestMatchJoinAttemptReadmitsSeatHolder(t *testing.T) {
	mh := testHandler(config.Default())
	state := testState()
	state.Seats = [4]string{"alice", "bob", "carol", "dave"}
	for _, id := range state.Seats {
		state.Presences[id] = fakePresence{userID: id}
	}
	state.OwnerSeat = 0
	state.Game = &domain.Game{Phase: domain.PhasePlaying}

	out := mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, &mockDispatcher{}, 1, state,
		[]runtime.Presence{fakePresence{userID: "bob"}})
	state = out.(*MatchState)

	_, allowed, _ := mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, &mockDispatcher{}, 2,
		state, fakePresence{userID: "bob"}, nil)
	if !allowed {
		t.Fatal("a disconnected seat holder must be allowed back into the match")
	}

	_, allowed, reason := mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, &mockDispatcher{}, 2,
		state, fakePresence{userID: "eve"}, nil)
	if allowed {
		t.Error("a stranger should not join a full running match")
	}
	if reason != "match full" {
		t.Errorf("reason = %q, want match full", reason)
	}

	out = mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, &mockDispatcher{}, 3, state,
		[]runtime.Presence{fakePresence{userID: "bob"}})
	state = out.(*MatchState)
	if state.Seats[1] != "bob" {
		t.Errorf("seat 1 = %q, want bob back in his seat", state.Seats[1])
	}
	if _, ok := state.Presences["bob"]; !ok {
		t.Error("rejoining presence should be tracked again")
	}
}

func TestProcessBotsAutoFillsSoloLobby(t *testing.T) {
	cfg := config.Default()
	cfg.BotFillDelaySeconds = 2
	mh := testHandler(cfg)
	state := testState()
	state.Seats[0] = "alice"
	state.Presences["alice"] = fakePresence{userID: "alice"}
	state.SoloSince = 1
	state.Tick = 1 + int64(cfg.BotFillDelaySeconds*ticksPerSecond)
	dispatcher := &mockDispatcher{}

	mh.processBots(context.Background(), state, dispatcher, noopLogger{})

	if got := len(state.Bots); got != 3 {
		t.Fatalf("bots seated = %d, want 3", got)
	}
	if state.OpenSeatCount() != 0 {
		t.Errorf("open seats = %d, want 0", state.OpenSeatCount())
	}
	if state.SoloSince != 0 {
		t.Error("auto-fill timer should reset")
	}
	if len(dispatcher.labelUpdates) == 0 || dispatcher.lastOp(OpMatchState) == nil {
		t.Error("auto-fill should update label and broadcast a snapshot")
	}
}

func TestProcessBotsResetsTimerWithCompany(t *testing.T) {
	mh := testHandler(config.Default())
	state := testState()
	state.Seats[0] = "alice"
	state.Seats[1] = "bob"
	state.SoloSince = 5
	state.Tick = 100

	mh.processBots(context.Background(), state, &mockDispatcher{}, noopLogger{})

	if state.SoloSince != 0 {
		t.Error("timer should reset when a second human is seated")
	}
	if len(state.Bots) != 0 {
		t.Error("no bots should be added to a two-human lobby")
	}
}

func TestTurnClockTimeoutForcesPlay(t *testing.T) {
	cfg := config.Default()
	cfg.TurnDurationSeconds = 1
	mh := testHandler(cfg)
	state := testState()
	state.Seats[0] = "alice"
	state.Seats[1] = "bob"
	state.Game = twoSeatGame()
	state.TurnSeat = 0
	state.TurnDeadline = 5
	state.Tick = 10
	dispatcher := &mockDispatcher{}

	mh.processTurnClock(context.Background(), state, dispatcher, noopLogger{})

	if state.Game.LastPlaySeat != 0 {
		t.Fatal("timeout on an empty table should force a play")
	}
	call := dispatcher.lastOp(OpCardPlayed)
	if call == nil {
		t.Fatal("forced play was not broadcast")
	}
	var msg cardPlayedMessage
	if err := json.Unmarshal(call.data, &msg); err != nil {
		t.Fatalf("unmarshal card played: %v", err)
	}
	if len(msg.Cards) != 1 || msg.Cards[0].Rank != domain.RankThree {
		t.Errorf("forced play = %+v, want the lowest single", msg.Cards)
	}
}

func TestTurnClockArmsOnNewTurn(t *testing.T) {
	cfg := config.Default()
	cfg.TurnDurationSeconds = 10
	mh := testHandler(cfg)
	state := testState()
	state.Seats[0] = "alice"
	state.Seats[1] = "bob"
	state.Game = twoSeatGame()
	state.Tick = 100
	dispatcher := &mockDispatcher{}

	mh.processTurnClock(context.Background(), state, dispatcher, noopLogger{})

	want := int64(100 + 10*ticksPerSecond)
	if state.TurnDeadline != want {
		t.Errorf("deadline = %d, want %d", state.TurnDeadline, want)
	}
	if dispatcher.lastOp(OpTurnClock) == nil {
		t.Error("arming the clock should broadcast the countdown")
	}
	// Arming must not also fire the timeout.
	if state.Game.LastPlaySeat != -1 {
		t.Error("no play should happen on the arming tick")
	}
}

func TestApplyEventsSettlesHumansOnly(t *testing.T) {
	mh := testHandler(config.Default())
	state := testState()
	state.Seats[0] = "alice"
	state.Presences["alice"] = fakePresence{userID: "alice"}
	seatBot(state, 1, "bot-1")
	economy := &mockEconomy{}
	state.Economy = economy
	state.Game = &domain.Game{Phase: domain.PhaseEnded}
	dispatcher := &mockDispatcher{}

	ended := app.Event{
		Kind: app.EventGameEnded,
		Payload: app.GameEndedPayload{
			FinishOrderSeats: []int{0, 1},
			BalanceChanges:   map[string]int64{"alice": 95, "bot-1": -100},
		},
	}
	mh.applyEvents(context.Background(), state, dispatcher, noopLogger{}, []app.Event{ended})

	if len(economy.updates) != 1 {
		t.Fatalf("wallet updates = %d, want 1 (bots excluded)", len(economy.updates))
	}
	if economy.updates[0].UserID != "alice" || economy.updates[0].Amount != 95 {
		t.Errorf("update = %+v", economy.updates[0])
	}
	if state.LastWinnerSeat != 0 {
		t.Errorf("LastWinnerSeat = %d, want 0", state.LastWinnerSeat)
	}
	if state.Game != nil {
		t.Error("ended game should be cleared")
	}
	if dispatcher.lastOp(OpGameEnded) == nil {
		t.Error("game end should be broadcast")
	}
}

func TestApplyEventsKeepsPrivateDealsOffTheWire(t *testing.T) {
	mh := testHandler(config.Default())
	state := testState()
	state.Seats[0] = "alice"
	state.Presences["alice"] = fakePresence{userID: "alice"}
	strategy := seatBot(state, 1, "bot-1")
	dispatcher := &mockDispatcher{}

	deal := app.Event{
		Kind: app.EventGameStarted,
		Payload: app.GameStartedPayload{
			Seat:          1,
			Hand:          []domain.Card{{Rank: domain.RankThree, Suit: domain.SuitSpades}},
			FirstTurnSeat: 1,
		},
		RecipientSeats: []int{1},
	}
	mh.applyEvents(context.Background(), state, dispatcher, noopLogger{}, []app.Event{deal})

	if len(dispatcher.broadcasts) != 0 {
		t.Error("a bot's private deal must not be broadcast")
	}
	if len(strategy.events) != 1 || !strategy.private[0] {
		t.Errorf("bot should observe its own deal privately, got %d events", len(strategy.events))
	}
}

func TestHandlePlayCardsRejectionSendsError(t *testing.T) {
	mh := testHandler(config.Default())
	state := testState()
	state.Seats[0] = "alice"
	state.Seats[1] = "bob"
	state.Presences["alice"] = fakePresence{userID: "alice"}
	state.Presences["bob"] = fakePresence{userID: "bob"}
	state.Game = twoSeatGame()
	dispatcher := &mockDispatcher{}

	// Bob plays out of turn.
	body, _ := json.Marshal(playCardsRequest{Cards: []wireCard{{Rank: domain.RankFive, Suit: domain.SuitSpades}}})
	mh.handlePlayCards(context.Background(), state, dispatcher, noopLogger{}, fakeMatchData{userID: "bob", opCode: OpPlayCards, data: body})

	call := dispatcher.lastOp(OpGameError)
	if call == nil {
		t.Fatal("rejected play should send an error")
	}
	if len(call.recipients) != 1 || call.recipients[0].GetUserId() != "bob" {
		t.Error("error must go to the offender alone")
	}
	var msg errorMessage
	if err := json.Unmarshal(call.data, &msg); err != nil {
		t.Fatalf("unmarshal error message: %v", err)
	}
	if msg.Code != errorCodeRejected || msg.Message == "" {
		t.Errorf("error message = %+v", msg)
	}
}

func TestHandleStartGameOwnerOnly(t *testing.T) {
	mh := testHandler(config.Default())
	state := testState()
	state.Seats[0] = "alice"
	state.Seats[1] = "bob"
	state.OwnerSeat = 0
	state.Presences["alice"] = fakePresence{userID: "alice"}
	state.Presences["bob"] = fakePresence{userID: "bob"}
	dispatcher := &mockDispatcher{}

	mh.handleStartGame(context.Background(), state, dispatcher, noopLogger{}, fakeMatchData{userID: "bob", opCode: OpStartGame})
	if state.Game != nil {
		t.Fatal("non-owner must not start the game")
	}

	mh.handleStartGame(context.Background(), state, dispatcher, noopLogger{}, fakeMatchData{userID: "alice", opCode: OpStartGame})
	if state.Game == nil {
		t.Fatal("owner start was rejected")
	}
	if state.Game.BaseBet != mh.cfg.BaseBet(state.Tier) {
		t.Errorf("BaseBet = %d, want tier stake", state.Game.BaseBet)
	}
	// Each human got a private deal.
	deals := 0
	for _, b := range dispatcher.broadcasts {
		if b.opCode == OpGameStarted {
			deals++
			if len(b.recipients) != 1 {
				t.Error("deals must be targeted")
			}
		}
	}
	if deals != 2 {
		t.Errorf("deals broadcast = %d, want 2", deals)
	}
}

// twoSeatGame builds a playing game with two small fixed hands, seat 0 to
// act on an empty table.
func twoSeatGame() *domain.Game {
	g := &domain.Game{
		Phase:           domain.PhasePlaying,
		CurrentTurnSeat: 0,
		LastCombo:       domain.Combination{Type: domain.Invalid},
		LastPlaySeat:    -1,
	}
	g.Seats[0] = &domain.Player{UserID: "alice", Seat: 0, Hand: []domain.Card{
		{Rank: domain.RankThree, Suit: domain.SuitSpades},
		{Rank: domain.RankSeven, Suit: domain.SuitHearts},
	}}
	g.Seats[1] = &domain.Player{UserID: "bob", Seat: 1, Hand: []domain.Card{
		{Rank: domain.RankFive, Suit: domain.SuitSpades},
		{Rank: domain.RankQueen, Suit: domain.SuitClubs},
	}}
	return g
}

// fakeMatchData satisfies runtime.MatchData.
type fakeMatchData struct {
	userID string
	opCode int64
	data   []byte
}

func (f fakeMatchData) GetUserId() string                 { return f.userID }
func (f fakeMatchData) GetSessionId() string              { return "session-" + f.userID }
func (f fakeMatchData) GetNodeId() string                 { return "node" }
func (f fakeMatchData) GetHidden() bool                   { return false }
func (f fakeMatchData) GetPersistence() bool              { return true }
func (f fakeMatchData) GetUsername() string               { return f.userID }
func (f fakeMatchData) GetStatus() string                 { return "" }
func (f fakeMatchData) GetReason() runtime.PresenceReason { return runtime.PresenceReasonJoin }
func (f fakeMatchData) GetOpCode() int64                  { return f.opCode }
func (f fakeMatchData) GetData() []byte                   { return f.data }
func (f fakeMatchData) GetReliable() bool                 { return true }
func (f fakeMatchData) GetReceiveTime() int64             { return 0 }
