package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"thirteen/internal/app"
	"thirteen/internal/bot"
	"thirteen/internal/config"
	"thirteen/internal/domain"
	"thirteen/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// ticksPerSecond is the match loop rate. Sub-second resolution keeps bot
// think delays from snapping to whole seconds.
const ticksPerSecond = 4

const (
	labelPhaseLobby   = "lobby"
	labelPhasePlaying = "playing"
)

// errorCodeRejected is sent with every rejected player action. The message
// carries the specific reason.
const errorCodeRejected = 400

// MatchState is the authoritative runtime state of one table.
type MatchState struct {
	Seats          [domain.NumSeats]string // user IDs, empty string means open
	OwnerSeat      int
	LastWinnerSeat int
	Tier           string
	Tick           int64

	Presences map[string]runtime.Presence
	App       *app.Service
	Game      *domain.Game
	Economy   ports.EconomyPort

	Bots         map[int]*bot.Agent // seat -> agent
	SoloSince    int64              // tick a lone human started waiting, 0 when idle
	BotActAt     int64              // tick the current bot turn fires, 0 when unarmed
	TurnSeat     int                // seat the turn clock is armed for
	TurnDeadline int64              // tick the armed turn expires
}

// OpenSeatCount returns the number of unoccupied seats.
func (ms *MatchState) OpenSeatCount() int {
	n := 0
	for _, id := range ms.Seats {
		if id == "" {
			n++
		}
	}
	return n
}

// OccupiedSeatCount returns the number of occupied seats, bots included.
func (ms *MatchState) OccupiedSeatCount() int {
	return domain.NumSeats - ms.OpenSeatCount()
}

// HumanSeatCount returns the number of seats held by humans.
func (ms *MatchState) HumanSeatCount() int {
	n := 0
	for seat, id := range ms.Seats {
		if id != "" && ms.Bots[seat] == nil {
			n++
		}
	}
	return n
}

func (ms *MatchState) seatOf(userID string) int {
	for seat, id := range ms.Seats {
		if id != "" && id == userID {
			return seat
		}
	}
	return -1
}

func (ms *MatchState) isBotSeat(seat int) bool {
	return seat >= 0 && ms.Bots[seat] != nil
}

func (ms *MatchState) isBotUser(userID string) bool {
	for _, agent := range ms.Bots {
		if agent.Identity.UserID == userID {
			return true
		}
	}
	return false
}

// firstHumanSeat returns the lowest seat held by a human, or -1.
func (ms *MatchState) firstHumanSeat() int {
	for seat, id := range ms.Seats {
		if id != "" && ms.Bots[seat] == nil {
			return seat
		}
	}
	return -1
}

// humansConnected reports whether any human seat still has a live presence.
func (ms *MatchState) humansConnected() bool {
	for seat, id := range ms.Seats {
		if id == "" || ms.Bots[seat] != nil {
			continue
		}
		if _, ok := ms.Presences[id]; ok {
			return true
		}
	}
	return false
}

type matchHandler struct {
	cfg     config.Game
	roster  *bot.Roster
	factory *bot.Factory
	rng     *rand.Rand
}

func newMatchHandler(cfg config.Game, roster *bot.Roster) *matchHandler {
	return &matchHandler{
		cfg:     cfg,
		roster:  roster,
		factory: bot.NewFactory(bot.DefaultConfig()),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	tier := mh.cfg.DefaultTier
	if t, ok := params["tier"].(string); ok && t != "" {
		tier = t
	}

	state := &MatchState{
		OwnerSeat:      -1,
		LastWinnerSeat: -1,
		Tier:           tier,
		Presences:      make(map[string]runtime.Presence),
		App:            app.NewService(nil, nil, mh.cfg.TaxRate),
		Economy:        NewEconomyAdapter(nk),
		Bots:           make(map[int]*bot.Agent),
	}

	label, err := marshalLabel(state.OpenSeatCount(), labelPhaseLobby, tier)
	if err != nil {
		logger.Error("MatchInit: marshal label: %v", err)
		return nil, 0, ""
	}
	return state, ticksPerSecond, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if matchState.seatOf(presence.GetUserId()) >= 0 {
		// Returning to a seat held through a disconnect.
		return matchState, true, ""
	}
	if matchState.OpenSeatCount() > 0 {
		return matchState, true, ""
	}
	// A full lobby still admits a human if a bot can give up its seat.
	if matchState.Game == nil && len(matchState.Bots) > 0 {
		return matchState, true, ""
	}
	return matchState, false, "match full"
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		if seat := matchState.seatOf(p.GetUserId()); seat >= 0 {
			// Reconnect to a seat held through a disconnect.
			continue
		}

		seat := mh.assignSeat(matchState, logger)
		if seat < 0 {
			logger.Warn("MatchJoin: no seat available for %s", p.GetUserId())
			continue
		}
		matchState.Seats[seat] = p.GetUserId()
	}

	if !mh.isHumanSeat(matchState, matchState.OwnerSeat) {
		matchState.OwnerSeat = matchState.firstHumanSeat()
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastSnapshot(ctx, matchState, dispatcher, logger)
	return matchState
}

// assignSeat picks an open seat, evicting a lobby bot when the table is
// otherwise full. Returns -1 when nothing is available.
func (mh *matchHandler) assignSeat(state *MatchState, logger runtime.Logger) int {
	for seat, id := range state.Seats {
		if id == "" {
			return seat
		}
	}
	if state.Game != nil {
		return -1
	}
	for seat := range state.Seats {
		if state.Bots[seat] != nil {
			logger.Info("MatchJoin: bot %s gives up seat %d", state.Seats[seat], seat)
			delete(state.Bots, seat)
			state.Seats[seat] = ""
			return seat
		}
	}
	return -1
}

func (mh *matchHandler) isHumanSeat(state *MatchState, seat int) bool {
	if seat < 0 || seat >= domain.NumSeats {
		return false
	}
	return state.Seats[seat] != "" && state.Bots[seat] == nil
}

func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		seat := matchState.seatOf(p.GetUserId())
		if seat < 0 {
			continue
		}
		// Mid-game the seat stays occupied so the turn clock can play it
		// out; in the lobby it opens up immediately.
		if matchState.Game == nil {
			matchState.Seats[seat] = ""
		}
	}

	if !mh.isHumanSeat(matchState, matchState.OwnerSeat) {
		matchState.OwnerSeat = matchState.firstHumanSeat()
	}

	if !matchState.humansConnected() {
		logger.Info("MatchLeave: no humans connected, terminating match")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastSnapshot(ctx, matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCards:
			mh.handlePlayCards(ctx, matchState, dispatcher, logger, msg)
		case OpPassTurn:
			mh.handlePassTurn(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: unknown opcode %d from %s", msg.GetOpCode(), msg.GetUserId())
		}
	}

	mh.processBots(ctx, matchState, dispatcher, logger)
	mh.processTurnClock(ctx, matchState, dispatcher, logger)

	return matchState
}

// processBots fills a lonely lobby with bots and plays bot turns after a
// humanizing delay.
func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil {
		if state.HumanSeatCount() != 1 {
			state.SoloSince = 0
			return
		}
		if state.SoloSince == 0 {
			state.SoloSince = state.Tick
			return
		}
		if state.Tick-state.SoloSince < int64(mh.cfg.BotFillDelaySeconds*ticksPerSecond) {
			return
		}
		state.SoloSince = 0
		if mh.fillWithBots(state, logger) {
			mh.updateLabel(state, dispatcher, logger)
			mh.broadcastSnapshot(ctx, state, dispatcher, logger)
		}
		return
	}

	if state.Game.Phase != domain.PhasePlaying {
		return
	}
	seat := state.Game.CurrentTurnSeat
	agent := state.Bots[seat]
	if agent == nil {
		state.BotActAt = 0
		return
	}

	if state.BotActAt == 0 {
		state.BotActAt = state.Tick + mh.thinkTicks()
		return
	}
	if state.Tick < state.BotActAt {
		return
	}
	state.BotActAt = 0

	move, err := agent.Act(state.Game)
	if err != nil {
		logger.Error("processBots: seat %d failed to choose a move: %v", seat, err)
	}

	var events []app.Event
	if move.Pass {
		events, err = state.App.PassTurn(state.Game, seat)
	} else {
		events, err = state.App.PlayCards(state.Game, seat, move.Cards)
	}
	if err != nil {
		// A rejected bot move falls back to the timeout action so the turn
		// can never wedge.
		logger.Warn("processBots: seat %d move rejected: %v", seat, err)
		events, err = state.App.TimeoutTurn(state.Game, seat)
		if err != nil {
			logger.Error("processBots: seat %d timeout fallback failed: %v", seat, err)
			return
		}
	}
	mh.applyEvents(ctx, state, dispatcher, logger, events)
}

// fillWithBots seats an agent in every open seat. Reports whether anything
// changed.
func (mh *matchHandler) fillWithBots(state *MatchState, logger runtime.Logger) bool {
	added := false
	for seat, id := range state.Seats {
		if id != "" {
			continue
		}
		identity := mh.roster.At(seat)
		if identity.UserID == "" {
			// Unprovisioned roster entry; a local id still fills the seat.
			identity.UserID = fmt.Sprintf("bot-seat-%d", seat)
		}
		strategy, err := mh.factory.New(bot.ParseDifficulty(identity.Difficulty), seat)
		if err != nil {
			logger.Error("fillWithBots: seat %d: %v", seat, err)
			continue
		}
		state.Seats[seat] = identity.UserID
		state.Bots[seat] = &bot.Agent{Identity: identity, Seat: seat, Strategy: strategy}
		logger.Info("fillWithBots: seated bot %s (%s) at %d", identity.Username, identity.UserID, seat)
		added = true
	}
	return added
}

func (mh *matchHandler) thinkTicks() int64 {
	minT := mh.cfg.BotMinThinkMillis * ticksPerSecond / 1000
	maxT := mh.cfg.BotMaxThinkMillis * ticksPerSecond / 1000
	if maxT < minT {
		maxT = minT
	}
	if maxT <= 0 {
		return 1
	}
	t := int64(minT)
	if maxT > minT {
		t += mh.rng.Int63n(int64(maxT-minT) + 1)
	}
	if t < 1 {
		t = 1
	}
	return t
}

// processTurnClock arms a deadline for the seat on turn and forces the
// timeout action when it expires. Bot seats are paced by processBots
// instead.
func (mh *matchHandler) processTurnClock(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil || state.Game.Phase != domain.PhasePlaying {
		state.TurnDeadline = 0
		return
	}

	seat := state.Game.CurrentTurnSeat
	if state.TurnDeadline == 0 || state.TurnSeat != seat {
		state.TurnSeat = seat
		state.TurnDeadline = state.Tick + int64(mh.cfg.TurnDurationSeconds*ticksPerSecond)
		mh.broadcastTurnClock(state, dispatcher, logger)
		return
	}

	if state.isBotSeat(seat) || state.Tick < state.TurnDeadline {
		return
	}

	logger.Info("processTurnClock: seat %d timed out", seat)
	events, err := state.App.TimeoutTurn(state.Game, seat)
	if err != nil {
		logger.Error("processTurnClock: timeout action failed for seat %d: %v", seat, err)
		state.TurnDeadline = 0
		return
	}
	mh.applyEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) broadcastTurnClock(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	msg := turnClockMessage{Seat: state.TurnSeat, SecondsRemaining: mh.cfg.TurnDurationSeconds}
	bytes, err := json.Marshal(msg)
	if err != nil {
		logger.Error("broadcastTurnClock: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpTurnClock, bytes, nil, nil, true)
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderSeat := state.seatOf(msg.GetUserId())
	if senderSeat < 0 || senderSeat != state.OwnerSeat {
		logger.Warn("handleStartGame: %s is not the owner (seat %d, owner %d)", msg.GetUserId(), senderSeat, state.OwnerSeat)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "only the owner can start the game")
		return
	}
	if state.Game != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "game already running")
		return
	}

	var req startGameRequest
	if len(msg.GetData()) > 0 {
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			logger.Warn("handleStartGame: bad request from %s: %v", msg.GetUserId(), err)
			mh.sendError(state, dispatcher, logger, msg.GetUserId(), "malformed start request")
			return
		}
	}
	if req.Tier != "" {
		state.Tier = req.Tier
	}

	game, events, err := state.App.StartGame(state.Seats, state.LastWinnerSeat, mh.cfg.BaseBet(state.Tier))
	if err != nil {
		logger.Warn("handleStartGame: %v", err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), err.Error())
		return
	}

	state.Game = game
	state.TurnDeadline = 0
	state.BotActAt = 0
	mh.updateLabel(state, dispatcher, logger)
	mh.applyEvents(ctx, state, dispatcher, logger, events)
	logger.Info("handleStartGame: dealt %d seats, seat %d leads", state.OccupiedSeatCount(), game.CurrentTurnSeat)
}

func (mh *matchHandler) handlePlayCards(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderSeat := state.seatOf(msg.GetUserId())
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "no game in progress")
		return
	}

	var req playCardsRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handlePlayCards: bad request from %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "malformed play request")
		return
	}

	events, err := state.App.PlayCards(state.Game, senderSeat, fromWireCards(req.Cards))
	if err != nil {
		logger.Warn("handlePlayCards: seat %d rejected: %v", senderSeat, err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), err.Error())
		return
	}
	mh.applyEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handlePassTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderSeat := state.seatOf(msg.GetUserId())
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "no game in progress")
		return
	}

	events, err := state.App.PassTurn(state.Game, senderSeat)
	if err != nil {
		logger.Warn("handlePassTurn: seat %d rejected: %v", senderSeat, err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), err.Error())
		return
	}
	mh.applyEvents(ctx, state, dispatcher, logger, events)
}

// applyEvents delivers a batch of game events: every bot observes them, the
// game-ended event settles wallets, and each event is sent to its human
// recipients.
func (mh *matchHandler) applyEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.notifyBots(state, ev)

		if ended, ok := ev.Payload.(app.GameEndedPayload); ok {
			mh.settle(ctx, state, logger, ended)
			if len(ended.FinishOrderSeats) > 0 {
				state.LastWinnerSeat = ended.FinishOrderSeats[0]
			}
		}

		opCode, bytes, err := encodeEvent(ev)
		if err != nil {
			logger.Error("applyEvents: %v", err)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.RecipientSeats) > 0 {
			for _, seat := range ev.RecipientSeats {
				if !mh.isHumanSeat(state, seat) {
					continue
				}
				if p, ok := state.Presences[state.Seats[seat]]; ok {
					recipients = append(recipients, p)
				}
			}
			// Targeted events with no connected human recipients must not
			// leak to the table.
			if len(recipients) == 0 {
				continue
			}
		}
		dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
	}

	// The ended game is torn down only after every event went out, so the
	// final card play still encodes against a live game.
	for _, ev := range events {
		if _, ok := ev.Payload.(app.GameEndedPayload); ok {
			state.Game = nil
			state.TurnDeadline = 0
			state.BotActAt = 0
			mh.updateLabel(state, dispatcher, logger)
			mh.broadcastSnapshot(ctx, state, dispatcher, logger)
		}
	}
}

func (mh *matchHandler) notifyBots(state *MatchState, ev app.Event) {
	if len(ev.RecipientSeats) == 0 {
		for _, agent := range state.Bots {
			agent.Observe(ev, false)
		}
		return
	}
	for _, seat := range ev.RecipientSeats {
		if agent := state.Bots[seat]; agent != nil {
			agent.Observe(ev, true)
		}
	}
}

// settle credits the game's balance changes to human wallets. Bot seats
// play with house money and are skipped.
func (mh *matchHandler) settle(ctx context.Context, state *MatchState, logger runtime.Logger, ended app.GameEndedPayload) {
	if state.Economy == nil {
		return
	}
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	updates := make([]ports.WalletUpdate, 0, len(ended.BalanceChanges))
	for userID, amount := range ended.BalanceChanges {
		if state.isBotUser(userID) {
			continue
		}
		updates = append(updates, ports.WalletUpdate{
			UserID: userID,
			Amount: amount,
			Metadata: map[string]interface{}{
				"match_id": matchID,
				"reason":   "game_settlement",
			},
		})
	}
	if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
		logger.Error("settle: wallet updates failed: %v", err)
	}
}

// broadcastSnapshot sends the seating view on OpMatchState.
func (mh *matchHandler) broadcastSnapshot(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	phase := labelPhaseLobby
	if state.Game != nil {
		phase = labelPhasePlaying
	}

	snapshot := matchSnapshot{OwnerSeat: state.OwnerSeat, Phase: phase, Tier: state.Tier}
	for seat, userID := range state.Seats {
		if userID == "" {
			continue
		}

		ps := playerSnapshot{
			UserID:  userID,
			Seat:    seat,
			IsOwner: seat == state.OwnerSeat,
			IsBot:   state.Bots[seat] != nil,
		}
		if agent := state.Bots[seat]; agent != nil {
			ps.DisplayName = agent.Identity.DisplayName
			ps.AvatarIndex = agent.Identity.AvatarIndex
		} else if p, ok := state.Presences[userID]; ok {
			ps.DisplayName = p.GetUsername()
		}
		if state.Game != nil {
			if player := state.Game.PlayerAt(seat); player != nil {
				ps.CardsRemaining = len(player.Hand)
			}
		}
		if state.Economy != nil {
			if balance, err := state.Economy.GetBalance(ctx, userID); err == nil {
				ps.Balance = balance
			}
		}
		snapshot.Players = append(snapshot.Players, ps)
	}

	bytes, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("broadcastSnapshot: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpMatchState, bytes, nil, nil, true)
}

func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	bytes, err := json.Marshal(errorMessage{Code: errorCodeRejected, Message: message})
	if err != nil {
		logger.Error("sendError: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	phase := labelPhaseLobby
	if state.Game != nil {
		phase = labelPhasePlaying
	}
	label, err := marshalLabel(state.OpenSeatCount(), phase, state.Tier)
	if err != nil {
		logger.Error("updateLabel: marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("updateLabel: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
