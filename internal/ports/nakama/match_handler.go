package nakama

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"durak/internal/app"
	"durak/internal/config"
	"durak/internal/domain"
	"durak/internal/ports"
)

// MatchState holds the authoritative runtime state of one private game.
type MatchState struct {
	UserID     string           // Owner; the only user allowed to join
	Resume     bool             // Continue the saved game instead of dealing a new one
	Presence   runtime.Presence // Owner presence, nil while disconnected
	Started    bool             // Session started or resumed
	Tick       int64            // Current match tick
	EmptyTicks int64            // Consecutive ticks without the owner
	Profile    *app.Profile     // Stats, settings and save of the owner
	Session    *app.Session     // Game session driven by the tick loop
}

func newMatchState(userID string, resume bool, store ports.KeyValueStore, cfg config.GameConfig, rng *rand.Rand) *MatchState {
	profile := app.NewProfile(store)
	return &MatchState{
		UserID:  userID,
		Resume:  resume,
		Profile: profile,
		Session: app.NewSession(app.NewService(rng, cfg), profile, cfg),
	}
}

type matchHandler struct {
	cfg config.GameConfig
	now func() time.Time
}

func newMatchHandler(cfg config.GameConfig) *matchHandler {
	return &matchHandler{cfg: cfg, now: time.Now}
}

// MatchInit is called when the match is created by RpcStart.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	userID, _ := params[paramUserID].(string)
	if userID == "" {
		logger.Error("MatchInit: missing %s param", paramUserID)
		return nil, 0, ""
	}
	resume, _ := params[paramResume].(bool)
	logger.Debug("MatchInit: creating match for %s (resume=%t)", userID, resume)

	state := newMatchState(userID, resume, NewNakamaStorageAdapter(nk, userID), mh.cfg, nil)
	label, err := encodeLabel(waitingLabel())
	if err != nil {
		logger.Error("MatchInit: %v", err)
		return nil, 0, ""
	}
	return state, mh.cfg.TickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	if presence.GetUserId() != matchState.UserID {
		return state, false, "match is private"
	}
	if matchState.Presence != nil {
		return state, false, "already joined"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}
	for _, p := range presences {
		if p.GetUserId() == matchState.UserID {
			matchState.Presence = p
		}
	}
	if matchState.Presence == nil {
		return matchState
	}

	if !matchState.Started {
		mh.startSession(ctx, matchState, dispatcher, logger)
	}
	mh.sendState(matchState, dispatcher, logger)
	return matchState
}

// startSession resumes the saved game or deals a new one with the owner's
// settings. A resume without a usable save falls back to a new game.
func (mh *matchHandler) startSession(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	now := mh.now()
	var events []app.Event
	var err error
	if state.Resume {
		events, err = state.Session.Resume(ctx, now)
		if errors.Is(err, app.ErrNoSavedGame) {
			logger.Warn("startSession: nothing to resume for %s: %v", state.UserID, err)
			state.Resume = false
		}
	}
	if !state.Resume {
		settings, lerr := state.Profile.LoadSettings(ctx)
		if lerr != nil {
			logger.Warn("startSession: using default settings for %s: %v", state.UserID, lerr)
		}
		events, err = state.Session.Start(ctx, settings, now)
	}
	if err != nil {
		logger.Error("startSession: failed for %s: %v", state.UserID, err)
		mh.sendError(state, dispatcher, logger, errCodeInternal, err.Error())
	}
	if state.Session.Game() == nil {
		return
	}
	state.Started = true
	logger.Info("startSession: game %s for %s", state.Session.ID(), state.UserID)
	mh.publish(state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

// MatchLeave terminates the match once the owner leaves. The game stays saved
// and can be resumed from a new match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}
	for _, p := range presences {
		if p.GetUserId() == matchState.UserID {
			matchState.Presence = nil
			matchState.Session.Stop()
			logger.Info("MatchLeave: owner %s left, terminating match.", matchState.UserID)
			return nil
		}
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	if matchState.Presence == nil {
		matchState.EmptyTicks++
		if matchState.EmptyTicks > int64(emptyMatchSeconds*mh.cfg.TickRate) {
			logger.Info("MatchLoop: owner %s never connected, terminating match.", matchState.UserID)
			return nil
		}
		return matchState
	}
	matchState.EmptyTicks = 0

	now := mh.now()
	changed := false
	for _, msg := range messages {
		if msg.GetUserId() != matchState.UserID {
			continue
		}
		if msg.GetOpCode() == OpExit {
			if err := matchState.Session.Exit(ctx); err != nil {
				logger.Error("MatchLoop: exit failed for %s: %v", matchState.UserID, err)
			}
			logger.Info("MatchLoop: %s left the game.", matchState.UserID)
			return nil
		}
		events, err := mh.handleIntent(ctx, matchState, msg, now)
		if errors.Is(err, errBadIntent) {
			logger.Warn("MatchLoop: intent %d from %s rejected: %v", msg.GetOpCode(), matchState.UserID, err)
			mh.sendError(matchState, dispatcher, logger, errCodeBadRequest, err.Error())
			continue
		}
		// A session error can follow an applied move, so its events still go out.
		mh.publish(matchState, dispatcher, logger, events)
		changed = true
		if err != nil {
			logger.Error("MatchLoop: intent %d for game %s failed: %v", msg.GetOpCode(), matchState.Session.ID(), err)
			mh.sendError(matchState, dispatcher, logger, errCodeInternal, err.Error())
		}
	}

	events, err := matchState.Session.Advance(ctx, now)
	if len(events) > 0 {
		mh.publish(matchState, dispatcher, logger, events)
		changed = true
	}
	if err != nil {
		logger.Error("MatchLoop: advance failed for game %s: %v", matchState.Session.ID(), err)
		mh.sendError(matchState, dispatcher, logger, errCodeInternal, err.Error())
	}

	if changed {
		mh.sendState(matchState, dispatcher, logger)
		mh.updateLabel(matchState, dispatcher, logger)
	}
	return matchState
}

var (
	errBadIntent     = errors.New("bad intent")
	errUnknownOpCode = fmt.Errorf("%w: unknown op code", errBadIntent)
)

// handleIntent applies one client message to the session.
func (mh *matchHandler) handleIntent(ctx context.Context, state *MatchState, msg runtime.MatchData, now time.Time) ([]app.Event, error) {
	s := state.Session
	switch msg.GetOpCode() {
	case OpSelect:
		idx, err := decodeIndex(msg.GetData())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errBadIntent, err)
		}
		s.Select(idx)
		return nil, nil
	case OpPlay:
		idx, err := decodeIndex(msg.GetData())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errBadIntent, err)
		}
		return s.Play(ctx, idx, now)
	case OpMain:
		return s.Main(ctx, now)
	case OpSecondary:
		return s.Secondary(ctx, now)
	default:
		return nil, errUnknownOpCode
	}
}

// publish sends events to the owner.
func (mh *matchHandler) publish(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		data, err := encodeEvent(ev)
		if err != nil {
			logger.Error("publish: %v", err)
			continue
		}
		mh.send(state, dispatcher, logger, OpEvent, data)
	}
}

func (mh *matchHandler) sendState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	view, ok := state.Session.View()
	if !ok {
		return
	}
	data, err := encodeState(state.Session.Status(), view)
	if err != nil {
		logger.Error("sendState: %v", err)
		return
	}
	mh.send(state, dispatcher, logger, OpState, data)
}

func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, code int, message string) {
	data, err := encodeError(code, message)
	if err != nil {
		logger.Error("sendError: %v", err)
		return
	}
	mh.send(state, dispatcher, logger, OpError, data)
}

func (mh *matchHandler) send(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, data []byte) {
	if state.Presence == nil {
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, data, []runtime.Presence{state.Presence}, nil, true); err != nil {
		logger.Error("send: op %d to %s failed: %v", opCode, state.UserID, err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label := waitingLabel()
	if g := state.Session.Game(); g != nil {
		label = domain.ComputeLabel(g)
	}
	encoded, err := encodeLabel(label)
	if err != nil {
		logger.Error("UpdateLabel: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(encoded); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	if matchState, ok := state.(*MatchState); ok {
		matchState.Session.Stop()
	}
	logger.Debug("MatchTerminate: Match terminated (grace %ds)", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
