package app

import "durak/internal/domain"

// EventKind identifies emitted game events for host dispatch.
type EventKind string

const (
	EventGameStarted EventKind = "game_started"
	EventCardPlayed  EventKind = "card_played"
	EventTransferred EventKind = "transferred"
	EventTaking      EventKind = "taking"
	EventPassed      EventKind = "passed"
	EventBoutEnded   EventKind = "bout_ended"
	EventPlayerOut   EventKind = "player_out"
	EventGameEnded   EventKind = "game_ended"
	EventIllegalMove EventKind = "illegal_move"
	EventAwaitInput  EventKind = "await_input"
	EventNotice      EventKind = "notice"
)

// Event is an app event. Payload is one of the *Payload types below.
type Event struct {
	Kind    EventKind
	Payload any
}

type GameStartedPayload struct {
	GameID     string            `json:"gameId"`
	Mode       domain.Mode       `json:"mode"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Trump      domain.Card       `json:"trump"`
	Players    []string          `json:"players"`
}

type CardPlayedPayload struct {
	Seat int             `json:"seat"`
	Card domain.Card     `json:"card"`
	Kind domain.MoveKind `json:"kind"`
	Pair int             `json:"pair"`
}

type TransferredPayload struct {
	Seat     int         `json:"seat"`
	Card     domain.Card `json:"card"`
	Attacker int         `json:"attacker"`
	Defender int         `json:"defender"`
}

type TakingPayload struct {
	Seat int `json:"seat"`
}

type PassedPayload struct {
	Seat int `json:"seat"`
}

type BoutEndedPayload struct {
	Result   domain.BoutResult `json:"result"`
	Attacker int               `json:"attacker"`
	Defender int               `json:"defender"`
	DeckSize int               `json:"deckSize"`
}

type PlayerOutPayload struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
}

type GameEndedPayload struct {
	Outcome domain.Outcome `json:"outcome"`
	Stats   Stats          `json:"stats"`
}

type IllegalMovePayload struct {
	Seat   int    `json:"seat"`
	Reason string `json:"reason"`
}

type AwaitInputPayload struct {
	Main      Button `json:"main"`
	Secondary Button `json:"secondary"`
}

type NoticePayload struct {
	Text string `json:"text"`
}

func notice(text string) Event {
	return Event{Kind: EventNotice, Payload: NoticePayload{Text: text}}
}
