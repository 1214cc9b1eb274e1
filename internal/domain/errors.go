package domain

import "errors"

var (
	ErrGameOver           = errors.New("game is over")
	ErrUnknownSeat        = errors.New("unknown seat")
	ErrPlayerOut          = errors.New("player is out")
	ErrNotYourRole        = errors.New("player does not hold the required role")
	ErrWrongPhase         = errors.New("action not allowed in current phase")
	ErrCardNotInHand      = errors.New("card not in hand")
	ErrRankNotOnTable     = errors.New("rank not on table")
	ErrTableFull          = errors.New("table is full")
	ErrDefenderOverloaded = errors.New("defender cannot answer another attack")
	ErrCannotBeat         = errors.New("card cannot beat any open attack")
	ErrCannotTransfer     = errors.New("transfer not allowed")
	ErrAlreadyPassed      = errors.New("toss already declined this bout")
	ErrInvalidSetup       = errors.New("invalid game setup")
	ErrInvalidSnapshot    = errors.New("invalid snapshot")
)
