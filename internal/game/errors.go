package game

import (
	"errors"
	"fmt"
)

// Rejections are expected, user-facing outcomes. Every rejection leaves
// the game unmodified; transitions are all-or-nothing.
var (
	ErrNoGame            = errors.New("no game in progress")
	ErrAlreadyJoined     = errors.New("already joined")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrAlreadyEliminated = errors.New("already eliminated")
	ErrMustShoot         = errors.New("must shoot")
	ErrInvalidAmount     = errors.New("deposit amount must be a positive integer")
)

// WrongStatusError rejects an action that requires the game to be in a
// different status.
type WrongStatusError struct {
	Status Status
}

func (e *WrongStatusError) Error() string {
	return fmt.Sprintf("game already %s", e.Status)
}

// NotEnoughPlayersError rejects a start with fewer than two players.
type NotEnoughPlayersError struct {
	Count int
}

func (e *NotEnoughPlayersError) Error() string {
	return fmt.Sprintf("need at least 2 players to start, have %d", e.Count)
}
