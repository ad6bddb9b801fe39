package game

import "errors"

var (
	// ErrIllegalAction is returned when a received action violates the
	// acting player's current legal-action set. The caller should re-prompt
	// the same player; table state is untouched.
	ErrIllegalAction = errors.New("illegal action")

	// ErrOutOfTurn is returned when an action arrives for a player other
	// than the one currently awaited.
	ErrOutOfTurn = errors.New("not player's turn")

	// ErrBoardNotFinal is returned when showdown evaluation is requested
	// before the board holds exactly five cards. This is a sequencing bug
	// in the caller, not a recoverable condition.
	ErrBoardNotFinal = errors.New("board must have 5 cards before showdown")

	// ErrAlreadySeated is returned by Table.Join for a duplicate identity.
	ErrAlreadySeated = errors.New("player already seated")

	// ErrUnknownPlayer is returned when an identity is not at the table.
	ErrUnknownPlayer = errors.New("player not at table")

	// ErrNotEnoughPlayers is returned by Table.PlayHand with fewer than
	// two seated players.
	ErrNotEnoughPlayers = errors.New("not enough players")

	// ErrHandInProgress is returned by Table.PlayHand while a hand is
	// already running.
	ErrHandInProgress = errors.New("hand already in progress")
)
