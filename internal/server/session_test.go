package server

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tymlipari/MRECards/internal/game"
	"github.com/tymlipari/MRECards/internal/protocol"
	"github.com/tymlipari/MRECards/internal/randutil"
)

func testSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(log.New(io.Discard), randutil.New(1), quartz.NewMock(t), DefaultConfig().Table)
}

func TestHandleAction_RequiresJoin(t *testing.T) {
	t.Parallel()
	s := testSession(t)
	conn := &Connection{}

	err := s.HandleAction(conn, &protocol.Action{Type: protocol.TypeAction, Action: "fold"})
	require.Error(t, err)
}

func TestHandleAction_RejectsOutOfTurn(t *testing.T) {
	t.Parallel()
	s := testSession(t)
	conn := &Connection{}
	conn.SetName("bob")

	s.pending = &pendingPrompt{
		player: "alice",
		legal:  []game.Action{game.Fold, game.Check},
		ch:     make(chan game.ActionResponse, 1),
	}

	err := s.HandleAction(conn, &protocol.Action{Type: protocol.TypeAction, Action: "fold"})
	require.Error(t, err)
	assert.NotNil(t, s.pending, "prompt should survive a wrong-turn answer")
}

func TestHandleAction_RejectsIllegalChoice(t *testing.T) {
	t.Parallel()
	s := testSession(t)
	conn := &Connection{}
	conn.SetName("alice")

	s.pending = &pendingPrompt{
		player: "alice",
		legal:  []game.Action{game.Fold, game.Call},
		ch:     make(chan game.ActionResponse, 1),
	}

	err := s.HandleAction(conn, &protocol.Action{Type: protocol.TypeAction, Action: "check"})
	require.Error(t, err)

	err = s.HandleAction(conn, &protocol.Action{Type: protocol.TypeAction, Action: "raise", Amount: 10})
	require.Error(t, err, "raise is not in the legal set")

	err = s.HandleAction(conn, &protocol.Action{Type: protocol.TypeAction, Action: "jump"})
	require.Error(t, err)
}

func TestHandleAction_DeliversResponse(t *testing.T) {
	t.Parallel()
	s := testSession(t)
	conn := &Connection{}
	conn.SetName("alice")

	ch := make(chan game.ActionResponse, 1)
	s.pending = &pendingPrompt{
		player: "alice",
		legal:  []game.Action{game.Fold, game.Check, game.Raise},
		ch:     ch,
	}

	err := s.HandleAction(conn, &protocol.Action{Type: protocol.TypeAction, Action: "raise", Amount: 20})
	require.NoError(t, err)

	resp := <-ch
	assert.Equal(t, game.Raise, resp.Action)
	assert.Equal(t, 20, resp.RaiseBy)
	assert.Nil(t, s.pending, "answered prompt should be cleared")
}

func TestHandleAction_RaiseNeedsPositiveAmount(t *testing.T) {
	t.Parallel()
	s := testSession(t)
	conn := &Connection{}
	conn.SetName("alice")

	s.pending = &pendingPrompt{
		player: "alice",
		legal:  []game.Action{game.Fold, game.Raise},
		ch:     make(chan game.ActionResponse, 1),
	}

	err := s.HandleAction(conn, &protocol.Action{Type: protocol.TypeAction, Action: "raise", Amount: 0})
	require.Error(t, err)
}

func TestSessionJoin_SeatsPlayer(t *testing.T) {
	t.Parallel()
	s := testSession(t)

	require.Error(t, s.Join(&Connection{}, ""), "empty name is rejected")

	// Joining through the session requires a live websocket for the
	// welcome message, so seat bookkeeping is covered via the table.
	p, err := s.Table().Join("alice")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Seat)
	assert.Equal(t, DefaultConfig().Table.StartingBank, p.Bank)
}

func TestParseAction(t *testing.T) {
	t.Parallel()
	for name, want := range map[string]game.Action{
		"fold":  game.Fold,
		"check": game.Check,
		"call":  game.Call,
		"raise": game.Raise,
	} {
		got, err := parseAction(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := parseAction("allin")
	require.Error(t, err)
}
