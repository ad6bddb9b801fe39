package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tymlipari/MRECards/internal/randutil"
)

// blockingPrompter lets a test hold a hand open mid-prompt.
type blockingPrompter struct {
	started chan ActionRequest
	release chan ActionResponse
}

func newBlockingPrompter() *blockingPrompter {
	return &blockingPrompter{
		started: make(chan ActionRequest),
		release: make(chan ActionResponse),
	}
}

func (p *blockingPrompter) PromptAction(ctx context.Context, req ActionRequest) (ActionResponse, error) {
	p.started <- req
	select {
	case resp := <-p.release:
		return resp, nil
	case <-ctx.Done():
		return ActionResponse{}, ctx.Err()
	}
}

func TestTableJoin_AssignsContiguousSeats(t *testing.T) {
	t.Parallel()
	table := NewTable(testLogger(), randutil.New(1), nil, nil, WithStartingBank(250))

	a, err := table.Join("alice")
	require.NoError(t, err)
	b, err := table.Join("bob")
	require.NoError(t, err)

	assert.Equal(t, 0, a.Seat)
	assert.Equal(t, 1, b.Seat)
	assert.Equal(t, 250, a.Bank)
	assert.Equal(t, 2, table.Seated())
}

func TestTableJoin_DuplicateName(t *testing.T) {
	t.Parallel()
	table := NewTable(testLogger(), randutil.New(1), nil, nil)

	_, err := table.Join("alice")
	require.NoError(t, err)
	_, err = table.Join("alice")
	require.ErrorIs(t, err, ErrAlreadySeated)
}

func TestTableLeave_RenumbersSeats(t *testing.T) {
	t.Parallel()
	table := NewTable(testLogger(), randutil.New(1), nil, nil)

	_, err := table.Join("alice")
	require.NoError(t, err)
	_, err = table.Join("bob")
	require.NoError(t, err)
	charlie, err := table.Join("charlie")
	require.NoError(t, err)

	require.NoError(t, table.Leave("bob"))

	players := table.Players()
	require.Len(t, players, 2)
	assert.Equal(t, "alice", players[0].ID)
	assert.Equal(t, 0, players[0].Seat)
	assert.Equal(t, "charlie", players[1].ID)
	assert.Equal(t, 1, players[1].Seat)
	assert.Equal(t, 1, charlie.Seat)
}

func TestTableLeave_UnknownPlayer(t *testing.T) {
	t.Parallel()
	table := NewTable(testLogger(), randutil.New(1), nil, nil)

	err := table.Leave("nobody")
	require.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestPlayHand_RequiresTwoPlayers(t *testing.T) {
	t.Parallel()
	table := NewTable(testLogger(), randutil.New(1), nil, nil)

	_, err := table.Join("alice")
	require.NoError(t, err)

	_, err = table.PlayHand(context.Background())
	require.ErrorIs(t, err, ErrNotEnoughPlayers)
}

func TestPlayHand_AdvancesDealerAndResetsHands(t *testing.T) {
	t.Parallel()
	// Heads-up with dealer at seat 0: bob posts small blind and opens
	prompter := &scriptedPrompter{t: t, steps: []step{
		{player: "bob", resp: ActionResponse{Action: Fold}},
	}}
	table := NewTable(testLogger(), randutil.New(1), prompter, &fakeRanker{ordinals: []int{0, 0}},
		WithTableBlinds(5, 10))

	alice, err := table.Join("alice")
	require.NoError(t, err)
	bob, err := table.Join("bob")
	require.NoError(t, err)

	result, err := table.PlayHand(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"alice"}, result.Winners)
	assert.Equal(t, 105, alice.Bank)
	assert.Equal(t, 95, bob.Bank)

	assert.Equal(t, 1, table.DealerSeat(), "button should advance after the hand")
	assert.Empty(t, alice.Hand, "hole cards should be cleared between hands")
	assert.Zero(t, alice.StreetBet)
	assert.False(t, bob.Acted)
}

func TestPlayHand_RejectsConcurrentHands(t *testing.T) {
	t.Parallel()
	prompter := newBlockingPrompter()
	table := NewTable(testLogger(), randutil.New(1), prompter, &fakeRanker{ordinals: []int{0, 0}})

	_, err := table.Join("alice")
	require.NoError(t, err)
	_, err = table.Join("bob")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := table.PlayHand(context.Background())
		done <- err
	}()

	<-prompter.started

	_, err = table.PlayHand(context.Background())
	require.ErrorIs(t, err, ErrHandInProgress)

	prompter.release <- ActionResponse{Action: Fold}
	require.NoError(t, <-done)
}

func TestLeave_MidHandForfeits(t *testing.T) {
	t.Parallel()
	prompter := newBlockingPrompter()
	table := NewTable(testLogger(), randutil.New(1), prompter, &fakeRanker{ordinals: []int{0, 0}})

	_, err := table.Join("alice")
	require.NoError(t, err)
	_, err = table.Join("bob")
	require.NoError(t, err)
	charlie, err := table.Join("charlie")
	require.NoError(t, err)

	done := make(chan *HandResult, 1)
	go func() {
		result, err := table.PlayHand(context.Background())
		require.NoError(t, err)
		done <- result
	}()

	// First prompt goes to alice; she leaves instead of answering
	req := <-prompter.started
	require.Equal(t, "alice", req.PlayerID)
	require.NoError(t, table.Leave("alice"))
	prompter.release <- ActionResponse{Action: Fold}

	// Bob is prompted next and folds, leaving charlie uncontested
	req = <-prompter.started
	require.Equal(t, "bob", req.PlayerID)
	prompter.release <- ActionResponse{Action: Fold}

	result := <-done
	assert.Equal(t, []string{"charlie"}, result.Winners)
	assert.Equal(t, 2, table.Seated())
	assert.Equal(t, 105, charlie.Bank)
}

func TestLeave_DealerMidHandFlopOpensAtLowestSeat(t *testing.T) {
	t.Parallel()
	prompter := newBlockingPrompter()
	table := NewTable(testLogger(), randutil.New(1), prompter, &fakeRanker{ordinals: []int{0, 0}})

	_, err := table.Join("alice")
	require.NoError(t, err)
	bob, err := table.Join("bob")
	require.NoError(t, err)
	charlie, err := table.Join("charlie")
	require.NoError(t, err)

	done := make(chan *HandResult, 1)
	go func() {
		result, err := table.PlayHand(context.Background())
		require.NoError(t, err)
		done <- result
	}()

	// Alice holds the button and opens pre-flop; she leaves instead of
	// answering
	req := <-prompter.started
	require.Equal(t, "alice", req.PlayerID)
	require.NoError(t, table.Leave("alice"))
	prompter.release <- ActionResponse{Action: Fold}

	// Bob calls and charlie checks the big blind to close pre-flop
	req = <-prompter.started
	require.Equal(t, "bob", req.PlayerID)
	prompter.release <- ActionResponse{Action: Call}
	req = <-prompter.started
	require.Equal(t, "charlie", req.PlayerID)
	prompter.release <- ActionResponse{Action: Check}

	// With the dealer gone the flop opens at the lowest remaining seat
	req = <-prompter.started
	require.Equal(t, Flop, req.Street)
	require.Equal(t, "bob", req.PlayerID)
	prompter.release <- ActionResponse{Action: Fold}

	result := <-done
	assert.Equal(t, []string{"charlie"}, result.Winners)
	assert.Equal(t, 110, charlie.Bank)
	assert.Equal(t, 0, bob.Seat, "seats renumber once the hand settles")
	assert.Equal(t, 1, charlie.Seat)
	assert.Equal(t, 0, table.DealerSeat(), "button passes to the seat after the departed dealer")
}
