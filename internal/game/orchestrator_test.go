package game

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tymlipari/MRECards/internal/deck"
	"github.com/tymlipari/MRECards/internal/randutil"
)

// step is one expected prompt and its scripted answer.
type step struct {
	player string
	resp   ActionResponse
	err    error
}

// scriptedPrompter verifies prompt order and replays canned responses.
type scriptedPrompter struct {
	t     *testing.T
	steps []step
	next  int
}

func (p *scriptedPrompter) PromptAction(_ context.Context, req ActionRequest) (ActionResponse, error) {
	require.Less(p.t, p.next, len(p.steps), "unexpected prompt for %s on %s", req.PlayerID, req.Street)
	st := p.steps[p.next]
	p.next++
	require.Equal(p.t, st.player, req.PlayerID, "prompt %d out of order", p.next)
	return st.resp, st.err
}

// fakeRanker returns fixed ordinals and records its invocations.
type fakeRanker struct {
	ordinals []int
	calls    int
	holes    [][2]deck.Card
}

func (r *fakeRanker) RankHands(holes [][2]deck.Card, _ [5]deck.Card) ([]int, error) {
	r.calls++
	r.holes = holes
	return r.ordinals[:len(holes)], nil
}

// recordingSink captures published events for assertions.
type recordingSink struct {
	events []Event
}

func (s *recordingSink) Publish(ev Event) {
	s.events = append(s.events, ev)
}

func (s *recordingSink) kinds() []string {
	out := make([]string, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Kind()
	}
	return out
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestNewOrchestrator_Validation(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		NewOrchestrator(testLogger(), randutil.New(1), testPlayers(100), nil, nil)
	}, "one player should panic")

	require.Panics(t, func() {
		NewOrchestrator(testLogger(), nil, testPlayers(100, 100), nil, nil)
	}, "nil rng without a deck should panic")
}

func TestRun_CheckedAndCalledToShowdown(t *testing.T) {
	t.Parallel()
	players := testPlayers(100, 100, 100)
	prompter := &scriptedPrompter{t: t, steps: []step{
		// Pre-flop: blinds 5/10 on B and C, A opens
		{player: "A", resp: ActionResponse{Action: Call}},
		{player: "B", resp: ActionResponse{Action: Call}},
		{player: "C", resp: ActionResponse{Action: Check}},
		// Flop: B opens, raises into C and A
		{player: "B", resp: ActionResponse{Action: Raise, RaiseBy: 10}},
		{player: "C", resp: ActionResponse{Action: Fold}},
		{player: "A", resp: ActionResponse{Action: Call}},
		// Turn and river check through
		{player: "B", resp: ActionResponse{Action: Check}},
		{player: "A", resp: ActionResponse{Action: Check}},
		{player: "B", resp: ActionResponse{Action: Check}},
		{player: "A", resp: ActionResponse{Action: Check}},
	}}
	ranker := &fakeRanker{ordinals: []int{0, 1}}
	sink := &recordingSink{}

	o := NewOrchestrator(testLogger(), randutil.New(42), players, prompter, ranker,
		WithBlinds(5, 10), WithEvents(sink))
	result, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 50, result.Pot)
	assert.Equal(t, []string{"A"}, result.Winners)
	assert.Equal(t, map[string]int{"A": 50}, result.Payouts)
	assert.True(t, result.Showdown)

	// A contributed 20 and won the pot; C folded after the big blind
	assert.Equal(t, 130, players[0].Bank)
	assert.Equal(t, 80, players[1].Bank)
	assert.Equal(t, 90, players[2].Bank)

	require.Equal(t, 1, ranker.calls)
	assert.Len(t, ranker.holes, 2)

	kinds := sink.kinds()
	assert.Contains(t, kinds, "hand_started")
	assert.Contains(t, kinds, "street_dealt")
	assert.Contains(t, kinds, "hand_ended")
	assert.Equal(t, "hand_ended", kinds[len(kinds)-1])
}

func TestRun_UncontestedWinSkipsRanker(t *testing.T) {
	t.Parallel()
	players := testPlayers(100, 100, 100)
	prompter := &scriptedPrompter{t: t, steps: []step{
		{player: "A", resp: ActionResponse{Action: Fold}},
		{player: "B", resp: ActionResponse{Action: Fold}},
	}}
	ranker := &fakeRanker{ordinals: []int{0}}

	o := NewOrchestrator(testLogger(), randutil.New(42), players, prompter, ranker,
		WithBlinds(5, 10))
	result, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 15, result.Pot)
	assert.Equal(t, []string{"C"}, result.Winners)
	assert.False(t, result.Showdown)
	assert.Equal(t, 105, players[2].Bank)
	assert.Equal(t, 95, players[1].Bank)

	assert.Zero(t, ranker.calls, "hand evaluation must be skipped on an uncontested win")
}

func TestRun_SplitPotRemainderToLowestSeat(t *testing.T) {
	t.Parallel()
	players := testPlayers(100, 100, 100)
	prompter := &scriptedPrompter{t: t, steps: []step{
		// Pre-flop with 3/7 blinds builds an odd pot of 21
		{player: "A", resp: ActionResponse{Action: Call}},
		{player: "B", resp: ActionResponse{Action: Call}},
		{player: "C", resp: ActionResponse{Action: Check}},
		// Flop: C drops out
		{player: "B", resp: ActionResponse{Action: Check}},
		{player: "C", resp: ActionResponse{Action: Fold}},
		{player: "A", resp: ActionResponse{Action: Check}},
		// Turn and river check through
		{player: "B", resp: ActionResponse{Action: Check}},
		{player: "A", resp: ActionResponse{Action: Check}},
		{player: "B", resp: ActionResponse{Action: Check}},
		{player: "A", resp: ActionResponse{Action: Check}},
	}}
	ranker := &fakeRanker{ordinals: []int{0, 0}}

	o := NewOrchestrator(testLogger(), randutil.New(42), players, prompter, ranker,
		WithBlinds(3, 7))
	result, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 21, result.Pot)
	assert.Equal(t, []string{"A", "B"}, result.Winners)
	assert.Equal(t, map[string]int{"A": 11, "B": 10}, result.Payouts)
	assert.Equal(t, 104, players[0].Bank)
	assert.Equal(t, 103, players[1].Bank)
}

func TestRun_ShortStackBigBlindPlaysCapped(t *testing.T) {
	t.Parallel()
	// C cannot cover the big blind; the posted amount is capped at 8
	players := testPlayers(100, 100, 8)
	prompter := &scriptedPrompter{t: t, steps: []step{
		{player: "A", resp: ActionResponse{Action: Call}},
		{player: "B", resp: ActionResponse{Action: Call}},
		{player: "C", resp: ActionResponse{Action: Call}}, // owes 2, pays nothing
		{player: "B", resp: ActionResponse{Action: Check}},
		{player: "C", resp: ActionResponse{Action: Check}},
		{player: "A", resp: ActionResponse{Action: Check}},
		{player: "B", resp: ActionResponse{Action: Check}},
		{player: "C", resp: ActionResponse{Action: Check}},
		{player: "A", resp: ActionResponse{Action: Check}},
		{player: "B", resp: ActionResponse{Action: Check}},
		{player: "C", resp: ActionResponse{Action: Check}},
		{player: "A", resp: ActionResponse{Action: Check}},
	}}
	ranker := &fakeRanker{ordinals: []int{0, 1, 2}}

	o := NewOrchestrator(testLogger(), randutil.New(42), players, prompter, ranker,
		WithBlinds(5, 10))
	result, err := o.Run(context.Background())
	require.NoError(t, err)

	// Pot holds only what was actually paid: 10 + 10 + 8
	assert.Equal(t, 28, result.Pot)
	assert.Equal(t, []string{"A"}, result.Winners)
	assert.Equal(t, 118, players[0].Bank)
	assert.Equal(t, 0, players[2].Bank)
}

func TestRun_PromptErrorFoldsPlayer(t *testing.T) {
	t.Parallel()
	players := testPlayers(100, 100, 100)
	prompter := &scriptedPrompter{t: t, steps: []step{
		{player: "A", err: errors.New("connection lost")},
		{player: "B", resp: ActionResponse{Action: Fold}},
	}}
	ranker := &fakeRanker{ordinals: []int{0}}

	o := NewOrchestrator(testLogger(), randutil.New(42), players, prompter, ranker,
		WithBlinds(5, 10))
	result, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"C"}, result.Winners)
	assert.False(t, result.Showdown)
}

func TestRun_DepartureForfeitsSeat(t *testing.T) {
	t.Parallel()
	players := testPlayers(100, 100, 100)
	prompter := &scriptedPrompter{t: t, steps: []step{
		{player: "A", resp: ActionResponse{Action: Fold}},
	}}
	ranker := &fakeRanker{ordinals: []int{0}}
	sink := &recordingSink{}

	o := NewOrchestrator(testLogger(), randutil.New(42), players, prompter, ranker,
		WithBlinds(5, 10), WithEvents(sink))
	o.RemovePlayer("B")

	result, err := o.Run(context.Background())
	require.NoError(t, err)

	// B's small blind stays in the pot
	assert.Equal(t, 15, result.Pot)
	assert.Equal(t, []string{"C"}, result.Winners)
	assert.Contains(t, sink.kinds(), "player_departed")
}

func TestDropDeparted_BeforeSettlement(t *testing.T) {
	t.Parallel()
	players := testPlayers(100, 100, 100)
	sink := &recordingSink{}
	o := NewOrchestrator(testLogger(), randutil.New(1), players, nil, nil, WithEvents(sink))

	// A departure landing after the river's betting closed must not reach
	// the showdown ranking
	o.RemovePlayer("B")
	active := o.dropDeparted(append([]*Player(nil), players...))

	require.Len(t, active, 2)
	assert.Equal(t, "A", active[0].ID)
	assert.Equal(t, "C", active[1].ID)
	assert.Contains(t, sink.kinds(), "player_departed")

	// The last player standing keeps the pot even after departing
	o.RemovePlayer("A")
	o.RemovePlayer("C")
	active = o.dropDeparted(active)
	require.Len(t, active, 1)
}

func TestRun_IllegalActionRepromptsSamePlayer(t *testing.T) {
	t.Parallel()
	players := testPlayers(100, 100, 100)
	prompter := &scriptedPrompter{t: t, steps: []step{
		// Checking while owing the big blind is rejected; A is asked again
		{player: "A", resp: ActionResponse{Action: Check}},
		{player: "A", resp: ActionResponse{Action: Fold}},
		{player: "B", resp: ActionResponse{Action: Fold}},
	}}
	ranker := &fakeRanker{ordinals: []int{0}}

	o := NewOrchestrator(testLogger(), randutil.New(42), players, prompter, ranker,
		WithBlinds(5, 10))
	result, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"C"}, result.Winners)
}

func TestRun_CanceledContextAborts(t *testing.T) {
	t.Parallel()
	players := testPlayers(100, 100)
	// Heads-up: B posts the small blind, A the big blind, B opens
	prompter := &scriptedPrompter{t: t, steps: []step{
		{player: "B", resp: ActionResponse{Action: Call}},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := NewOrchestrator(testLogger(), randutil.New(42), players, prompter, &fakeRanker{ordinals: []int{0, 0}},
		WithBlinds(5, 10))
	_, err := o.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
