package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enaribe/startup-ludo-sub001/internal/model"
)

const testReward = int32(2)

func newReplicaGame(t *testing.T) (*model.GameState, *Replica) {
	t.Helper()
	g, err := model.NewGameState([]model.Seat{
		{ID: "p1", Name: "Ada", Color: model.ColorYellow},
		{ID: "p2", Name: "Ben", Color: model.ColorBlue},
	}, "startup")
	require.NoError(t, err)
	return g, NewReplica("room1", g, testReward, 0)
}

func env(t *testing.T, kind Kind, turn int32, seq int64, payload any) *Envelope {
	t.Helper()
	e, err := NewEnvelope(kind, "room1", turn, "", seq, payload)
	require.NoError(t, err)
	return e
}

func TestEnvelopeRoundtrip(t *testing.T) {
	e := env(t, KindDiceRoll, 3, 7, DiceRoll{PlayerID: "p1", Value: 6})
	raw, err := Encode(e)
	require.NoError(t, err)

	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, KindDiceRoll, got.Kind)
	assert.Equal(t, int64(7), got.Seq)

	var p DiceRoll
	require.NoError(t, got.Payload(&p))
	assert.Equal(t, int32(6), p.Value)
}

func TestPayloadWireKeys(t *testing.T) {
	raw, err := json.Marshal(EndTurn{PlayerID: "p1", NextIndex: 1, Extra: true})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"grantExtra":true`)

	ev := model.DrawEvent(model.EventQuiz)
	raw, err = json.Marshal(EventTrigger{PlayerID: "p1", EventType: ev.Type, Event: ev})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"eventType":"quiz"`)
	assert.Contains(t, string(raw), `"eventData":{`)
}

func TestDecodeRejectsMissingKind(t *testing.T) {
	_, err := Decode([]byte(`{"roomId":"room1","seq":1}`))
	assert.Error(t, err)

	_, err = Decode([]byte("garbage"))
	assert.Error(t, err)
}

func TestReplica_AppliesInOrder(t *testing.T) {
	auth, rep := newReplicaGame(t)

	roll := env(t, KindDiceRoll, 0, 1, DiceRoll{PlayerID: "p1", Value: 6})
	require.NoError(t, rep.Apply(roll))

	mv, code := model.ResolveMove(auth, model.ColorYellow, 0, 6)
	require.Equal(t, model.MoveOK, code)
	require.NoError(t, auth.ApplyResolved(model.ColorYellow, mv, testReward))
	require.NoError(t, rep.Apply(env(t, KindMove, 0, 2, MoveMsg{
		PlayerID: "p1", Color: model.ColorYellow, Move: mv,
	})))

	require.NoError(t, rep.Apply(env(t, KindEndTurn, 0, 3, EndTurn{PlayerID: "p1", NextIndex: 1})))

	got := rep.State()
	assert.Equal(t, auth.Players[0].Pawns[0], got.Players[0].Pawns[0])
	assert.Equal(t, int32(1), got.Current)
	assert.Equal(t, int32(1), got.TurnCount)
	assert.Equal(t, int32(0), got.Dice)
	assert.Equal(t, int64(3), rep.Seq())
}

func TestReplica_BuffersWithinTurn(t *testing.T) {
	auth, rep := newReplicaGame(t)

	mv, code := model.ResolveMove(auth, model.ColorYellow, 0, 6)
	require.Equal(t, model.MoveOK, code)

	// The move arrives before the roll it depends on.
	moveEnv := env(t, KindMove, 0, 2, MoveMsg{PlayerID: "p1", Color: model.ColorYellow, Move: mv})
	require.NoError(t, rep.Apply(moveEnv))
	assert.Equal(t, int64(0), rep.Seq(), "gap not filled yet")
	assert.Equal(t, model.StatusHome, rep.State().Players[0].Pawns[0].Status)

	require.NoError(t, rep.Apply(env(t, KindDiceRoll, 0, 1, DiceRoll{PlayerID: "p1", Value: 6})))
	assert.Equal(t, int64(2), rep.Seq(), "buffered move drained")
	assert.Equal(t, model.StatusCircuit, rep.State().Players[0].Pawns[0].Status)
}

func TestReplica_DropsStaleSequence(t *testing.T) {
	_, rep := newReplicaGame(t)
	require.NoError(t, rep.Apply(env(t, KindDiceRoll, 0, 1, DiceRoll{PlayerID: "p1", Value: 4})))

	err := rep.Apply(env(t, KindDiceRoll, 0, 1, DiceRoll{PlayerID: "p1", Value: 4}))
	var conflict *ErrSyncConflict
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "stale sequence", conflict.Reason)
}

func TestReplica_DropsStaleTurn(t *testing.T) {
	_, rep := newReplicaGame(t)
	require.NoError(t, rep.Apply(env(t, KindEndTurn, 0, 1, EndTurn{PlayerID: "p1", NextIndex: 1})))

	err := rep.Apply(env(t, KindDiceRoll, 0, 2, DiceRoll{PlayerID: "p1", Value: 4}))
	var conflict *ErrSyncConflict
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "stale turn", conflict.Reason)
}

func TestReplica_DropsWrongRoom(t *testing.T) {
	_, rep := newReplicaGame(t)
	e, err := NewEnvelope(KindDiceRoll, "other", 0, "", 1, DiceRoll{PlayerID: "p1", Value: 4})
	require.NoError(t, err)

	var conflict *ErrSyncConflict
	require.ErrorAs(t, rep.Apply(e), &conflict)
	assert.Equal(t, "wrong room", conflict.Reason)
}

func TestReplica_EventLifecycle(t *testing.T) {
	_, rep := newReplicaGame(t)

	ev := model.DrawEvent(model.EventFunding)
	require.NoError(t, rep.Apply(env(t, KindEventTrigger, 0, 1, EventTrigger{PlayerID: "p1", EventType: ev.Type, Event: ev})))
	require.NotNil(t, rep.State().Event)

	require.NoError(t, rep.Apply(env(t, KindEventResult, 0, 2, EventResult{
		PlayerID: "p1", OK: true, Reward: ev.Funding.Amount, Tokens: ev.Funding.Amount,
	})))
	got := rep.State()
	assert.Nil(t, got.Event)
	assert.Equal(t, ev.Funding.Amount, got.Players[0].Tokens)
}

func TestReplica_DuelResolution(t *testing.T) {
	_, rep := newReplicaGame(t)

	duel := model.NewDuel("p1")
	require.NoError(t, duel.SelectOpponent("p2"))
	trigger := &model.Event{Type: model.EventDuel, Duel: duel}
	require.NoError(t, rep.Apply(env(t, KindEventTrigger, 0, 1, EventTrigger{PlayerID: "p1", EventType: trigger.Type, Event: trigger})))

	require.NoError(t, rep.Apply(env(t, KindDuelScore, 0, 2, DuelScore{PlayerID: "p1", Score: 3})))

	res := &model.DuelResult{WinnerID: "p1", ChallengerScore: 3, OpponentScore: 1, ChallengerReward: 3}
	require.NoError(t, rep.Apply(env(t, KindDuelScore, 0, 3, DuelScore{PlayerID: "p2", Score: 1, Result: res})))

	got := rep.State()
	assert.Nil(t, got.Event)
	assert.Equal(t, int32(3), got.Players[0].Tokens)
	assert.Equal(t, int32(0), got.Players[1].Tokens)
}

func TestReplica_ForfeitEndsTwoPlayerGame(t *testing.T) {
	_, rep := newReplicaGame(t)
	require.NoError(t, rep.Apply(env(t, KindForfeit, 0, 1, Forfeit{PlayerID: "p2", WinnerID: "p1"})))

	got := rep.State()
	assert.True(t, got.Players[1].Forfeited)
	assert.Equal(t, model.GameFinished, got.Status)
	assert.Equal(t, "p1", got.WinnerID)
}

func TestReplica_CheckpointResync(t *testing.T) {
	auth, rep := newReplicaGame(t)
	auth.TurnCount = 9
	auth.Current = 1
	auth.Players[0].Tokens = 5

	require.NoError(t, rep.Apply(env(t, KindCheckpoint, 9, 1, model.Snapshot(auth))))

	got := rep.State()
	assert.Equal(t, int32(9), got.TurnCount)
	assert.Equal(t, int32(1), got.Current)
	assert.Equal(t, int32(5), got.Players[0].Tokens)
}
