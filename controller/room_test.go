package controller

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridsnake/engine/protocol"
	"github.com/gridsnake/engine/rules"
)

func testConfig() Config {
	return Config{
		GridWidth:     30,
		GridHeight:    30,
		FoodReward:    1,
		CountdownFrom: 3,
	}
}

type fakeConn struct {
	frames [][]byte
}

func (c *fakeConn) Send(frame []byte) bool {
	c.frames = append(c.frames, frame)
	return true
}

// frameTypes returns the type tag of every frame sent so far.
func (c *fakeConn) frameTypes(t *testing.T) []string {
	t.Helper()
	types := []string{}
	for _, frame := range c.frames {
		var env struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(frame, &env))
		types = append(types, env.Type)
	}
	return types
}

func (c *fakeConn) lastFrame(t *testing.T, into interface{}) {
	t.Helper()
	require.NotEmpty(t, c.frames)
	require.NoError(t, json.Unmarshal(c.frames[len(c.frames)-1], into))
}

// playingRoom spins up a registry room with two players and runs the
// countdown out so the room is mid-game.
func playingRoom(t *testing.T) (*Registry, *Room, *Player, *Player, *fakeConn, *fakeConn) {
	t.Helper()
	reg := NewRegistry(testConfig())
	c1 := &fakeConn{}
	c2 := &fakeConn{}

	room, p1 := reg.CreateRoom(c1, "Alice")
	_, p2, err := reg.JoinRoom(room.ID, c2, "Bob")
	require.NoError(t, err)

	require.NoError(t, room.StartCountdown())
	for i := 0; i < 3; i++ {
		room.StepCountdown()
	}
	require.Equal(t, PhasePlaying, room.Phase())
	return reg, room, p1, p2, c1, c2
}

func TestStartCountdownRequiresTwoPlayers(t *testing.T) {
	reg := NewRegistry(testConfig())
	room, _ := reg.CreateRoom(&fakeConn{}, "Alice")

	require.ErrorIs(t, room.StartCountdown(), ErrNotEnoughPlayers)
	require.Equal(t, PhaseLobby, room.Phase())
}

func TestStartCountdownNoOpOutsideLobby(t *testing.T) {
	reg := NewRegistry(testConfig())
	c1 := &fakeConn{}
	room, _ := reg.CreateRoom(c1, "Alice")
	_, _, err := reg.JoinRoom(room.ID, &fakeConn{}, "Bob")
	require.NoError(t, err)

	require.NoError(t, room.StartCountdown())
	require.Equal(t, PhaseCountdown, room.Phase())

	// A second request while counting down changes nothing.
	require.NoError(t, room.StartCountdown())
	require.Equal(t, PhaseCountdown, room.Phase())
}

func TestCountdownRunsToGameStart(t *testing.T) {
	reg := NewRegistry(testConfig())
	c1 := &fakeConn{}
	c2 := &fakeConn{}
	room, _ := reg.CreateRoom(c1, "Alice")
	_, _, err := reg.JoinRoom(room.ID, c2, "Bob")
	require.NoError(t, err)
	require.NoError(t, room.StartCountdown())

	room.StepCountdown()
	room.StepCountdown()
	require.Equal(t, PhaseCountdown, room.Phase())
	room.StepCountdown()
	require.Equal(t, PhasePlaying, room.Phase())

	for _, c := range []*fakeConn{c1, c2} {
		require.Equal(t, []string{"countdown", "countdown", "countdown", "game_start"}, c.frameTypes(t))

		var first protocol.Countdown
		require.NoError(t, json.Unmarshal(c.frames[0], &first))
		require.Equal(t, 2, first.Count)
		var last protocol.Countdown
		require.NoError(t, json.Unmarshal(c.frames[2], &last))
		require.Equal(t, 0, last.Count)
	}
}

func TestGameStartPayload(t *testing.T) {
	_, _, p1, p2, c1, _ := playingRoom(t)

	var start protocol.GameStart
	c1.lastFrame(t, &start)
	require.Equal(t, "game_start", start.Type)
	require.Len(t, start.Players, 2)

	require.Equal(t, p1.ID, start.Players[0].ID)
	require.Equal(t, "Alice", start.Players[0].Name)
	require.Equal(t, []rules.Point{{X: 5, Y: 15}, {X: 4, Y: 15}, {X: 3, Y: 15}}, start.Players[0].Snake.Body)
	require.Equal(t, rules.Right, start.Players[0].Snake.Direction)
	require.True(t, start.Players[0].Alive)

	require.Equal(t, p2.ID, start.Players[1].ID)
	require.Equal(t, []rules.Point{{X: 24, Y: 15}, {X: 25, Y: 15}, {X: 26, Y: 15}}, start.Players[1].Snake.Body)
	require.Equal(t, rules.Left, start.Players[1].Snake.Direction)
}

func TestHandleMoveRejectsReverse(t *testing.T) {
	_, room, p1, _, _, _ := playingRoom(t)
	require.Equal(t, rules.Right, p1.Snake.Direction)

	room.HandleMove(p1.ID, "left")
	require.Equal(t, rules.Point{}, p1.Snake.NextDirection)
	require.Equal(t, rules.Right, p1.Snake.Direction)
}

func TestHandleMoveLastWriteWins(t *testing.T) {
	_, room, p1, _, _, _ := playingRoom(t)

	room.HandleMove(p1.ID, "up")
	require.Equal(t, rules.Up, p1.Snake.NextDirection)

	// Same direction again: same effect as sending it once.
	room.HandleMove(p1.ID, "up")
	require.Equal(t, rules.Up, p1.Snake.NextDirection)

	// A second turn before the tick overwrites the first outright.
	room.HandleMove(p1.ID, "down")
	require.Equal(t, rules.Down, p1.Snake.NextDirection)
}

func TestHandleMoveIgnored(t *testing.T) {
	reg := NewRegistry(testConfig())
	room, p1 := reg.CreateRoom(&fakeConn{}, "Alice")

	// Not playing: nothing to move yet.
	room.HandleMove(p1.ID, "up")
	require.Nil(t, p1.Snake)

	_, room2, q1, _, _, _ := playingRoom(t)
	q1.Snake.Alive = false
	room2.HandleMove(q1.ID, "up")
	require.Equal(t, rules.Point{}, q1.Snake.NextDirection)

	// Unknown player and garbage direction are both no-ops.
	room2.HandleMove("nobody", "up")
	room2.HandleMove(q1.ID, "sideways")
}

func TestAdvanceBroadcastsGameUpdate(t *testing.T) {
	_, room, p1, p2, c1, c2 := playingRoom(t)
	room.board.Food = rules.Point{X: 0, Y: 0}

	room.Advance()

	require.Equal(t, PhasePlaying, room.Phase())
	for _, c := range []*fakeConn{c1, c2} {
		var update protocol.GameUpdate
		c.lastFrame(t, &update)
		require.Equal(t, "game_update", update.Type)
		require.Len(t, update.Players, 2)
		require.Equal(t, rules.Point{X: 6, Y: 15}, update.Players[0].Snake.Body[0])
		require.Equal(t, rules.Point{X: 23, Y: 15}, update.Players[1].Snake.Body[0])
	}

	require.Equal(t, rules.Point{X: 6, Y: 15}, p1.Snake.Head())
	require.Equal(t, rules.Point{X: 23, Y: 15}, p2.Snake.Head())
}

func TestAdvanceEndsGameWithOneAlive(t *testing.T) {
	_, room, p1, p2, _, c2 := playingRoom(t)
	room.board.Food = rules.Point{X: 0, Y: 0}
	p1.Snake.Alive = false
	p2.Snake.Score = 7

	room.Advance()

	require.Equal(t, PhaseEnded, room.Phase())
	var over protocol.GameOver
	c2.lastFrame(t, &over)
	require.Equal(t, "game_over", over.Type)
	require.Equal(t, p2.ID, over.Winner.ID)
	require.Equal(t, 7, over.Winner.Score)
	require.Len(t, over.Scores, 2)
}

func TestAdvanceNoOpOutsidePlaying(t *testing.T) {
	reg := NewRegistry(testConfig())
	c1 := &fakeConn{}
	room, _ := reg.CreateRoom(c1, "Alice")

	room.Advance()
	require.Empty(t, c1.frames)
	require.Equal(t, PhaseLobby, room.Phase())
}

func TestEndedIsTerminal(t *testing.T) {
	_, room, p1, _, _, _ := playingRoom(t)
	p1.Snake.Alive = false
	room.Advance()
	require.Equal(t, PhaseEnded, room.Phase())

	// No restart path from Ended: start and ticks change nothing.
	require.NoError(t, room.StartCountdown())
	require.Equal(t, PhaseEnded, room.Phase())
	room.StepCountdown()
	room.Advance()
	require.Equal(t, PhaseEnded, room.Phase())
}

func TestSummary(t *testing.T) {
	reg := NewRegistry(testConfig())
	c1 := &fakeConn{}
	room, p1 := reg.CreateRoom(c1, "")

	state := room.Summary()
	require.Equal(t, room.ID, state.RoomID)
	require.Equal(t, 1, state.PlayerCount)
	require.False(t, state.IsPlaying)
	require.Equal(t, []protocol.RoomPlayer{{ID: p1.ID, Name: "Player 1", Score: 0}}, state.Players)
}

func TestBroadcastExcludesConnection(t *testing.T) {
	reg := NewRegistry(testConfig())
	c1 := &fakeConn{}
	c2 := &fakeConn{}
	room, _ := reg.CreateRoom(c1, "Alice")
	_, _, err := reg.JoinRoom(room.ID, c2, "Bob")
	require.NoError(t, err)

	room.Broadcast(protocol.NewError("test"), c2)
	require.Len(t, c1.frames, 1)
	require.Empty(t, c2.frames)
}

func TestLeaveDuringCountdownCancelsIt(t *testing.T) {
	reg := NewRegistry(testConfig())
	c1 := &fakeConn{}
	c2 := &fakeConn{}
	room, _ := reg.CreateRoom(c1, "Alice")
	_, _, err := reg.JoinRoom(room.ID, c2, "Bob")
	require.NoError(t, err)
	require.NoError(t, room.StartCountdown())

	reg.LeaveRoom(c2)
	require.Equal(t, PhaseLobby, room.Phase())

	// The cancelled countdown never reaches a one player game.
	before := len(c1.frames)
	for i := 0; i < 3; i++ {
		room.StepCountdown()
	}
	require.Equal(t, PhaseLobby, room.Phase())
	require.Len(t, c1.frames, before)

	// The room is usable again once a second player shows up.
	_, _, err = reg.JoinRoom(room.ID, &fakeConn{}, "Carol")
	require.NoError(t, err)
	require.NoError(t, room.StartCountdown())
	require.Equal(t, PhaseCountdown, room.Phase())
}

func TestLeaveDuringCountdownAboveFloorKeepsCounting(t *testing.T) {
	reg := NewRegistry(testConfig())
	c1 := &fakeConn{}
	room, _ := reg.CreateRoom(c1, "Alice")
	c2 := &fakeConn{}
	_, _, err := reg.JoinRoom(room.ID, c2, "Bob")
	require.NoError(t, err)
	_, _, err = reg.JoinRoom(room.ID, &fakeConn{}, "Carol")
	require.NoError(t, err)
	require.NoError(t, room.StartCountdown())

	reg.LeaveRoom(c2)
	require.Equal(t, PhaseCountdown, room.Phase())

	for i := 0; i < 3; i++ {
		room.StepCountdown()
	}
	require.Equal(t, PhasePlaying, room.Phase())
	require.Len(t, room.Players(), 2)
}
