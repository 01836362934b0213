// Package controller owns the room table and the per-room game
// lifecycle. Rooms and the registry are mutated only by the api event
// loop, so nothing here takes a lock; the ordering of joins, moves,
// leaves and ticks is exactly the order events are dequeued.
package controller

import (
	"fmt"

	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"

	"github.com/gridsnake/engine/protocol"
	"github.com/gridsnake/engine/rules"
)

// Conn is the send side of one client connection. Send must not block;
// it reports false when the frame was dropped.
type Conn interface {
	Send(frame []byte) bool
}

// Phase is a room's position in its lifecycle.
type Phase string

// Room phases. Ended is terminal until the room is destroyed.
const (
	PhaseLobby     Phase = "lobby"
	PhaseCountdown Phase = "countdown"
	PhasePlaying   Phase = "playing"
	PhaseEnded     Phase = "ended"
)

// MaxRoomPlayers is the room capacity.
const MaxRoomPlayers = 4

// Player ties a connection to its identity and, once a game is running,
// its snake.
type Player struct {
	ID    string
	Name  string
	Conn  Conn
	Snake *rules.Snake
}

// Room is one isolated game instance.
type Room struct {
	ID string

	cfg       Config
	players   []*Player
	phase     Phase
	countdown int
	board     *rules.Board
}

func newRoom(cfg Config) *Room {
	return &Room{
		ID:    uuid.NewV4().String(),
		cfg:   cfg,
		phase: PhaseLobby,
	}
}

// Phase returns the room's current phase.
func (r *Room) Phase() Phase { return r.phase }

// Players returns the players in join order.
func (r *Room) Players() []*Player { return r.players }

// Player returns the player with the given id, or nil.
func (r *Room) Player(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// canAdd reports whether the room has a seat to offer.
func (r *Room) canAdd() error {
	if r.phase != PhaseLobby {
		return ErrRoomPlaying
	}
	if len(r.players) >= MaxRoomPlayers {
		return ErrRoomFull
	}
	return nil
}

func (r *Room) playerByConn(conn Conn) *Player {
	for _, p := range r.players {
		if p.Conn == conn {
			return p
		}
	}
	return nil
}

// AddPlayer adds a player for the connection. Joins are rejected once
// the room has left the lobby; a mid-game join would have no snake on
// the board.
func (r *Room) AddPlayer(conn Conn, name string) (*Player, error) {
	if err := r.canAdd(); err != nil {
		return nil, err
	}

	if name == "" {
		name = fmt.Sprintf("Player %d", len(r.players)+1)
	}
	player := &Player{
		ID:   uuid.NewV4().String(),
		Name: name,
		Conn: conn,
	}
	r.players = append(r.players, player)
	return player, nil
}

// RemovePlayer removes the connection's player. A playing room left with
// one player ends immediately rather than waiting for the next tick, and
// a countdown dropped below the start floor is cancelled back to the
// lobby so a one-player game can never start.
func (r *Room) RemovePlayer(conn Conn) *Player {
	var removed *Player
	for i, p := range r.players {
		if p.Conn == conn {
			removed = p
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
	if removed == nil {
		return nil
	}

	if removed.Snake != nil && r.board != nil {
		removed.Snake.Alive = false
		r.dropSnake(removed.ID)
	}

	if r.phase == PhasePlaying && len(r.players) == 1 {
		r.endGame()
	}
	if r.phase == PhaseCountdown && len(r.players) < MinStartPlayers {
		r.phase = PhaseLobby
		r.countdown = 0
		log.WithField("RoomID", r.ID).Info("countdown cancelled")
	}
	return removed
}

func (r *Room) dropSnake(id string) {
	for i, s := range r.board.Snakes {
		if s.ID == id {
			r.board.Snakes = append(r.board.Snakes[:i], r.board.Snakes[i+1:]...)
			return
		}
	}
}

// StartCountdown moves a lobby room into its pre-game countdown. It is a
// no-op outside the lobby phase.
func (r *Room) StartCountdown() error {
	if r.phase != PhaseLobby {
		return nil
	}
	if len(r.players) < MinStartPlayers {
		return ErrNotEnoughPlayers
	}

	r.phase = PhaseCountdown
	r.countdown = r.cfg.CountdownFrom
	log.WithFields(log.Fields{
		"RoomID":  r.ID,
		"Players": len(r.players),
	}).Info("countdown started")
	return nil
}

// StepCountdown runs one countdown beat: decrement, broadcast the
// remaining count, and start the game at zero. Rooms in any other phase
// are skipped at negligible cost.
func (r *Room) StepCountdown() {
	if r.phase != PhaseCountdown {
		return
	}

	r.countdown--
	r.Broadcast(protocol.NewCountdown(r.countdown), nil)
	if r.countdown <= 0 {
		r.startGame()
	}
}

// startGame resets the board, seats every player on a spawn slot in join
// order and broadcasts the full initial state.
func (r *Room) startGame() {
	seeds := make([]rules.SnakeSeed, 0, len(r.players))
	for _, p := range r.players {
		seeds = append(seeds, rules.SnakeSeed{ID: p.ID, Name: p.Name})
	}

	r.board = rules.NewBoard(r.cfg.GridWidth, r.cfg.GridHeight, seeds)
	for _, p := range r.players {
		p.Snake = r.board.Snake(p.ID)
	}
	r.phase = PhasePlaying

	log.WithFields(log.Fields{
		"RoomID":  r.ID,
		"Players": len(r.players),
	}).Info("game started")
	r.Broadcast(protocol.NewGameStart(r.gamePlayers(), r.board.Food), nil)
}

// HandleMove queues a direction change. It is ignored unless the room is
// playing and the player is alive; a turn onto the axis of travel is
// rejected so a snake can never instantly reverse. Validation runs
// against the applied direction only; a second move before the next
// tick simply overwrites the first, last write wins.
func (r *Room) HandleMove(playerID, direction string) {
	if r.phase != PhasePlaying {
		return
	}
	player := r.Player(playerID)
	if player == nil || player.Snake == nil || !player.Snake.Alive {
		return
	}

	dir, ok := rules.ParseDirection(direction)
	if !ok {
		return
	}
	if rules.SameAxis(dir, player.Snake.Direction) {
		return
	}
	player.Snake.NextDirection = dir
}

// Advance runs one simulation tick and broadcasts the result. Called
// once per scheduler fire while the room is playing.
func (r *Room) Advance() {
	if r.phase != PhasePlaying {
		return
	}

	rules.Tick(r.board, r.cfg.FoodReward)

	if rules.CheckForGameOver(r.board) {
		r.endGame()
		return
	}
	r.Broadcast(protocol.NewGameUpdate(r.gamePlayers(), r.board.Food), nil)
}

// endGame moves the room to its terminal phase and broadcasts the winner
// and final scores.
func (r *Room) endGame() {
	r.phase = PhaseEnded

	var winner protocol.RoomPlayer
	if w := rules.Winner(r.board); w != nil {
		winner = protocol.RoomPlayer{ID: w.ID, Name: w.Name, Score: w.Score}
	}
	scores := make([]protocol.RoomPlayer, 0, len(r.board.Snakes))
	for _, s := range r.board.Snakes {
		scores = append(scores, protocol.RoomPlayer{ID: s.ID, Name: s.Name, Score: s.Score})
	}

	log.WithFields(log.Fields{
		"RoomID": r.ID,
		"Winner": winner.Name,
	}).Info("game over")
	r.Broadcast(protocol.NewGameOver(winner, scores), nil)
}

// Summary returns the lobby-level view of the room.
func (r *Room) Summary() protocol.RoomState {
	players := make([]protocol.RoomPlayer, 0, len(r.players))
	for _, p := range r.players {
		score := 0
		if p.Snake != nil {
			score = p.Snake.Score
		}
		players = append(players, protocol.RoomPlayer{ID: p.ID, Name: p.Name, Score: score})
	}
	return protocol.RoomState{
		RoomID:      r.ID,
		PlayerCount: len(r.players),
		IsPlaying:   r.phase == PhasePlaying,
		Players:     players,
	}
}

func (r *Room) gamePlayers() []protocol.GamePlayer {
	players := make([]protocol.GamePlayer, 0, len(r.players))
	for _, p := range r.players {
		if p.Snake == nil {
			continue
		}
		players = append(players, protocol.GamePlayer{
			ID:   p.ID,
			Name: p.Name,
			Snake: protocol.SnakeState{
				Body:      p.Snake.Body,
				Direction: p.Snake.Direction,
			},
			Score: p.Snake.Score,
			Alive: p.Snake.Alive,
		})
	}
	return players
}

// Broadcast encodes the frame once and fans it out to every connection
// in the room, optionally excluding one.
func (r *Room) Broadcast(frame interface{}, except Conn) {
	data, err := protocol.Encode(frame)
	if err != nil {
		log.WithError(err).WithField("RoomID", r.ID).Error("unable to encode broadcast frame")
		return
	}
	for _, p := range r.players {
		if p.Conn == except {
			continue
		}
		if !p.Conn.Send(data) {
			log.WithFields(log.Fields{
				"RoomID":   r.ID,
				"PlayerID": p.ID,
			}).Warn("dropped frame for slow connection")
		}
	}
}
