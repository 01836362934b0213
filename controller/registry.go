package controller

import (
	"errors"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/gridsnake/engine/protocol"
)

// Registry errors. These map one to one onto protocol error frames.
var (
	// ErrRoomNotFound is returned for joins against an unknown room id.
	ErrRoomNotFound = errors.New("controller: room not found")
	// ErrRoomFull is returned when a room is at capacity.
	ErrRoomFull = errors.New("controller: room is full")
	// ErrRoomPlaying is returned for joins after the room left the lobby.
	ErrRoomPlaying = errors.New("controller: game already in progress")
	// ErrNotEnoughPlayers is returned for a start below the player floor.
	ErrNotEnoughPlayers = errors.New("controller: need at least 2 players to start")
)

// MinStartPlayers is the floor for starting a game.
const MinStartPlayers = 2

// Registry creates rooms, indexes them by id and maps each connection to
// its current room. Like Room it is confined to the event loop.
type Registry struct {
	cfg Config

	rooms  map[string]*Room
	order  []string
	byConn map[Conn]*Room

	roomCount   atomic.Int64
	playerCount atomic.Int64
}

// NewRegistry returns an empty registry.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:    cfg,
		rooms:  map[string]*Room{},
		byConn: map[Conn]*Room{},
	}
}

// CreateRoom allocates a lobby room with the requester as its first
// player, implicitly leaving whatever room the connection was in. It
// always succeeds.
func (reg *Registry) CreateRoom(conn Conn, name string) (*Room, *Player) {
	reg.vacate(conn)

	room := newRoom(reg.cfg)
	player, _ := room.AddPlayer(conn, name)

	reg.rooms[room.ID] = room
	reg.order = append(reg.order, room.ID)
	reg.byConn[conn] = room
	reg.roomCount.Add(1)
	reg.playerCount.Add(1)
	roomsGauge.Inc()
	playersGauge.Inc()

	log.WithFields(log.Fields{
		"RoomID":   room.ID,
		"PlayerID": player.ID,
	}).Info("room created")
	return room, player
}

// JoinRoom adds the connection to an existing room. A connection seated
// elsewhere is moved, but only once the target room is known to have a
// seat, so a failed join never unseats anyone. Joining the room the
// connection is already in returns the existing seat.
func (reg *Registry) JoinRoom(roomID string, conn Conn, name string) (*Room, *Player, error) {
	room, ok := reg.rooms[roomID]
	if !ok {
		return nil, nil, ErrRoomNotFound
	}
	if current, seated := reg.byConn[conn]; seated && current == room {
		return room, room.playerByConn(conn), nil
	}
	if err := room.canAdd(); err != nil {
		return nil, nil, err
	}
	reg.vacate(conn)

	player, err := room.AddPlayer(conn, name)
	if err != nil {
		return nil, nil, err
	}
	reg.byConn[conn] = room
	reg.playerCount.Add(1)
	playersGauge.Inc()

	log.WithFields(log.Fields{
		"RoomID":   room.ID,
		"PlayerID": player.ID,
		"Players":  len(room.Players()),
	}).Info("player joined")
	return room, player, nil
}

// LeaveRoom removes the connection's player from its room, deleting the
// room once it empties. The surviving room is returned for the caller's
// player_left broadcast; nil means there is nothing left to notify.
func (reg *Registry) LeaveRoom(conn Conn) *Room {
	room, ok := reg.byConn[conn]
	if !ok {
		return nil
	}
	delete(reg.byConn, conn)

	if room.RemovePlayer(conn) == nil {
		return nil
	}
	reg.playerCount.Add(-1)
	playersGauge.Dec()

	if len(room.Players()) == 0 {
		reg.deleteRoom(room.ID)
		return nil
	}
	return room
}

// vacate performs the implicit leave for a connection switching rooms,
// notifying whoever remains behind. Exactly one room may own a
// connection at any time.
func (reg *Registry) vacate(conn Conn) {
	if room := reg.LeaveRoom(conn); room != nil {
		room.Broadcast(protocol.NewPlayerLeft(room.Summary()), nil)
	}
}

func (reg *Registry) deleteRoom(id string) {
	delete(reg.rooms, id)
	for i, roomID := range reg.order {
		if roomID == id {
			reg.order = append(reg.order[:i], reg.order[i+1:]...)
			break
		}
	}
	reg.roomCount.Add(-1)
	roomsGauge.Dec()
	log.WithField("RoomID", id).Info("room deleted")
}

// Lookup returns the room owning the connection.
func (reg *Registry) Lookup(conn Conn) (*Room, bool) {
	room, ok := reg.byConn[conn]
	return room, ok
}

// Room returns a room by id.
func (reg *Registry) Room(id string) (*Room, bool) {
	room, ok := reg.rooms[id]
	return room, ok
}

// ListJoinable returns summaries for lobby rooms with a free seat, in
// creation order.
func (reg *Registry) ListJoinable() []protocol.RoomState {
	list := []protocol.RoomState{}
	for _, id := range reg.order {
		room := reg.rooms[id]
		if room.Phase() == PhaseLobby && len(room.Players()) < MaxRoomPlayers {
			list = append(list, room.Summary())
		}
	}
	return list
}

// AdvancePlaying runs one tick for every playing room.
func (reg *Registry) AdvancePlaying() {
	done := observeAdvance()
	for _, id := range reg.order {
		reg.rooms[id].Advance()
	}
	done()
}

// StepCountdowns runs one countdown beat for every counting room.
func (reg *Registry) StepCountdowns() {
	for _, id := range reg.order {
		reg.rooms[id].StepCountdown()
	}
}

// Stats reports room and player totals. Safe to call from any goroutine;
// the health endpoint reads these off the event loop.
func (reg *Registry) Stats() (rooms, players int) {
	return int(reg.roomCount.Load()), int(reg.playerCount.Load())
}
