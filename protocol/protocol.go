// Package protocol defines the JSON frames exchanged with clients and
// decodes inbound frames into typed messages exactly once, at the
// connection boundary.
package protocol

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/gridsnake/engine/rules"
)

// Inbound message type tags.
const (
	TypeCreateRoom = "create_room"
	TypeJoinRoom   = "join_room"
	TypeLeaveRoom  = "leave_room"
	TypeStartGame  = "start_game"
	TypePlayerMove = "player_move"
	TypeListRooms  = "list_rooms"
)

// Outbound message type tags.
const (
	TypeRoomCreated  = "room_created"
	TypeRoomJoined   = "room_joined"
	TypePlayerJoined = "player_joined"
	TypePlayerLeft   = "player_left"
	TypeRoomsList    = "rooms_list"
	TypeCountdown    = "countdown"
	TypeGameStart    = "game_start"
	TypeGameUpdate   = "game_update"
	TypeGameOver     = "game_over"
	TypeError        = "error"
)

// Inbound is one decoded client message. The concrete type identifies the
// message kind.
type Inbound interface {
	inbound()
}

// CreateRoom asks for a fresh room with the sender as its first player.
type CreateRoom struct {
	PlayerName string
}

// JoinRoom asks to join an existing room by id.
type JoinRoom struct {
	RoomID     string
	PlayerName string
}

// LeaveRoom leaves whatever room the sender is in.
type LeaveRoom struct{}

// StartGame requests the countdown in the sender's room.
type StartGame struct{}

// PlayerMove requests a direction change.
type PlayerMove struct {
	PlayerID  string
	Direction string
}

// ListRooms asks for the joinable room summaries.
type ListRooms struct{}

func (CreateRoom) inbound() {}
func (JoinRoom) inbound()   {}
func (LeaveRoom) inbound()  {}
func (StartGame) inbound()  {}
func (PlayerMove) inbound() {}
func (ListRooms) inbound()  {}

// envelope is the flat wire shape of every inbound frame.
type envelope struct {
	Type       string `json:"type"`
	PlayerName string `json:"playerName"`
	RoomID     string `json:"roomId"`
	PlayerID   string `json:"playerId"`
	Direction  string `json:"direction"`
}

// Decode parses one inbound frame into its typed message.
func Decode(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "protocol: undecodable frame")
	}

	switch env.Type {
	case TypeCreateRoom:
		return CreateRoom{PlayerName: env.PlayerName}, nil
	case TypeJoinRoom:
		return JoinRoom{RoomID: env.RoomID, PlayerName: env.PlayerName}, nil
	case TypeLeaveRoom:
		return LeaveRoom{}, nil
	case TypeStartGame:
		return StartGame{}, nil
	case TypePlayerMove:
		return PlayerMove{PlayerID: env.PlayerID, Direction: env.Direction}, nil
	case TypeListRooms:
		return ListRooms{}, nil
	}
	return nil, errors.Errorf("protocol: unknown message type %q", env.Type)
}

// Encode marshals an outbound frame for the wire.
func Encode(frame interface{}) ([]byte, error) {
	data, err := json.Marshal(frame)
	if err != nil {
		return nil, errors.Wrap(err, "protocol: encode frame")
	}
	return data, nil
}

// RoomPlayer is the lobby-level view of a player.
type RoomPlayer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// RoomState is the room summary carried by lobby frames.
type RoomState struct {
	RoomID      string       `json:"roomId"`
	PlayerCount int          `json:"playerCount"`
	IsPlaying   bool         `json:"isPlaying"`
	Players     []RoomPlayer `json:"players"`
}

// SnakeState is a snake's body and facing on the wire.
type SnakeState struct {
	Body      []rules.Point `json:"body"`
	Direction rules.Point   `json:"direction"`
}

// GamePlayer is the in-game view of a player.
type GamePlayer struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Snake SnakeState `json:"snake"`
	Score int        `json:"score"`
	Alive bool       `json:"alive"`
}

// RoomCreated confirms room creation to the requester.
type RoomCreated struct {
	Type      string    `json:"type"`
	RoomID    string    `json:"roomId"`
	PlayerID  string    `json:"playerId"`
	RoomState RoomState `json:"roomState"`
}

// RoomJoined confirms a join to the requester.
type RoomJoined struct {
	Type      string    `json:"type"`
	RoomID    string    `json:"roomId"`
	PlayerID  string    `json:"playerId"`
	RoomState RoomState `json:"roomState"`
}

// PlayerJoined tells the rest of a room about a new player.
type PlayerJoined struct {
	Type      string     `json:"type"`
	Player    RoomPlayer `json:"player"`
	RoomState RoomState  `json:"roomState"`
}

// PlayerLeft tells a room a player is gone.
type PlayerLeft struct {
	Type      string    `json:"type"`
	RoomState RoomState `json:"roomState"`
}

// RoomsList answers list_rooms.
type RoomsList struct {
	Type  string      `json:"type"`
	Rooms []RoomState `json:"rooms"`
}

// Countdown carries the remaining pre-game count.
type Countdown struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// GameStart carries the full initial game state.
type GameStart struct {
	Type    string       `json:"type"`
	Players []GamePlayer `json:"players"`
	Food    rules.Point  `json:"food"`
}

// GameUpdate carries the authoritative post-tick state.
type GameUpdate struct {
	Type    string       `json:"type"`
	Players []GamePlayer `json:"players"`
	Food    rules.Point  `json:"food"`
}

// GameOver carries the winner and final scores.
type GameOver struct {
	Type   string       `json:"type"`
	Winner RoomPlayer   `json:"winner"`
	Scores []RoomPlayer `json:"scores"`
}

// ErrorFrame reports a request failure to the originating connection.
type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewRoomCreated builds a room_created frame.
func NewRoomCreated(roomID, playerID string, state RoomState) RoomCreated {
	return RoomCreated{Type: TypeRoomCreated, RoomID: roomID, PlayerID: playerID, RoomState: state}
}

// NewRoomJoined builds a room_joined frame.
func NewRoomJoined(roomID, playerID string, state RoomState) RoomJoined {
	return RoomJoined{Type: TypeRoomJoined, RoomID: roomID, PlayerID: playerID, RoomState: state}
}

// NewPlayerJoined builds a player_joined frame.
func NewPlayerJoined(player RoomPlayer, state RoomState) PlayerJoined {
	return PlayerJoined{Type: TypePlayerJoined, Player: player, RoomState: state}
}

// NewPlayerLeft builds a player_left frame.
func NewPlayerLeft(state RoomState) PlayerLeft {
	return PlayerLeft{Type: TypePlayerLeft, RoomState: state}
}

// NewRoomsList builds a rooms_list frame.
func NewRoomsList(rooms []RoomState) RoomsList {
	return RoomsList{Type: TypeRoomsList, Rooms: rooms}
}

// NewCountdown builds a countdown frame.
func NewCountdown(count int) Countdown {
	return Countdown{Type: TypeCountdown, Count: count}
}

// NewGameStart builds a game_start frame.
func NewGameStart(players []GamePlayer, food rules.Point) GameStart {
	return GameStart{Type: TypeGameStart, Players: players, Food: food}
}

// NewGameUpdate builds a game_update frame.
func NewGameUpdate(players []GamePlayer, food rules.Point) GameUpdate {
	return GameUpdate{Type: TypeGameUpdate, Players: players, Food: food}
}

// NewGameOver builds a game_over frame.
func NewGameOver(winner RoomPlayer, scores []RoomPlayer) GameOver {
	return GameOver{Type: TypeGameOver, Winner: winner, Scores: scores}
}

// NewError builds an error frame.
func NewError(message string) ErrorFrame {
	return ErrorFrame{Type: TypeError, Message: message}
}
