package api

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/gridsnake/engine/controller"
	"github.com/gridsnake/engine/protocol"
)

// handleFrame decodes one inbound frame and dispatches it. A malformed
// frame is logged and dropped; the connection stays up.
func (s *Server) handleFrame(conn controller.Conn, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		log.WithError(err).Warn("ignoring bad frame")
		return
	}

	switch m := msg.(type) {
	case protocol.CreateRoom:
		room, player := s.registry.CreateRoom(conn, m.PlayerName)
		s.reply(conn, protocol.NewRoomCreated(room.ID, player.ID, room.Summary()))

	case protocol.JoinRoom:
		room, player, err := s.registry.JoinRoom(m.RoomID, conn, m.PlayerName)
		if err != nil {
			s.replyError(conn, err)
			return
		}
		s.reply(conn, protocol.NewRoomJoined(room.ID, player.ID, room.Summary()))
		room.Broadcast(protocol.NewPlayerJoined(
			protocol.RoomPlayer{ID: player.ID, Name: player.Name},
			room.Summary(),
		), conn)

	case protocol.LeaveRoom:
		s.leave(conn)

	case protocol.StartGame:
		room, ok := s.registry.Lookup(conn)
		if !ok {
			return
		}
		if err := room.StartCountdown(); err != nil {
			s.replyError(conn, err)
		}

	case protocol.PlayerMove:
		room, ok := s.registry.Lookup(conn)
		if !ok {
			return
		}
		room.HandleMove(m.PlayerID, m.Direction)

	case protocol.ListRooms:
		s.reply(conn, protocol.NewRoomsList(s.registry.ListJoinable()))
	}
}

// leave removes the connection's player, notifying whoever remains.
func (s *Server) leave(conn controller.Conn) {
	if room := s.registry.LeaveRoom(conn); room != nil {
		room.Broadcast(protocol.NewPlayerLeft(room.Summary()), nil)
	}
}

// reply sends a frame to one connection only.
func (s *Server) reply(conn controller.Conn, frame interface{}) {
	data, err := protocol.Encode(frame)
	if err != nil {
		log.WithError(err).Error("unable to encode reply frame")
		return
	}
	if !conn.Send(data) {
		log.Warn("dropped reply for slow connection")
	}
}

// replyError surfaces a request failure to the originating connection.
func (s *Server) replyError(conn controller.Conn, err error) {
	s.reply(conn, protocol.NewError(userMessage(err)))
}

// userMessage maps registry errors onto the protocol's message strings.
func userMessage(err error) string {
	switch {
	case errors.Is(err, controller.ErrRoomNotFound):
		return "Room not found"
	case errors.Is(err, controller.ErrRoomFull):
		return "Room is full"
	case errors.Is(err, controller.ErrRoomPlaying):
		return "Game already in progress"
	case errors.Is(err, controller.ErrNotEnoughPlayers):
		return "Need at least 2 players to start"
	}
	return err.Error()
}
