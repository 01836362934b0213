// Package api terminates client websocket connections and runs the
// single event loop that owns all room state. Connection pumps, the tick
// scheduler and the countdown scheduler only produce events; every
// mutation happens here, serially, in the order events are dequeued. A
// move processed before a tick affects that tick, one processed after
// affects the next, and there is no partial application.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"github.com/gridsnake/engine/config"
	"github.com/gridsnake/engine/controller"
	"github.com/gridsnake/engine/worker"
)

type inboundFrame struct {
	client *Client
	data   []byte
}

// Server is the websocket and health surface of the engine.
type Server struct {
	// TickInterval paces the game simulation, CountdownInterval the
	// pre-game countdowns. Both default from the environment.
	TickInterval      time.Duration
	CountdownInterval time.Duration

	registry *controller.Registry
	hs       *http.Server
	upgrader websocket.Upgrader

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	inbound    chan inboundFrame
	ticks      chan time.Time
	countdowns chan time.Time
}

// New will initialize a new Server around the given registry.
func New(listen string, registry *controller.Registry) *Server {
	s := &Server{
		TickInterval:      config.TickInterval,
		CountdownInterval: config.CountdownInterval,
		registry:          registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The browser client is served from anywhere.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients:    map[*Client]bool{},
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundFrame),
		ticks:      make(chan time.Time),
		countdowns: make(chan time.Time),
	}

	router := httprouter.New()
	router.GET("/", s.health)
	router.GET("/ws", s.serveWS)
	s.hs = &http.Server{
		Addr:    listen,
		Handler: cors.AllowAll().Handler(router),
	}
	return s
}

// Handler exposes the http handler, mostly for tests.
func (s *Server) Handler() http.Handler { return s.hs.Handler }

// WaitForExit serves until the listener fails or is shut down.
func (s *Server) WaitForExit() error {
	log.WithField("listen", s.hs.Addr).Info("engine api serving")
	return s.hs.ListenAndServe()
}

// Shutdown drains the http server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.hs.Shutdown(ctx)
}

// Run processes every event on this goroutine until the context is
// cancelled. It owns the registry: nothing else may touch it.
func (s *Server) Run(ctx context.Context) {
	tick := &worker.Scheduler{Name: "tick", Period: s.TickInterval}
	go tick.Run(ctx, func(now time.Time) {
		select {
		case s.ticks <- now:
		case <-ctx.Done():
		}
	})

	countdown := &worker.Scheduler{Name: "countdown", Period: s.CountdownInterval}
	go countdown.Run(ctx, func(now time.Time) {
		select {
		case s.countdowns <- now:
		case <-ctx.Done():
		}
	})

	for {
		select {
		case client := <-s.register:
			s.clients[client] = true
			log.WithField("clients", len(s.clients)).Info("client connected")

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				// Transport loss is an implicit leave_room.
				s.leave(client)
				close(client.send)
				log.WithField("clients", len(s.clients)).Info("client disconnected")
			}

		case frame := <-s.inbound:
			s.handleFrame(frame.client, frame.data)

		case <-s.ticks:
			s.registry.AdvancePlaying()

		case <-s.countdowns:
			s.registry.StepCountdowns()

		case <-ctx.Done():
			return
		}
	}
}

// serveWS upgrades a connection and hands it to the event loop.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &Client{
		server: s,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	s.register <- client

	go client.writePump()
	go client.readPump()
}

// health reports process liveness plus room and player totals.
func (s *Server) health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	rooms, players := s.registry.Stats()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":       "online",
		"rooms":        rooms,
		"totalPlayers": players,
	}); err != nil {
		log.WithError(err).Warn("unable to write health response")
	}
}
