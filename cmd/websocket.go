package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"rewearBack/internal/notify"
)

const (
	writeDeadline = 5 * time.Second
	pingInterval  = 15 * time.Second
)

// NotificationHub streams bus events to connected websocket clients.
// Delivery keeps the bus's fire-and-forget contract: clients connected
// at publish time get the event, nobody gets a replay.
type NotificationHub struct {
	bus      *notify.Bus
	errorLog *log.Logger

	register   chan *websocket.Conn
	unregister chan *websocket.Conn
}

func NewNotificationHub(bus *notify.Bus, errorLog *log.Logger) *NotificationHub {
	return &NotificationHub{
		bus:        bus,
		errorLog:   errorLog,
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

func (h *NotificationHub) Run() {
	events, detach := h.bus.Attach(16)
	defer detach()

	clients := make(map[*websocket.Conn]bool)
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case conn := <-h.register:
			clients[conn] = true
		case conn := <-h.unregister:
			if clients[conn] {
				conn.Close()
				delete(clients, conn)
			}
		case event := <-events:
			for conn := range clients {
				conn.SetWriteDeadline(time.Now().Add(writeDeadline))
				if err := conn.WriteJSON(event); err != nil {
					h.errorLog.Printf("notification write error: %v", err)
					conn.Close()
					delete(clients, conn)
				}
			}
		case <-ping.C:
			for conn := range clients {
				conn.SetWriteDeadline(time.Now().Add(writeDeadline))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					conn.Close()
					delete(clients, conn)
				}
			}
		}
	}
}

func (h *NotificationHub) Serve(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.errorLog.Printf("websocket upgrade error: %v", err)
		return
	}
	h.register <- conn

	// Drain client frames so pongs and close frames are processed.
	go func() {
		defer func() { h.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
