package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/scribeflow/backend/internal/job"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API itself is unauthenticated, origin checks add nothing here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type EventsHandler struct {
	queue *job.Queue
}

func NewEventsHandler(queue *job.Queue) *EventsHandler {
	return &EventsHandler{queue: queue}
}

// Stream pushes job state changes over a websocket until the client
// hangs up.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[events] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, unsubscribe := h.queue.Subscribe()
	defer unsubscribe()

	// Drain client frames so pongs and close frames are processed.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-clientGone:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
