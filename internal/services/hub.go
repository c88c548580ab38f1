package services

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

// StatsNotice tells a connected dashboard that its cached stats are stale.
// The client is expected to refetch; the notice carries no stat values.
type StatsNotice struct {
	UserID string    `json:"userId"`
	Kind   string    `json:"kind"`
	At     time.Time `json:"at"`
}

// StatsHub fans stats-changed notices out to websocket subscribers. Each
// connection is registered under a user ID and only receives that user's
// notices. Add/Remove/broadcast all run on the Run goroutine, so the client
// map needs no lock.
type StatsHub struct {
	clients map[string]map[*websocket.Conn]bool
	notices chan StatsNotice
	joins   chan hubMembership
	leaves  chan hubMembership
}

type hubMembership struct {
	userID string
	conn   *websocket.Conn
}

func NewStatsHub() *StatsHub {
	return &StatsHub{
		clients: map[string]map[*websocket.Conn]bool{},
		notices: make(chan StatsNotice, 16),
		joins:   make(chan hubMembership, 4),
		leaves:  make(chan hubMembership, 4),
	}
}

func (h *StatsHub) Run(ctx context.Context) {
	for {
		select {
		case notice := <-h.notices:
			for conn := range h.clients[notice.UserID] {
				_ = conn.WriteJSON(notice)
			}
		case member := <-h.joins:
			if h.clients[member.userID] == nil {
				h.clients[member.userID] = map[*websocket.Conn]bool{}
			}
			h.clients[member.userID][member.conn] = true
		case member := <-h.leaves:
			delete(h.clients[member.userID], member.conn)
			if len(h.clients[member.userID]) == 0 {
				delete(h.clients, member.userID)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Broadcast never blocks; a full buffer drops the notice. Dashboards refetch
// on the next notice anyway.
func (h *StatsHub) Broadcast(notice StatsNotice) {
	if notice.At.IsZero() {
		notice.At = time.Now().UTC()
	}
	select {
	case h.notices <- notice:
	default:
	}
}

func (h *StatsHub) Add(userID string, conn *websocket.Conn) {
	h.joins <- hubMembership{userID: userID, conn: conn}
}

func (h *StatsHub) Remove(userID string, conn *websocket.Conn) {
	h.leaves <- hubMembership{userID: userID, conn: conn}
}
