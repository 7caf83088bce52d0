package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientBuffer   = 32
	broadcastDepth = 256
)

// Subscriber identifies who is on the other end of a connection.
// All is set for super-admins, who see every tenant's events.
type Subscriber struct {
	AdminID uint
	All     bool
}

func (s Subscriber) wants(e Event) bool {
	return s.All || s.AdminID == e.AdminID
}

type client struct {
	conn *websocket.Conn
	sub  Subscriber
	send chan Event
}

// Hub keeps the set of live websocket clients. Each client owns a buffered
// send channel drained by its own writer goroutine, so a connection is only
// ever written from one goroutine.
type Hub struct {
	mu        sync.Mutex
	clients   map[*client]struct{}
	broadcast chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewHub creates a hub and starts its dispatch loop.
func NewHub() *Hub {
	h := &Hub{
		clients:   make(map[*client]struct{}),
		broadcast: make(chan Event, broadcastDepth),
		done:      make(chan struct{}),
	}
	go h.run()
	return h
}

// Publish queues e for delivery. When the queue is full the event is dropped.
func (h *Hub) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	select {
	case <-h.done:
	case h.broadcast <- e:
	default:
		logrus.WithField("type", e.Type).Warn("Hub: broadcast queue full, dropping event")
	}
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			return
		case e := <-h.broadcast:
			h.dispatch(e)
		}
	}
}

func (h *Hub) dispatch(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if !c.sub.wants(e) {
			continue
		}
		select {
		case c.send <- e:
		default:
			// Slow reader: drop the client rather than stall everyone else.
			logrus.WithFields(logrus.Fields{
				"admin_id": c.sub.AdminID,
				"conn_ptr": fmt.Sprintf("%p", c.conn),
			}).Warn("Hub: client send buffer full, disconnecting")
			h.removeLocked(c)
		}
	}
}

func (h *Hub) register(conn *websocket.Conn, sub Subscriber) *client {
	c := &client{conn: conn, sub: sub, send: make(chan Event, clientBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	logrus.WithFields(logrus.Fields{
		"admin_id": sub.AdminID,
		"all":      sub.All,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Client registered with hub")
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	logrus.WithFields(logrus.Fields{
		"admin_id": c.sub.AdminID,
		"conn_ptr": fmt.Sprintf("%p", c.conn),
	}).Info("Client unregistered from hub")
}

// Clients returns the number of live connections.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Serve registers an upgraded connection and blocks until the peer goes
// away or the hub is closed. Incoming messages are read and discarded.
func (h *Hub) Serve(conn *websocket.Conn, sub Subscriber) {
	select {
	case <-h.done:
		conn.Close()
		return
	default:
	}
	c := h.register(conn, sub)
	go h.writePump(c)
	defer h.unregister(c)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("admin_id", sub.AdminID).Warn("Hub: websocket read failed")
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case e, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteJSON(e); err != nil {
				logrus.WithError(err).WithField("admin_id", c.sub.AdminID).Warn("Hub: failed to send event")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close stops dispatching and disconnects every client.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		for c := range h.clients {
			h.removeLocked(c)
		}
		h.mu.Unlock()
	})
}
