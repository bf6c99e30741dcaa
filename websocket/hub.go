package websocket

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound messages; camera frames are the largest.
	maxMessageSize = 1 << 20

	// sendBuffer is the number of outbound messages queued per client
	// before frames start being dropped for it.
	sendBuffer = 8
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type envelope struct {
	to  *client
	msg []byte
}

// hub keeps the set of connected clients and fans frames out to them.
type hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	direct     chan envelope
	done       chan struct{}
	count      int32
	log        *zap.SugaredLogger
}

func newHub(log *zap.SugaredLogger) *hub {
	return &hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 1),
		direct:     make(chan envelope),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *hub) run(ctx context.Context) {
	defer func() {
		for c := range h.clients {
			close(c.send)
			delete(h.clients, c)
		}
		atomic.StoreInt32(&h.count, 0)
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = true
			atomic.StoreInt32(&h.count, int32(len(h.clients)))
			h.log.Infow("client connected", "remote", c.conn.RemoteAddr().String(), "clients", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				atomic.StoreInt32(&h.count, int32(len(h.clients)))
				h.log.Infow("client disconnected", "remote", c.conn.RemoteAddr().String(), "clients", len(h.clients))
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// slow reader, it skips this frame
				}
			}
		case e := <-h.direct:
			if h.clients[e.to] {
				select {
				case e.to.send <- e.msg:
				default:
				}
			}
		}
	}
}

func (h *hub) join(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *hub) leave(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// publish hands msg to the hub, dropping it when the previous frame is still pending.
func (h *hub) publish(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
	}
}

// reply queues msg for a single client.
func (h *hub) reply(c *client, msg []byte) {
	select {
	case h.direct <- envelope{to: c, msg: msg}:
	case <-h.done:
	}
}

func (h *hub) clientCount() int {
	return int(atomic.LoadInt32(&h.count))
}

// writePump sends queued messages and keeps the connection alive with pings.
// It owns all writes to the connection.
func (c *client) writePump(log *zap.SugaredLogger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Debugw("write failed", "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
