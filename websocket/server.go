package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/esimov/ascii-seasons/detector"
	particle "github.com/esimov/ascii-seasons/particle-system"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// HttpParams holds the address the web backend listens on, the prefix the
// client is served under and an optional directory overriding the embedded client.
type HttpParams struct {
	Address string
	Prefix  string
	Root    string
}

// Controller receives the pointer and surface events of the browser clients.
// *particle.Driver implements it.
type Controller interface {
	Trigger(x, y float64)
	Resize(width, height float64)
}

// FaceDetector finds faces in grayscale camera frames.
type FaceDetector interface {
	DetectFaces(pixels []uint8, width, height int) ([]detector.Face, error)
}

// Server streams particle frames to browsers over websocket connections and
// turns their clicks, resizes and camera frames into driver input.
type Server struct {
	hub      *hub
	ctrl     Controller
	faces    FaceDetector
	profile  particle.Profile
	log      *zap.SugaredLogger
	upgrader websocket.Upgrader

	mu     sync.Mutex
	bounds particle.Bounds
}

// NewServer creates a server for profile. faces may be nil, in which case camera frames are ignored.
func NewServer(profile particle.Profile, b particle.Bounds, ctrl Controller, faces FaceDetector, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{
		hub:     newHub(log),
		ctrl:    ctrl,
		faces:   faces,
		profile: profile,
		log:     log,
		bounds:  b,
		// A server application calls the Upgrade method from an HTTP request handler to initiate a connection
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run dispatches frames to the connected clients until ctx is done.
func (s *Server) Run(ctx context.Context) {
	s.hub.run(ctx)
}

// Clients returns the number of connected browsers.
func (s *Server) Clients() int {
	return s.hub.clientCount()
}

// Bounds returns the surface size last reported by a client.
func (s *Server) Bounds() particle.Bounds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

// Broadcast sends f to every connected client. It is meant to be a Driver frame callback.
func (s *Server) Broadcast(f particle.Frame) {
	if s.hub.clientCount() == 0 {
		return
	}
	msg, err := json.Marshal(NewFrame(f))
	if err != nil {
		s.log.Warnw("frame encoding failed", "error", err)
		return
	}
	s.hub.publish(msg)
}

// ServeHTTP upgrades the connection and reads client messages until it closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Upgrade the http connection to a WebSocket connection
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			s.log.Warnw("upgrade failed", "error", err)
		}
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	scene, err := json.Marshal(NewScene(s.profile, s.Bounds()))
	if err == nil {
		c.send <- scene
	}
	if !s.hub.join(c) {
		conn.Close()
		return
	}
	go c.writePump(s.log)
	s.readSocket(c)
}

// readSocket listen for new messages being sent to the websocket
func (s *Server) readSocket(c *client) {
	defer func() {
		s.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.log.Warnw("read failed", "error", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		switch messageType {
		case websocket.TextMessage:
			s.handleText(msg)
		case websocket.BinaryMessage:
			s.handleCamera(c, msg)
		}
	}
}

func (s *Server) handleText(msg []byte) {
	var in Inbound
	if err := json.Unmarshal(msg, &in); err != nil {
		s.log.Debugw("invalid message", "error", err)
		return
	}
	switch in.Type {
	case TypeClick:
		s.log.Debugw("click", "x", in.X, "y", in.Y)
		s.ctrl.Trigger(in.X, in.Y)
	case TypeResize:
		if !(in.Width > 0) || !(in.Height > 0) {
			s.log.Debugw("invalid resize", "width", in.Width, "height", in.Height)
			return
		}
		s.mu.Lock()
		s.bounds = particle.Bounds{Width: in.Width, Height: in.Height}
		s.mu.Unlock()
		s.ctrl.Resize(in.Width, in.Height)
	default:
		s.log.Debugw("unknown message type", "type", in.Type)
	}
}

// handleCamera runs face detection on a webcam frame and blows the particles
// away from the best face.
func (s *Server) handleCamera(c *client, msg []byte) {
	if s.faces == nil {
		return
	}
	rgba, w, h, err := DecodeCamera(msg)
	if err != nil {
		s.log.Debugw("camera frame dropped", "error", err, "bytes", len(msg))
		return
	}
	faces, err := s.faces.DetectFaces(detector.Grayscale(rgba), w, h)
	if err != nil {
		s.log.Debugw("face detection failed", "error", err)
		return
	}
	if len(faces) > 0 {
		x, y := FaceCenter(faces[0], w, h, s.Bounds())
		s.ctrl.Trigger(x, y)
	}
	reply, err := json.Marshal(Faces{Type: TypeFaces, Faces: faces})
	if err != nil {
		return
	}
	s.hub.reply(c, reply)
}
