package websocket

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/esimov/ascii-seasons/detector"
	particle "github.com/esimov/ascii-seasons/particle-system"
)

// Message types exchanged with the browser client.
const (
	TypeScene  = "scene"
	TypeFrame  = "frame"
	TypeFaces  = "faces"
	TypeClick  = "click"
	TypeResize = "resize"
)

// Inbound is a text message sent by the browser.
type Inbound struct {
	Type   string  `json:"type"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Scene is sent once on connect and describes the backdrop the client paints.
type Scene struct {
	Type       string       `json:"type"`
	Label      string       `json:"label"`
	Background string       `json:"background"`
	Trail      float64      `json:"trail"`
	Glow       *GlowMessage `json:"glow,omitempty"`
	Width      float64      `json:"width"`
	Height     float64      `json:"height"`
}

// GlowMessage is the fire glow anchored in surface fractions.
type GlowMessage struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}

// Frame carries every particle of one tick.
type Frame struct {
	Type      string            `json:"type"`
	Tick      uint64            `json:"tick"`
	Time      float64           `json:"time"`
	Particles []ParticleMessage `json:"particles"`
}

// ParticleMessage is the compact wire form of a particle.
type ParticleMessage struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"s"`
	Alpha    float64 `json:"a"`
	Rotation float64 `json:"r,omitempty"`
	Color    string  `json:"c"`
	Shape    string  `json:"sh,omitempty"`
	Glow     float64 `json:"g,omitempty"`
	Twinkle  float64 `json:"tw,omitempty"`
	Phase    float64 `json:"ph,omitempty"`
	Core     bool    `json:"core,omitempty"`
}

// Faces reports the detections of the last camera frame back to its sender.
type Faces struct {
	Type  string          `json:"type"`
	Faces []detector.Face `json:"faces"`
}

// NewScene describes profile on a surface of the given bounds.
func NewScene(profile particle.Profile, b particle.Bounds) Scene {
	sc := Scene{
		Type:       TypeScene,
		Label:      profile.Label,
		Background: profile.Background.Hex(),
		Trail:      profile.Trail,
		Width:      b.Width,
		Height:     b.Height,
	}
	if g := profile.Glow; g.Radius > 0 {
		sc.Glow = &GlowMessage{X: g.AnchorX, Y: g.AnchorY, Radius: g.Radius, Color: g.Color.Hex()}
	}
	return sc
}

// encoder collects the particles of a frame; it is the websocket particle.Renderer.
type encoder struct {
	particles []ParticleMessage
}

func (e *encoder) Draw(p *particle.Particle, v particle.Visual) {
	e.particles = append(e.particles, ParticleMessage{
		X:        round2(p.X()),
		Y:        round2(p.Y()),
		Size:     round2(p.Size()),
		Alpha:    round2(p.Alpha()),
		Rotation: round2(p.Rotation()),
		Color:    p.Color().Hex(),
		Shape:    p.Shape(),
		Glow:     v.Glow,
		Twinkle:  v.Twinkle,
		Phase:    round2(p.Phase()),
		Core:     v.Core,
	})
}

// NewFrame converts a driver frame into its wire form.
func NewFrame(f particle.Frame) Frame {
	var e encoder
	f.Draw(&e)
	return Frame{Type: TypeFrame, Tick: f.Tick, Time: round2(f.Time), Particles: e.particles}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// cameraHeader is the size of the big endian width and height prefix of a camera frame.
const cameraHeader = 4

// ErrCameraFrame is returned for malformed binary camera messages.
var ErrCameraFrame = errors.New("malformed camera frame")

// DecodeCamera splits a binary camera message into its RGBA pixels and dimensions.
// The message is a uint16 width and a uint16 height followed by width*height*4 bytes.
func DecodeCamera(msg []byte) ([]uint8, int, int, error) {
	if len(msg) < cameraHeader {
		return nil, 0, 0, ErrCameraFrame
	}
	w := int(binary.BigEndian.Uint16(msg[0:2]))
	h := int(binary.BigEndian.Uint16(msg[2:4]))
	pixels := msg[cameraHeader:]
	if w == 0 || h == 0 || len(pixels) != w*h*4 {
		return nil, 0, 0, ErrCameraFrame
	}
	return pixels, w, h, nil
}

// EncodeCamera is the inverse of DecodeCamera.
func EncodeCamera(rgba []uint8, width, height int) []byte {
	msg := make([]byte, cameraHeader+len(rgba))
	binary.BigEndian.PutUint16(msg[0:2], uint16(width))
	binary.BigEndian.PutUint16(msg[2:4], uint16(height))
	copy(msg[cameraHeader:], rgba)
	return msg
}

// FaceCenter maps a detection on a mirrored selfie camera onto the surface.
func FaceCenter(f detector.Face, width, height int, b particle.Bounds) (float64, float64) {
	x := (1 - float64(f.Col)/float64(width)) * b.Width
	y := float64(f.Row) / float64(height) * b.Height
	return x, y
}
