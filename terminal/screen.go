package terminal

import (
	"fmt"

	particle "github.com/esimov/ascii-seasons/particle-system"
)

// EventType tells what a polled Event carries.
type EventType int

const (
	EventNone EventType = iota
	EventClick
	EventResize
	EventQuit
	EventInterrupt
)

// Event is a backend neutral input event. Click positions and resize
// dimensions are in cells.
type Event struct {
	Type          EventType
	X, Y          int
	Width, Height int
}

// Screen is the cell surface a Terminal draws on.
type Screen interface {
	Init() error
	Close()
	Size() (int, int)
	SetCell(x, y int, ch rune, fg, bg particle.RGB)
	Flush() error
	// PollEvent blocks until the next event. It returns EventInterrupt after Interrupt.
	PollEvent() Event
	Interrupt()
}

// NewScreen returns the backend registered under name ("termbox" or "tcell").
func NewScreen(name string) (Screen, error) {
	switch name {
	case "termbox":
		return &termboxScreen{}, nil
	case "tcell":
		return &tcellScreen{}, nil
	}
	return nil, fmt.Errorf("unknown terminal backend %q", name)
}
