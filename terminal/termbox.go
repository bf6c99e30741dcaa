package terminal

import (
	particle "github.com/esimov/ascii-seasons/particle-system"
	"github.com/nsf/termbox-go"
)

// termboxScreen draws through termbox in 256 colour mode.
type termboxScreen struct{}

func (termboxScreen) Init() error {
	if err := termbox.Init(); err != nil {
		return err
	}
	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)
	termbox.SetOutputMode(termbox.Output256)
	return nil
}

func (termboxScreen) Close() {
	termbox.Close()
}

func (termboxScreen) Size() (int, int) {
	return termbox.Size()
}

func (termboxScreen) SetCell(x, y int, ch rune, fg, bg particle.RGB) {
	termbox.SetCell(x, y, ch, attr256(fg), attr256(bg))
}

func (termboxScreen) Flush() error {
	return termbox.Flush()
}

func (termboxScreen) PollEvent() Event {
	for {
		switch ev := termbox.PollEvent(); ev.Type {
		case termbox.EventKey:
			if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q' {
				return Event{Type: EventQuit}
			}
		case termbox.EventMouse:
			if ev.Key == termbox.MouseLeft {
				return Event{Type: EventClick, X: ev.MouseX, Y: ev.MouseY}
			}
		case termbox.EventResize:
			return Event{Type: EventResize, Width: ev.Width, Height: ev.Height}
		case termbox.EventInterrupt:
			return Event{Type: EventInterrupt}
		case termbox.EventError:
			return Event{Type: EventQuit}
		}
	}
}

func (termboxScreen) Interrupt() {
	termbox.Interrupt()
}

// attr256 maps a colour onto the xterm palette. In Output256 mode termbox
// expects the palette index plus one.
func attr256(c particle.RGB) termbox.Attribute {
	return termbox.Attribute(Index256(c)) + 1
}
