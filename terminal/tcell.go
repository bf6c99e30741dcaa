package terminal

import (
	particle "github.com/esimov/ascii-seasons/particle-system"
	"github.com/gdamore/tcell/v2"
)

// tcellScreen draws through tcell in true colour when the terminal supports it.
type tcellScreen struct {
	screen tcell.Screen
}

func (t *tcellScreen) Init() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.EnableMouse()
	screen.HideCursor()
	t.screen = screen
	return nil
}

func (t *tcellScreen) Close() {
	t.screen.Fini()
}

func (t *tcellScreen) Size() (int, int) {
	return t.screen.Size()
}

func (t *tcellScreen) SetCell(x, y int, ch rune, fg, bg particle.RGB) {
	style := tcell.StyleDefault.Foreground(trueColor(fg)).Background(trueColor(bg))
	t.screen.SetContent(x, y, ch, nil, style)
}

func (t *tcellScreen) Flush() error {
	t.screen.Show()
	return nil
}

func (t *tcellScreen) PollEvent() Event {
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			return Event{Type: EventQuit}
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				return Event{Type: EventQuit}
			}
		case *tcell.EventMouse:
			if ev.Buttons()&tcell.Button1 != 0 {
				x, y := ev.Position()
				return Event{Type: EventClick, X: x, Y: y}
			}
		case *tcell.EventResize:
			w, h := ev.Size()
			return Event{Type: EventResize, Width: w, Height: h}
		case *tcell.EventInterrupt:
			return Event{Type: EventInterrupt}
		}
	}
}

func (t *tcellScreen) Interrupt() {
	t.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

func trueColor(c particle.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
