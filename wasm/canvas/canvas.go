//go:build js && wasm
// +build js,wasm

package canvas

import (
	"fmt"
	"math"
	"syscall/js"

	particle "github.com/esimov/ascii-seasons/particle-system"
)

// Input receives the pointer and resize events of the page.
type Input interface {
	Trigger(x, y float64)
	Resize(width, height float64)
}

// Canvas draws particle frames on a 2D canvas element filling the window.
type Canvas struct {
	window js.Value
	doc    js.Value
	cvs    js.Value
	ctx    js.Value

	profile particle.Profile
	simTime float64

	width, height float64
	callbacks     []js.Func
}

// NewCanvas binds the canvas element with the given id and sizes it to the window.
func NewCanvas(id string, profile particle.Profile) (*Canvas, error) {
	var c Canvas
	c.window = js.Global()
	c.doc = c.window.Get("document")
	c.cvs = c.doc.Call("getElementById", id)
	if c.cvs.IsNull() || c.cvs.IsUndefined() {
		return nil, fmt.Errorf("canvas element %q not found", id)
	}
	c.ctx = c.cvs.Call("getContext", "2d")
	c.profile = profile
	c.fit()
	c.clear(1)
	return &c, nil
}

// Bounds returns the drawing surface in CSS pixels.
func (c *Canvas) Bounds() particle.Bounds {
	return particle.Bounds{Width: c.width, Height: c.height}
}

func (c *Canvas) fit() {
	c.width = c.window.Get("innerWidth").Float()
	c.height = c.window.Get("innerHeight").Float()
	c.cvs.Set("width", c.width)
	c.cvs.Set("height", c.height)
}

// Listen forwards clicks and window resizes to in until Release is called.
func (c *Canvas) Listen(in Input) {
	click := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		x, y := c.pointer(args[0])
		in.Trigger(x, y)
		return nil
	})
	resize := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		c.fit()
		c.clear(1)
		in.Resize(c.width, c.height)
		return nil
	})
	c.cvs.Call("addEventListener", "click", click)
	c.window.Call("addEventListener", "resize", resize)
	c.callbacks = append(c.callbacks, click, resize)
}

// Release detaches the event listeners.
func (c *Canvas) Release() {
	for _, cb := range c.callbacks {
		cb.Release()
	}
	c.callbacks = nil
}

// Render paints the trail backdrop and the glow, then every particle of f.
func (c *Canvas) Render(f particle.Frame) {
	c.simTime = f.Time
	c.clear(c.profile.Trail)
	c.glow()
	f.Draw(c)
}

// clear covers the previous frame with the background at the given opacity.
// A trail of 0 clears completely.
func (c *Canvas) clear(trail float64) {
	if trail <= 0 {
		trail = 1
	}
	bg := c.profile.Background
	c.ctx.Set("fillStyle", rgba(bg, trail))
	c.ctx.Call("fillRect", 0, 0, c.width, c.height)
}

func (c *Canvas) glow() {
	g := c.profile.Glow
	if g.Radius <= 0 {
		return
	}
	x, y := g.AnchorX*c.width, g.AnchorY*c.height
	grad := c.ctx.Call("createRadialGradient", x, y, 0, x, y, g.Radius)
	grad.Call("addColorStop", 0, rgba(g.Color, 0.3))
	grad.Call("addColorStop", 1, rgba(g.Color, 0))
	c.ctx.Set("fillStyle", grad)
	c.ctx.Call("fillRect", x-g.Radius, y-g.Radius, 2*g.Radius, 2*g.Radius)
}

// Draw implements particle.Renderer.
func (c *Canvas) Draw(p *particle.Particle, v particle.Visual) {
	alpha := v.Opacity(p, c.simTime)
	if alpha <= 0 || p.Size() <= 0 {
		return
	}
	x, y, size, col := p.X(), p.Y(), p.Size(), p.Color()

	if v.Glow > 0 {
		r := size * v.Glow
		grad := c.ctx.Call("createRadialGradient", x, y, 0, x, y, r)
		grad.Call("addColorStop", 0, rgba(col, alpha*0.6))
		grad.Call("addColorStop", 1, rgba(col, 0))
		c.ctx.Set("fillStyle", grad)
		c.arc(x, y, r)
	}

	c.ctx.Call("save")
	c.ctx.Call("translate", x, y)
	c.ctx.Call("rotate", p.Rotation())
	c.ctx.Set("fillStyle", rgba(col, alpha))
	c.ctx.Set("strokeStyle", rgba(col, alpha))

	switch p.Shape() {
	case particle.ShapeFlame:
		grad := c.ctx.Call("createRadialGradient", 0, 0, 0, 0, 0, size)
		grad.Call("addColorStop", 0, rgba(col, alpha))
		grad.Call("addColorStop", 1, rgba(col, 0))
		c.ctx.Set("fillStyle", grad)
		c.arc(0, 0, size)
	case particle.ShapeCrystal:
		c.crystal(size)
	case particle.ShapePetal:
		c.ctx.Call("beginPath")
		c.ctx.Call("ellipse", 0, 0, size, size/2, 0, 0, 2*math.Pi)
		c.ctx.Call("fill")
	case particle.ShapeMaple:
		c.star(size, 5)
	case particle.ShapeGinkgo:
		c.ctx.Call("beginPath")
		c.ctx.Call("moveTo", 0, size)
		c.ctx.Call("arc", 0, 0, size, math.Pi*1.15, math.Pi*1.85)
		c.ctx.Call("closePath")
		c.ctx.Call("fill")
	default:
		c.arc(0, 0, size)
	}

	if v.Core {
		c.ctx.Set("fillStyle", rgba(particle.RGB{R: 255, G: 255, B: 255}, alpha))
		c.arc(0, 0, size*0.4)
	}
	c.ctx.Call("restore")
}

func (c *Canvas) arc(x, y, r float64) {
	c.ctx.Call("beginPath")
	c.ctx.Call("arc", x, y, r, 0, 2*math.Pi)
	c.ctx.Call("fill")
}

func (c *Canvas) crystal(size float64) {
	c.ctx.Set("lineWidth", math.Max(1, size/5))
	c.ctx.Call("beginPath")
	for i := 0; i < 6; i++ {
		a := float64(i) * math.Pi / 3
		c.ctx.Call("moveTo", 0, 0)
		c.ctx.Call("lineTo", size*math.Cos(a), size*math.Sin(a))
	}
	c.ctx.Call("stroke")
}

func (c *Canvas) star(size float64, points int) {
	c.ctx.Call("beginPath")
	for i := 0; i < 2*points; i++ {
		r := size
		if i%2 == 1 {
			r = size * 0.45
		}
		a := float64(i)*math.Pi/float64(points) - math.Pi/2
		if i == 0 {
			c.ctx.Call("moveTo", r*math.Cos(a), r*math.Sin(a))
			continue
		}
		c.ctx.Call("lineTo", r*math.Cos(a), r*math.Sin(a))
	}
	c.ctx.Call("closePath")
	c.ctx.Call("fill")
}

// Alert calls the `alert` Javascript function.
func (c *Canvas) Alert(message string) {
	c.window.Call("alert", message)
}

// Log calls the `console.log` Javascript function.
func (c *Canvas) Log(args ...interface{}) {
	c.window.Get("console").Call("log", args...)
}

func rgba(c particle.RGB, a float64) string {
	return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", c.R, c.G, c.B, a)
}
