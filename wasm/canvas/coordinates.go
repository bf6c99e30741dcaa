//go:build js && wasm
// +build js,wasm

package canvas

import "syscall/js"

// pointer translates a mouse event into canvas coordinates.
func (c *Canvas) pointer(ev js.Value) (float64, float64) {
	rect := c.cvs.Call("getBoundingClientRect")
	x := ev.Get("clientX").Float() - rect.Get("left").Float()
	y := ev.Get("clientY").Float() - rect.Get("top").Float()
	return scale(x, rect.Get("width").Float(), c.width), scale(y, rect.Get("height").Float(), c.height)
}

// scale maps v from a css extent onto the backing store extent.
func scale(v, css, store float64) float64 {
	if css <= 0 {
		return v
	}
	return v * store / css
}
