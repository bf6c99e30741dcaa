package terminal

import particle "github.com/esimov/ascii-seasons/particle-system"

// xterm 256-colour palette:
//
// Color cube: index = 16 + 36*r + 6*g + b where r,g,b ∈ [0,5]
// Grayscale ramp: indices 232-255, level = 8 + 10*(index-232)

// cubeLevels are the channel intensities of the six cube steps.
var cubeLevels = [6]int{0, 95, 135, 175, 215, 255}

// Cube256 returns the xterm 256-palette index for an RGB cube coordinate.
// r, g, b must be in [0,5]. Values outside that range are clamped.
func Cube256(r, g, b uint8) uint8 {
	if r > 5 {
		r = 5
	}
	if g > 5 {
		g = 5
	}
	if b > 5 {
		b = 5
	}
	return 16 + 36*r + 6*g + b
}

// Index256 returns the palette entry closest to c, taking the grayscale ramp
// into account for unsaturated colours.
func Index256(c particle.RGB) uint8 {
	r, g, b := cubeStep(c.R), cubeStep(c.G), cubeStep(c.B)
	cube := Cube256(r, g, b)
	cubeDist := dist2(c, cubeLevels[r], cubeLevels[g], cubeLevels[b])

	avg := (int(c.R) + int(c.G) + int(c.B)) / 3
	if avg < 8 || avg > 238 {
		return cube
	}
	gi := (avg - 8 + 5) / 10
	if gi > 23 {
		gi = 23
	}
	level := 8 + 10*gi
	if dist2(c, level, level, level) < cubeDist {
		return uint8(232 + gi)
	}
	return cube
}

func cubeStep(v uint8) uint8 {
	switch {
	case v < 48:
		return 0
	case v < 115:
		return 1
	}
	return uint8((int(v) - 35) / 40)
}

func dist2(c particle.RGB, r, g, b int) int {
	dr, dg, db := int(c.R)-r, int(c.G)-g, int(c.B)-b
	return dr*dr + dg*dg + db*db
}
