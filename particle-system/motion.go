package particle

import "math"

// advance moves p one tick forward according to the species motion profile.
// Motion is frame based: velocities are in surface units per tick, and simTime
// (seconds) only drives the periodic sway and pulse terms.
func advance(p *Particle, s *Species, rnd Rand, simTime float64) {
	switch s.Motion {
	case MotionFall:
		fall(p, simTime)
	case MotionRise:
		rise(p, simTime)
	case MotionErratic:
		erratic(p, &s.Erratic, rnd, simTime)
	}
}

func fall(p *Particle, simTime float64) {
	p.y += p.vy
	p.x += p.vx*p.direction + p.sway(simTime)
	if p.spin {
		p.rotation += p.rotationSpeed
	}
	p.decay()
}

func rise(p *Particle, simTime float64) {
	p.vy *= p.accel
	p.y -= p.vy
	p.x += p.vx + p.sway(simTime)
	if p.spin {
		p.rotation += p.rotationSpeed
	}
	p.decay()
}

func erratic(p *Particle, e *Erratic, rnd Rand, simTime float64) {
	if p.pauseRemaining > 0 {
		p.pauseRemaining--
		if p.pauseRemaining < 0 {
			p.pauseRemaining = 0
		}
		p.pulse(simTime, e.PulseDepth)
		return
	}

	if float64(p.age-p.lastChange) > p.changeInterval {
		p.ax = between(rnd, -e.Accel, e.Accel)
		p.ay = between(rnd, -e.Accel, e.Accel)
		p.lastChange = p.age

		if rnd.Float64() < e.PauseChance {
			p.pauseRemaining = p.maxPause * rnd.Float64()
			return
		}
	}

	p.vx += p.ax
	p.vy += p.ay
	if speed := math.Hypot(p.vx, p.vy); speed > e.MaxSpeed {
		p.vx = p.vx / speed * e.MaxSpeed
		p.vy = p.vy / speed * e.MaxSpeed
	}
	p.x += p.vx
	p.y += p.vy
	p.pulse(simTime, e.PulseDepth)
}

// sway is the lateral sinusoid; the per particle phase keeps a population out of lock-step.
func (p *Particle) sway(simTime float64) float64 {
	return math.Sin(simTime*p.swayFrequency+p.phase) * p.swayAmplitude
}

// decay only ever lowers size and alpha.
func (p *Particle) decay() {
	if p.shrink < 1 {
		p.size *= p.shrink
	}
	if p.fade > 0 {
		p.alpha = math.Max(0, p.alpha-p.fade)
	}
}

func (p *Particle) pulse(simTime, depth float64) {
	wave := math.Sin(simTime*p.pulseSpeed + p.pulseOffset)
	p.alpha = clamp01(p.baseAlpha + (wave+1)*depth/2)
}
