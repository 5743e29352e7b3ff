package control

import (
	"math"
	"time"

	"github.com/frudas24/deskpad/internal/viewport"
)

const (
	// DefaultTickInterval is the joystick wheel period.
	DefaultTickInterval = 50 * time.Millisecond
	// DefaultMaxDelta is the wheel delta emitted at full deflection.
	DefaultMaxDelta = 240
	// JoystickRadius is the full-deflection distance in container pixels.
	JoystickRadius = 90.0
	// JoystickDeadZone is the distance below which no wheel is emitted.
	JoystickDeadZone = 6.0
	joystickEase     = 1.2
)

// JoystickView is what the overlay draws while a joystick is active, in container pixels.
type JoystickView struct {
	Origin viewport.Point
	Live   viewport.Point
	Radius float64
}

// JoystickObserver is told when the joystick visualization changes.
type JoystickObserver interface {
	JoystickChanged(view JoystickView)
	JoystickCleared()
}

// JoystickDelta converts a deflection (live minus origin, container pixels) into wheel deltas.
// Screen Y grows downward, so an upward drag yields a positive wheel Y.
// It reports false inside the dead zone or when both deltas round to zero.
func JoystickDelta(dx, dy float64, maxDelta int) (int, int, bool) {
	dist := math.Hypot(dx, dy)
	if dist < JoystickDeadZone {
		return 0, 0, false
	}
	nx := clampUnit(dx / JoystickRadius)
	ny := clampUnit(dy / JoystickRadius)
	strength := math.Min(dist/JoystickRadius, 1)
	eased := math.Pow(strength, joystickEase)

	wheelX := int(math.Round(nx * eased * float64(maxDelta)))
	wheelY := int(math.Round(-ny * eased * float64(maxDelta)))
	if wheelX == 0 && wheelY == 0 {
		return 0, 0, false
	}
	return wheelX, wheelY, true
}

// SetTuning changes the joystick tick interval and full-deflection delta for sessions that
// start afterwards. Non-positive values keep the current setting.
func (c *Controller) SetTuning(tick time.Duration, maxDelta int) {
	if tick > 0 {
		c.tick = tick
	}
	if maxDelta > 0 {
		c.maxDelta = maxDelta
	}
}

// startJoystick begins the wheel ticker for g.
func (c *Controller) startJoystick(g *gesture) {
	c.showJoystick(g)
	g.ticker = c.sched.Every(c.tick, func() { c.tickJoystick(g) })
}

// tickJoystick emits one wheel step for g while it is still the live session.
func (c *Controller) tickJoystick(g *gesture) {
	if cur, ok := c.sessions[g.id]; !ok || cur != g {
		return
	}
	wx, wy, ok := JoystickDelta(g.lastRel.X-g.startRel.X, g.lastRel.Y-g.startRel.Y, c.maxDelta)
	if !ok {
		return
	}
	c.sink.Send(Wheel(g.startNorm, wx, wy))
}

// showJoystick redraws the visualization for g.
func (c *Controller) showJoystick(g *gesture) {
	if c.observer == nil {
		return
	}
	c.observer.JoystickChanged(JoystickView{Origin: g.startRel, Live: g.lastRel, Radius: JoystickRadius})
}

// stopJoystick cancels the ticker and clears the visualization.
func (c *Controller) stopJoystick(g *gesture) {
	if g.ticker != nil {
		g.ticker.Stop()
		g.ticker = nil
	}
	if c.observer != nil {
		c.observer.JoystickCleared()
	}
}

// clampUnit bounds v to [-1, 1].
func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
