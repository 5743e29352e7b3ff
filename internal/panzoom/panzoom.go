// Package panzoom implements the local two-finger pinch/pan view transform. It never talks to
// the remote side.
package panzoom

import (
	"math"
	"time"

	"github.com/frudas24/deskpad/internal/viewport"
)

const (
	// MinScale is the unzoomed scale.
	MinScale = 1.0
	// MaxScale is the deepest zoom.
	MaxScale = 4.0
	// PanThreshold is the movement in container pixels below which a contact is still a tap.
	// It is also the jitter floor for pinch updates.
	PanThreshold = 3.0
	// DoubleTapWindow is the longest gap between taps that resets the view.
	DoubleTapWindow = 320 * time.Millisecond
	scaleEpsilon    = 1e-3
)

// State is the local view transform.
type State struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Identity is the unzoomed view.
var Identity = State{Scale: 1}

// Clamp bounds the scale to [MinScale, MaxScale] and the offsets so the zoomed content never
// pans past bounds: |OffsetX| <= (Scale-1)*W/2, same for Y.
func (s State) Clamp(bounds viewport.Box) State {
	if math.IsNaN(s.Scale) || s.Scale < MinScale {
		s.Scale = MinScale
	}
	s.Scale = math.Min(s.Scale, MaxScale)
	maxX := (s.Scale - 1) * bounds.W / 2
	maxY := (s.Scale - 1) * bounds.H / 2
	s.OffsetX = clampSym(s.OffsetX, maxX)
	s.OffsetY = clampSym(s.OffsetY, maxY)
	return s
}

// Observer receives view changes and single taps.
type Observer interface {
	ViewChanged(State)
	Tap()
}

// pinchRef is the distance and midpoint of two contacts.
type pinchRef struct {
	dist   float64
	center viewport.Point
}

// Controller tracks up to two contacts and updates the view. It is not safe for concurrent use.
type Controller struct {
	observer Observer
	bounds   viewport.Box
	state    State
	now      func() time.Time

	contacts map[int]viewport.Point
	order    []int
	ref      *pinchRef
	last     *pinchRef
	base     State
	start    viewport.Point
	lastPan  viewport.Point
	panning  bool
	pinched  bool
	lastTap  time.Time
}

// New returns a controller at the identity view. observer may be nil.
func New(observer Observer) *Controller {
	return &Controller{
		observer: observer,
		state:    Identity,
		now:      time.Now,
		contacts: make(map[int]viewport.Point),
	}
}

// SetNowFunc overrides the clock used for double-tap detection.
func (c *Controller) SetNowFunc(fn func() time.Time) {
	if fn != nil {
		c.now = fn
	}
}

// SetBounds updates the zoomed element size and re-clamps the view.
func (c *Controller) SetBounds(bounds viewport.Box) {
	c.bounds = bounds
	c.apply(c.state)
}

// State returns the current view.
func (c *Controller) State() State {
	return c.state
}

// Reset returns to the identity view and forgets all contacts.
func (c *Controller) Reset() {
	c.forget()
	c.lastTap = time.Time{}
	c.apply(Identity)
}

// Active reports whether id is a tracked contact.
func (c *Controller) Active(id int) bool {
	_, ok := c.contacts[id]
	return ok
}

// Down adds a contact. A third simultaneous contact is refused.
func (c *Controller) Down(id int, p viewport.Point) bool {
	if _, ok := c.contacts[id]; ok {
		return true
	}
	if len(c.contacts) >= 2 {
		return false
	}
	c.contacts[id] = p
	c.order = append(c.order, id)
	switch len(c.contacts) {
	case 1:
		c.start = p
		c.lastPan = p
	case 2:
		c.ref = c.measure()
		c.last = c.ref
		c.base = c.state
	}
	return true
}

// Move updates a contact, applying a pinch with two contacts or a pan with one.
func (c *Controller) Move(id int, p viewport.Point) {
	if _, ok := c.contacts[id]; !ok {
		return
	}
	c.contacts[id] = p

	if len(c.contacts) == 2 {
		c.pinch()
		return
	}
	if !c.panning {
		if math.Hypot(p.X-c.start.X, p.Y-c.start.Y) < PanThreshold {
			return
		}
		c.panning = true
	}
	dx, dy := p.X-c.lastPan.X, p.Y-c.lastPan.Y
	c.lastPan = p
	if c.state.Scale <= MinScale+scaleEpsilon {
		return
	}
	next := c.state
	next.OffsetX += dx
	next.OffsetY += dy
	c.apply(next)
}

// Up removes a contact. Lifting the last contact of a session without pan or pinch is a tap;
// a second tap within DoubleTapWindow resets the view.
func (c *Controller) Up(id int, p viewport.Point) {
	if _, ok := c.contacts[id]; !ok {
		return
	}
	c.contacts[id] = p
	c.remove(id)
	if len(c.contacts) > 0 {
		return
	}
	if !c.panning && !c.pinched {
		c.tap()
	}
	c.forget()
}

// Cancel removes a contact without ever producing a tap.
func (c *Controller) Cancel(id int) {
	if _, ok := c.contacts[id]; !ok {
		return
	}
	c.remove(id)
	if len(c.contacts) == 0 {
		c.forget()
	}
}

// pinch scales the view captured when the second contact landed by the distance ratio, then
// shifts it by the midpoint delta. Updates within PanThreshold of the last applied geometry are
// ignored.
func (c *Controller) pinch() {
	cur := c.measure()
	if c.ref == nil {
		c.ref, c.last, c.base = cur, cur, c.state
		return
	}
	if math.Abs(cur.dist-c.last.dist) < PanThreshold &&
		math.Hypot(cur.center.X-c.last.center.X, cur.center.Y-c.last.center.Y) < PanThreshold {
		return
	}
	ratio := 1.0
	if c.ref.dist > 0 {
		ratio = cur.dist / c.ref.dist
	}
	next := c.base
	next.Scale = math.Max(MinScale, math.Min(MaxScale, c.base.Scale*ratio))
	if c.base.Scale > 0 {
		k := next.Scale / c.base.Scale
		next.OffsetX *= k
		next.OffsetY *= k
	}
	next.OffsetX += cur.center.X - c.ref.center.X
	next.OffsetY += cur.center.Y - c.ref.center.Y
	c.last = cur
	c.pinched = true
	c.apply(next)
}

// measure returns the distance and midpoint of the two tracked contacts.
func (c *Controller) measure() *pinchRef {
	a, b := c.contacts[c.order[0]], c.contacts[c.order[1]]
	return &pinchRef{
		dist:   math.Hypot(a.X-b.X, a.Y-b.Y),
		center: viewport.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2},
	}
}

// remove drops a contact; the survivor of a pinch continues as a pan from where it is.
func (c *Controller) remove(id int) {
	delete(c.contacts, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.ref = nil
	if len(c.order) == 1 {
		c.start = c.contacts[c.order[0]]
		c.lastPan = c.start
	}
}

// tap handles a completed tap.
func (c *Controller) tap() {
	now := c.now()
	if !c.lastTap.IsZero() && now.Sub(c.lastTap) < DoubleTapWindow {
		c.lastTap = time.Time{}
		c.apply(Identity)
		return
	}
	c.lastTap = now
	if c.observer != nil {
		c.observer.Tap()
	}
}

// forget clears per-session state.
func (c *Controller) forget() {
	clear(c.contacts)
	c.order = c.order[:0]
	c.ref = nil
	c.panning = false
	c.pinched = false
}

// apply clamps next, stores it and notifies on change.
func (c *Controller) apply(next State) {
	next = next.Clamp(c.bounds)
	if next == c.state {
		return
	}
	c.state = next
	if c.observer != nil {
		c.observer.ViewChanged(next)
	}
}

// clampSym bounds v to [-limit, limit].
func clampSym(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return math.Max(-limit, math.Min(limit, v))
}
