package control

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/frudas24/deskpad/internal/logging"
	"github.com/frudas24/deskpad/internal/session"
	"github.com/frudas24/deskpad/internal/viewport"
)

const (
	// DragThreshold is the container distance a direct press must travel before it is a drag.
	DragThreshold = 10.0
)

// Kind classifies a pointer session.
type Kind int

const (
	// KindUndetermined is a direct press that has not crossed the drag threshold yet.
	KindUndetermined Kind = iota
	// KindDrag is a direct press forwarded as down/move/up.
	KindDrag
	// KindScroll is a joystick session.
	KindScroll
	// KindMouseMove is a relative cursor session.
	KindMouseMove
	// KindPassthrough emits nothing.
	KindPassthrough
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindUndetermined:
		return "undetermined"
	case KindDrag:
		return "drag"
	case KindScroll:
		return "scroll"
	case KindMouseMove:
		return "mouseMove"
	case KindPassthrough:
		return "passthrough"
	default:
		return "unknown"
	}
}

// Options tunes a Controller. Zero values select the defaults.
type Options struct {
	TickInterval time.Duration
	MaxDelta     int
	Logger       *zap.Logger
}

// gesture is the state of one pointer session.
type gesture struct {
	id     int
	kind   Kind
	mapper viewport.Mapper

	startRel  viewport.Point
	startNorm viewport.Point
	lastRel   viewport.Point
	lastNorm  viewport.Point

	moved  bool
	fracX  float64
	fracY  float64
	ticker Ticker
}

// Controller classifies pointer sessions and emits remote-input commands.
// It is not safe for concurrent use; callers serialize events and scheduler callbacks.
type Controller struct {
	sink     Sink
	sched    Scheduler
	observer JoystickObserver
	logger   *zap.Logger
	tick     time.Duration
	maxDelta int
	sessions map[int]*gesture
}

// NewController returns a controller that sends to sink and runs joystick ticks on sched.
// observer may be nil.
func NewController(sink Sink, sched Scheduler, observer JoystickObserver, opts Options) *Controller {
	c := &Controller{
		sink:     sink,
		sched:    sched,
		observer: observer,
		logger:   logging.OrNop(opts.Logger),
		tick:     opts.TickInterval,
		maxDelta: opts.MaxDelta,
		sessions: make(map[int]*gesture),
	}
	if c.tick <= 0 {
		c.tick = DefaultTickInterval
	}
	if c.maxDelta <= 0 {
		c.maxDelta = DefaultMaxDelta
	}
	return c
}

// Classify returns the session kind a press would get under snap.
func Classify(snap session.Snapshot) Kind {
	switch {
	case !snap.InputEnabled || !snap.Running():
		return KindPassthrough
	case snap.ScrollMode:
		return KindScroll
	case snap.MouseMode:
		return KindMouseMove
	default:
		return KindUndetermined
	}
}

// Down starts a session for pointer id at client point p. The snapshot and mapper are fixed for
// the whole session. A press for an id that is already tracked is ignored.
func (c *Controller) Down(id int, p viewport.Point, snap session.Snapshot, m viewport.Mapper) Kind {
	if g, ok := c.sessions[id]; ok {
		c.logger.Debug("pointer already tracked", zap.Int("id", id))
		return g.kind
	}
	g := &gesture{
		id:        id,
		kind:      Classify(snap),
		mapper:    m,
		startRel:  m.Relative(p),
		startNorm: m.Normalize(p),
	}
	g.lastRel = g.startRel
	g.lastNorm = g.startNorm
	c.sessions[id] = g

	if g.kind == KindScroll {
		c.startJoystick(g)
	}
	c.logger.Debug("gesture started", zap.Int("id", id), zap.Stringer("kind", g.kind))
	return g.kind
}

// Move updates the session for id. Untracked ids are ignored.
func (c *Controller) Move(id int, p viewport.Point) {
	g, ok := c.sessions[id]
	if !ok {
		return
	}
	rel := g.mapper.Relative(p)
	prev := g.lastRel
	g.lastRel = rel
	g.lastNorm = g.mapper.Normalize(p)

	switch g.kind {
	case KindScroll:
		c.showJoystick(g)
	case KindMouseMove:
		c.moveRelative(g, rel.X-prev.X, rel.Y-prev.Y)
	case KindUndetermined:
		if math.Hypot(rel.X-g.startRel.X, rel.Y-g.startRel.Y) <= DragThreshold {
			return
		}
		g.kind = KindDrag
		c.sink.Send(Down(id, g.startNorm))
		c.sendMove(g)
	case KindDrag:
		c.sendMove(g)
	}
}

// Up ends the session for id at client point p.
func (c *Controller) Up(id int, p viewport.Point) {
	g, ok := c.sessions[id]
	if !ok {
		return
	}
	delete(c.sessions, id)
	g.lastRel = g.mapper.Relative(p)
	g.lastNorm = g.mapper.Normalize(p)

	switch g.kind {
	case KindScroll:
		c.stopJoystick(g)
	case KindMouseMove:
		if !g.moved {
			c.sink.Send(Click())
		}
	case KindUndetermined:
		c.sink.Send(Down(id, g.startNorm))
		c.sink.Send(Up(id, g.startNorm))
	case KindDrag:
		c.sink.Send(Up(id, g.lastNorm))
	}
}

// Cancel ends the session for id without a click or tap. A forwarded drag is released at its
// last known point so the remote button is not left pressed.
func (c *Controller) Cancel(id int) {
	g, ok := c.sessions[id]
	if !ok {
		return
	}
	delete(c.sessions, id)
	c.teardown(g)
}

// Abort cancels every tracked session. It is called when host modes change.
func (c *Controller) Abort() {
	for id, g := range c.sessions {
		delete(c.sessions, id)
		c.teardown(g)
	}
}

// Active reports whether id is tracked.
func (c *Controller) Active(id int) bool {
	_, ok := c.sessions[id]
	return ok
}

// teardown releases what a session holds.
func (c *Controller) teardown(g *gesture) {
	switch g.kind {
	case KindScroll:
		c.stopJoystick(g)
	case KindDrag:
		c.sink.Send(Up(g.id, g.lastNorm))
	}
}

// sendMove emits a move at the session's live point.
func (c *Controller) sendMove(g *gesture) {
	c.sink.Send(Move(g.id, g.lastNorm))
}

// moveRelative converts a container delta into whole media pixels, carrying the remainder.
func (c *Controller) moveRelative(g *gesture, dx, dy float64) {
	kx, ky := g.mapper.MediaPerPixel()
	g.fracX += dx * kx
	g.fracY += dy * ky
	ix := int(g.fracX)
	iy := int(g.fracY)
	if ix == 0 && iy == 0 {
		return
	}
	g.fracX -= float64(ix)
	g.fracY -= float64(iy)
	g.moved = true
	c.sink.Send(RelMove(ix, iy))
}
