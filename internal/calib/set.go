package calib

// Set owns the three calibration rectangles and keeps chat/scroll inside plugin.
// All rectangles are stored in absolute media coordinates. The zero value is an empty set.
type Set struct {
	rects   [3]Rect
	present [3]bool
}

// Get returns the stored rectangle for step.
func (s *Set) Get(step Step) (Rect, bool) {
	if !step.Valid() {
		return Rect{}, false
	}
	return s.rects[step], s.present[step]
}

// Plugin returns the plugin rectangle, if set.
func (s *Set) Plugin() (Rect, bool) {
	return s.Get(StepPlugin)
}

// SetRect clamps r per the set invariants, stores it and returns the stored value.
// Translating plugin drags chat/scroll by the same delta before they are re-clamped.
func (s *Set) SetRect(step Step, r Rect) Rect {
	if !step.Valid() {
		return r
	}
	r = EnforceMinSize(r)

	if step != StepPlugin {
		if plugin, ok := s.Plugin(); ok {
			r = ClampInto(r, plugin)
		}
		s.rects[step] = r
		s.present[step] = true
		return r
	}

	old, hadPlugin := s.Plugin()
	s.rects[StepPlugin] = r
	s.present[StepPlugin] = true
	dx, dy := 0, 0
	if hadPlugin && old.W == r.W && old.H == r.H {
		dx, dy = r.X-old.X, r.Y-old.Y
	}
	for _, child := range [...]Step{StepChat, StepScroll} {
		if !s.present[child] {
			continue
		}
		s.rects[child] = ClampInto(s.rects[child].Translate(dx, dy), r)
	}
	return r
}

// Clear removes the rectangle for step. Clearing plugin clears all three slots.
func (s *Set) Clear(step Step) {
	if !step.Valid() {
		return
	}
	if step == StepPlugin {
		s.Reset()
		return
	}
	s.rects[step] = Rect{}
	s.present[step] = false
}

// Reset clears every slot.
func (s *Set) Reset() {
	*s = Set{}
}

// LoadSnapshot replaces the set with a server snapshot. A missing or non-positive plugin clears
// everything; chat/scroll are rebuilt from plugin's origin only when their size is positive.
func (s *Set) LoadSnapshot(c Calib) bool {
	s.Reset()
	plugin := Normalize(c.PluginAbs)
	if plugin.Empty() {
		return false
	}
	s.rects[StepPlugin] = plugin
	s.present[StepPlugin] = true
	s.loadRelative(StepChat, plugin, c.ChatRel)
	s.loadRelative(StepScroll, plugin, c.ScrollRel)
	return true
}

// loadRelative rebuilds an absolute child rect from its plugin-relative encoding.
func (s *Set) loadRelative(step Step, plugin, rel Rect) {
	rel = Normalize(rel)
	if rel.Empty() {
		return
	}
	abs := Rect{X: plugin.X + rel.X, Y: plugin.Y + rel.Y, W: rel.W, H: rel.H}
	s.rects[step] = ClampInto(abs, plugin)
	s.present[step] = true
}

// ToPayload encodes r for transmission: absolute for plugin, plugin-relative for chat/scroll.
// Without a plugin there is no frame of reference and r is returned unchanged.
func (s *Set) ToPayload(step Step, r Rect) Rect {
	if step == StepPlugin {
		return r
	}
	plugin, ok := s.Plugin()
	if !ok {
		return r
	}
	return Rect{X: r.X - plugin.X, Y: r.Y - plugin.Y, W: r.W, H: r.H}
}

// Payload returns the transmission encoding of the stored rect for step.
func (s *Set) Payload(step Step) (Rect, bool) {
	r, ok := s.Get(step)
	if !ok {
		return Rect{}, false
	}
	return s.ToPayload(step, r), true
}

// Snapshot returns the set in the server snapshot encoding.
func (s *Set) Snapshot(monitorIndex int) Calib {
	c := Calib{MonitorIndex: monitorIndex}
	if r, ok := s.Payload(StepPlugin); ok {
		c.PluginAbs = r
	}
	if r, ok := s.Payload(StepChat); ok {
		c.ChatRel = r
	}
	if r, ok := s.Payload(StepScroll); ok {
		c.ScrollRel = r
	}
	return c
}
