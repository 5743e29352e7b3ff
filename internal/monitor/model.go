// Package monitor describes the remote display geometry reported by the server.
package monitor

import "fmt"

// Monitor describes a display and its bounds on the remote desktop.
type Monitor struct {
	Index   int
	X       int
	Y       int
	W       int
	H       int
	Primary bool
}

// GetMonitorByIndex returns the monitor matching the 1-based index.
func GetMonitorByIndex(list []Monitor, idx int) (Monitor, bool) {
	for _, m := range list {
		if m.Index == idx {
			return m, true
		}
	}
	return Monitor{}, false
}

// Select returns the monitor for idx, falling back to the primary display and then the first one.
func Select(list []Monitor, idx int) (Monitor, bool) {
	if m, ok := GetMonitorByIndex(list, idx); ok {
		return m, true
	}
	for _, m := range list {
		if m.Primary {
			return m, true
		}
	}
	if len(list) > 0 {
		return list[0], true
	}
	return Monitor{}, false
}

// Label renders a monitor the way the control panel lists it.
func (m Monitor) Label() string {
	label := fmt.Sprintf("Monitor %d", m.Index)
	if m.W > 0 && m.H > 0 {
		label += fmt.Sprintf(" %dx%d", m.W, m.H)
	}
	if m.Primary {
		label += " (primary)"
	}
	return label
}
