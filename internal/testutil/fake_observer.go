package testutil

import "github.com/frudas24/deskpad/internal/calib"

// Selection records a selection notification.
type Selection struct {
	Step calib.Step
	OK   bool
}

// FakeObserver records editor notifications.
type FakeObserver struct {
	Changes    int
	Selections []Selection
	Hints      []string
}

// Changed counts a redraw request.
func (f *FakeObserver) Changed() {
	f.Changes++
}

// SelectionChanged records the new selection.
func (f *FakeObserver) SelectionChanged(step calib.Step, ok bool) {
	f.Selections = append(f.Selections, Selection{Step: step, OK: ok})
}

// Hint records an operator hint.
func (f *FakeObserver) Hint(text string) {
	f.Hints = append(f.Hints, text)
}

// LastHint returns the most recent hint or "".
func (f *FakeObserver) LastHint() string {
	if len(f.Hints) == 0 {
		return ""
	}
	return f.Hints[len(f.Hints)-1]
}
