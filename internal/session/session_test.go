package session

import "testing"

// TestInputEnabled_Toggle verifies input enabled toggle.
func TestInputEnabled_Toggle(t *testing.T) {
	s := New()
	s.SetInputEnabled(false)
	if s.InputEnabled() {
		t.Fatalf("expected input disabled")
	}
	s.SetInputEnabled(true)
	if !s.InputEnabled() {
		t.Fatalf("expected input enabled")
	}
}

// TestSetMode_UnknownFallsBackToPresetup verifies only run and presetup are accepted.
func TestSetMode_UnknownFallsBackToPresetup(t *testing.T) {
	s := New()
	s.SetMode(ModeRun)
	if s.Mode() != ModeRun {
		t.Fatalf("expected run mode")
	}
	s.SetMode("turbo")
	if s.Mode() != ModePresetup {
		t.Fatalf("expected presetup fallback, got %q", s.Mode())
	}
}

// TestSnapshot_IsDetached verifies later flag changes do not leak into a captured snapshot.
func TestSnapshot_IsDetached(t *testing.T) {
	s := New()
	s.SetMode(ModeRun)
	s.SetScrollMode(true)
	s.SetMonitor(2)
	snap := s.Snapshot()

	s.SetScrollMode(false)
	s.SetMode(ModePresetup)

	if !snap.ScrollMode || snap.Mode != ModeRun || snap.MonitorIndex != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if !snap.Running() {
		t.Fatalf("expected running snapshot")
	}
}
