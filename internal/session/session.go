// Package session holds the host phase and input mode flags of the control panel.
package session

import "sync"

// ModePresetup is the calibration mode.
const ModePresetup = "presetup"

// ModeRun is the cropped streaming mode.
const ModeRun = "run"

// VideoWebRTC selects the live video element as the media source.
const VideoWebRTC = "webrtc"

// VideoMJPEG selects the MJPEG still-image preview as the media source.
const VideoMJPEG = "mjpeg"

// Snapshot is an immutable view of the mode flags. Gesture sessions capture one at pointer-down
// and keep it until the pointer is released.
type Snapshot struct {
	Mode           string
	InputEnabled   bool
	MouseMode      bool
	ScrollMode     bool
	PointerEnabled bool
	Fullscreen     bool
	MonitorIndex   int
	VideoMode      string
}

// Running reports whether remote input may be emitted for this snapshot.
func (s Snapshot) Running() bool {
	return s.Mode == ModeRun && s.InputEnabled
}

// Session holds the mutable mode flags shared between the host and the overlay.
type Session struct {
	mu             sync.RWMutex
	mode           string
	inputEnabled   bool
	mouseMode      bool
	scrollMode     bool
	pointerEnabled bool
	fullscreen     bool
	monitorIndex   int
	videoMode      string
}

// New returns a session in presetup mode with input and the remote pointer enabled.
func New() *Session {
	return &Session{
		mode:           ModePresetup,
		inputEnabled:   true,
		pointerEnabled: true,
		monitorIndex:   1,
		videoMode:      VideoMJPEG,
	}
}

// SetMode sets the current phase. Unknown values fall back to presetup.
func (s *Session) SetMode(mode string) {
	if mode != ModeRun {
		mode = ModePresetup
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

// Mode returns the current phase.
func (s *Session) Mode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetInputEnabled toggles whether inputs are forwarded to the host.
func (s *Session) SetInputEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputEnabled = enabled
}

// InputEnabled reports whether inputs are forwarded to the host.
func (s *Session) InputEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputEnabled
}

// SetMouseMode toggles relative mouse (trackpad) input.
func (s *Session) SetMouseMode(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mouseMode = enabled
}

// SetScrollMode toggles the virtual scroll joystick.
func (s *Session) SetScrollMode(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollMode = enabled
}

// SetPointerEnabled toggles remote pointer forwarding; off hands touches to local pan/zoom in fullscreen.
func (s *Session) SetPointerEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointerEnabled = enabled
}

// SetFullscreen records whether the overlay is in the immersive presentation.
func (s *Session) SetFullscreen(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fullscreen = enabled
}

// SetMonitor sets the selected monitor index.
func (s *Session) SetMonitor(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monitorIndex = idx
}

// SetVideoMode sets which media source is displayed.
func (s *Session) SetVideoMode(mode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch mode {
	case VideoWebRTC:
		s.videoMode = VideoWebRTC
	default:
		s.videoMode = VideoMJPEG
	}
}

// Snapshot returns a copy of the current flags.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Mode:           s.mode,
		InputEnabled:   s.inputEnabled,
		MouseMode:      s.mouseMode,
		ScrollMode:     s.scrollMode,
		PointerEnabled: s.pointerEnabled,
		Fullscreen:     s.fullscreen,
		MonitorIndex:   s.monitorIndex,
		VideoMode:      s.videoMode,
	}
}
