// Package replay drives an overlay from a YAML script of timed pointer and control events.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/frudas24/deskpad/internal/calib"
	"github.com/frudas24/deskpad/internal/session"
	"github.com/frudas24/deskpad/internal/viewport"
)

// Event types.
const (
	EventDown   = "down"
	EventMove   = "move"
	EventUp     = "up"
	EventCancel = "cancel"
	EventDraw   = "draw"
	EventEdit   = "edit"
	EventSave   = "save"
	EventNudge  = "nudge"
	EventMode   = "mode"
	EventType   = "type"
	EventEnter  = "enter"
	EventScale  = "scale"
	EventLayout = "layout"
	EventSleep  = "sleep"

	EventVideo     = "video"
	EventMonitor   = "monitor"
	EventRestart   = "restart"
	EventClearChat = "clearChat"
)

// Box is a container rectangle in client pixels.
type Box struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// Size is a media frame size.
type Size struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Mode holds optional host flags; unset fields are left alone.
type Mode struct {
	Phase      string `yaml:"phase"`
	Input      *bool  `yaml:"input"`
	Mouse      *bool  `yaml:"mouse"`
	Scroll     *bool  `yaml:"scroll"`
	Pointer    *bool  `yaml:"pointer"`
	Fullscreen *bool  `yaml:"fullscreen"`
}

// Event is one scripted step. Fields apply according to Type.
type Event struct {
	After time.Duration `yaml:"after"`
	Type  string        `yaml:"type"`
	ID    int           `yaml:"id"`
	X     float64       `yaml:"x"`
	Y     float64       `yaml:"y"`
	Step  string        `yaml:"step"`
	On    bool          `yaml:"on"`
	DX    int           `yaml:"dx"`
	DY    int           `yaml:"dy"`
	Text  string        `yaml:"text"`
	Axis  string        `yaml:"axis"`
	Delta float64       `yaml:"delta"`
	Mode  *Mode         `yaml:"mode"`
	Box   *Box          `yaml:"box"`
	// Video is the transport of a video event, Monitor the index of a monitor event.
	Video   string `yaml:"video"`
	Monitor int    `yaml:"monitor"`
}

// Script is a replayable session.
type Script struct {
	Container Box     `yaml:"container"`
	DPR       float64 `yaml:"dpr"`
	Media     Size    `yaml:"media"`
	Mode      Mode    `yaml:"mode"`
	Events    []Event `yaml:"events"`
}

// ErrEmptyContainer is returned for scripts without a usable container.
var ErrEmptyContainer = errors.New("script container must have positive size")

// Load reads and validates a script file.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, err
	}
	s, err := Parse(data)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a script. Unknown fields are rejected.
func Parse(data []byte) (Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Script{}, fmt.Errorf("decode script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// Validate checks geometry, event types and step names.
func (s Script) Validate() error {
	if s.Container.W <= 0 || s.Container.H <= 0 {
		return ErrEmptyContainer
	}
	for i, ev := range s.Events {
		if ev.After < 0 {
			return fmt.Errorf("event %d: negative delay", i)
		}
		switch ev.Type {
		case EventDown, EventMove, EventUp, EventCancel, EventEdit, EventSave, EventNudge,
			EventType, EventEnter, EventSleep, EventRestart, EventClearChat:
		case EventVideo:
			if ev.Video != session.VideoWebRTC && ev.Video != session.VideoMJPEG {
				return fmt.Errorf("event %d: video must be webrtc or mjpeg", i)
			}
		case EventMonitor:
			if ev.Monitor < 1 {
				return fmt.Errorf("event %d: monitor index starts at 1", i)
			}
		case EventDraw:
			if _, err := calib.ParseStep(ev.Step); err != nil {
				return fmt.Errorf("event %d: %w: %q", i, err, ev.Step)
			}
		case EventMode:
			if ev.Mode == nil {
				return fmt.Errorf("event %d: mode event needs a mode block", i)
			}
		case EventScale:
			if ev.Axis != "x" && ev.Axis != "y" {
				return fmt.Errorf("event %d: scale axis must be x or y", i)
			}
		case EventLayout:
			if ev.Box == nil || ev.Box.W <= 0 || ev.Box.H <= 0 {
				return fmt.Errorf("event %d: layout needs a positive box", i)
			}
		default:
			return fmt.Errorf("event %d: unknown type %q", i, ev.Type)
		}
	}
	return nil
}

// viewport converts b to container geometry.
func (b Box) viewport() viewport.Box {
	return viewport.Box{X: b.X, Y: b.Y, W: b.W, H: b.H}
}

// point returns the event position in client pixels.
func (ev Event) point() viewport.Point {
	return viewport.Point{X: ev.X, Y: ev.Y}
}
