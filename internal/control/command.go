// Package control turns pointer sessions into remote-input commands and delivers them over the
// control websocket.
package control

import (
	"github.com/frudas24/deskpad/internal/calib"
	"github.com/frudas24/deskpad/internal/viewport"
)

// CommandType identifies the kind of control command.
type CommandType string

const (
	// CmdDown presses the remote pointer at a normalized point.
	CmdDown CommandType = "down"
	// CmdMove moves the pressed remote pointer.
	CmdMove CommandType = "move"
	// CmdUp releases the remote pointer.
	CmdUp CommandType = "up"
	// CmdWheel scrolls at a normalized origin by wheel deltas.
	CmdWheel CommandType = "wheel"
	// CmdRelMove moves the remote cursor by media pixels.
	CmdRelMove CommandType = "relMove"
	// CmdClick clicks at the current remote cursor position.
	CmdClick CommandType = "click"
	// CmdCalibRect stores one calibration rectangle on the server.
	CmdCalibRect CommandType = "calibRect"
	// CmdSetMode switches the server phase.
	CmdSetMode CommandType = "setMode"
	// CmdInputEnabled toggles remote input injection.
	CmdInputEnabled CommandType = "inputEnabled"
	// CmdType types unicode text into the chat input.
	CmdType CommandType = "type"
	// CmdEnter presses Enter in the chat input.
	CmdEnter CommandType = "enter"
	// CmdSetVideo selects the stream transport (webrtc or mjpeg).
	CmdSetVideo CommandType = "setVideo"
	// CmdSetMonitor selects the captured monitor by 1-based index.
	CmdSetMonitor CommandType = "setMonitor"
	// CmdRestartPresetup restarts the full-monitor calibration stream.
	CmdRestartPresetup CommandType = "restartPresetup"
	// CmdClearChat empties the remote chat input.
	CmdClearChat CommandType = "clearChat"
)

// Command is one logical control command. Only the fields relevant to Type are meaningful.
type Command struct {
	Type CommandType
	// ID is the pointer id of down/move/up.
	ID int
	// X and Y are normalized [0,1] media coordinates (pointer position or wheel origin).
	X float64
	Y float64
	// DX and DY carry wheel deltas or relative move deltas in media pixels.
	DX int
	DY int
	// Step and Rect describe a calibration update; Rect is already payload-encoded.
	Step    calib.Step
	Rect    calib.Rect
	Mode    string
	Enabled bool
	Text    string
	Video   string
	Monitor int
}

// Sink accepts commands without blocking. Implementations drop commands they cannot deliver.
type Sink interface {
	Send(Command)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Command)

// Send calls f(cmd).
func (f SinkFunc) Send(cmd Command) {
	f(cmd)
}

// Down builds a pointer-down command.
func Down(id int, p viewport.Point) Command {
	return Command{Type: CmdDown, ID: id, X: p.X, Y: p.Y}
}

// Move builds a pointer-move command.
func Move(id int, p viewport.Point) Command {
	return Command{Type: CmdMove, ID: id, X: p.X, Y: p.Y}
}

// Up builds a pointer-up command.
func Up(id int, p viewport.Point) Command {
	return Command{Type: CmdUp, ID: id, X: p.X, Y: p.Y}
}

// Wheel builds a wheel command anchored at a normalized origin.
func Wheel(origin viewport.Point, dx, dy int) Command {
	return Command{Type: CmdWheel, X: origin.X, Y: origin.Y, DX: dx, DY: dy}
}

// RelMove builds a relative cursor move in media pixels.
func RelMove(dx, dy int) Command {
	return Command{Type: CmdRelMove, DX: dx, DY: dy}
}

// Click builds a click at the current cursor position.
func Click() Command {
	return Command{Type: CmdClick}
}

// CalibRect builds a calibration update; rect must already be payload-encoded.
func CalibRect(step calib.Step, rect calib.Rect) Command {
	return Command{Type: CmdCalibRect, Step: step, Rect: rect}
}

// SetMode builds a phase switch.
func SetMode(mode string) Command {
	return Command{Type: CmdSetMode, Mode: mode}
}

// InputEnabled builds an input toggle.
func InputEnabled(enabled bool) Command {
	return Command{Type: CmdInputEnabled, Enabled: enabled}
}

// TypeText builds a text entry command.
func TypeText(text string) Command {
	return Command{Type: CmdType, Text: text}
}

// Enter builds an Enter key press.
func Enter() Command {
	return Command{Type: CmdEnter}
}

// SetVideo builds a stream transport switch.
func SetVideo(mode string) Command {
	return Command{Type: CmdSetVideo, Video: mode}
}

// SetMonitor builds a monitor switch.
func SetMonitor(idx int) Command {
	return Command{Type: CmdSetMonitor, Monitor: idx}
}

// RestartPresetup builds a presetup restart.
func RestartPresetup() Command {
	return Command{Type: CmdRestartPresetup}
}

// ClearChat builds a chat clear.
func ClearChat() Command {
	return Command{Type: CmdClearChat}
}
