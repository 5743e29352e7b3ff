package control

import (
	"github.com/frudas24/deskpad/internal/calib"
)

// Rect is a rectangle as carried on the wire.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Message is a control websocket payload.
type Message struct {
	T       string   `json:"t"`
	ID      *int     `json:"id,omitempty"`
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
	DX      int      `json:"dx,omitempty"`
	DY      int      `json:"dy,omitempty"`
	WheelX  int      `json:"wheelX,omitempty"`
	WheelY  int      `json:"wheelY,omitempty"`
	Text    string   `json:"text,omitempty"`
	Mode    string   `json:"mode,omitempty"`
	Step    string   `json:"step,omitempty"`
	Rect    *Rect    `json:"rect,omitempty"`
	Enabled *bool    `json:"enabled,omitempty"`
	Video   string   `json:"video,omitempty"`
	Idx     int      `json:"idx,omitempty"`
}

// ToMessage encodes a command into its wire message.
// Pointer ids and coordinates are always present, even when zero.
func ToMessage(cmd Command) Message {
	msg := Message{T: string(cmd.Type)}
	switch cmd.Type {
	case CmdDown, CmdMove, CmdUp:
		id, x, y := cmd.ID, cmd.X, cmd.Y
		msg.ID, msg.X, msg.Y = &id, &x, &y
	case CmdWheel:
		x, y := cmd.X, cmd.Y
		msg.X, msg.Y = &x, &y
		msg.WheelX, msg.WheelY = cmd.DX, cmd.DY
	case CmdRelMove:
		msg.DX, msg.DY = cmd.DX, cmd.DY
	case CmdCalibRect:
		msg.Step = cmd.Step.String()
		msg.Rect = &Rect{X: cmd.Rect.X, Y: cmd.Rect.Y, W: cmd.Rect.W, H: cmd.Rect.H}
	case CmdSetMode:
		msg.Mode = cmd.Mode
	case CmdInputEnabled:
		enabled := cmd.Enabled
		msg.Enabled = &enabled
	case CmdType:
		msg.Text = cmd.Text
	case CmdSetVideo:
		msg.Video = cmd.Video
	case CmdSetMonitor:
		msg.Idx = cmd.Monitor
	}
	return msg
}

// ToCommand decodes a wire message. Unknown steps in calibRect are rejected.
func ToCommand(msg Message) (Command, error) {
	cmd := Command{
		Type:    CommandType(msg.T),
		DX:      msg.DX,
		DY:      msg.DY,
		Mode:    msg.Mode,
		Text:    msg.Text,
		Video:   msg.Video,
		Monitor: msg.Idx,
	}
	if msg.ID != nil {
		cmd.ID = *msg.ID
	}
	if msg.X != nil {
		cmd.X = *msg.X
	}
	if msg.Y != nil {
		cmd.Y = *msg.Y
	}
	if msg.Enabled != nil {
		cmd.Enabled = *msg.Enabled
	}
	switch cmd.Type {
	case CmdWheel:
		cmd.DX, cmd.DY = msg.WheelX, msg.WheelY
	case CmdCalibRect:
		step, err := calib.ParseStep(msg.Step)
		if err != nil {
			return Command{}, err
		}
		cmd.Step = step
		if msg.Rect != nil {
			cmd.Rect = calib.Rect{X: msg.Rect.X, Y: msg.Rect.Y, W: msg.Rect.W, H: msg.Rect.H}
		}
	}
	return cmd, nil
}
