package protocol

import (
	"strconv"
	"strings"
)

// Normalize converts a numeric string to a float clamped to [-1.0, 1.0].
// Unparsable input degrades to 0.0 rather than failing the command.
func Normalize(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	if v < -1.0 {
		return -1.0
	}
	return v
}

// stickShortcuts maps directional shortcut tokens to canonical coordinates.
var stickShortcuts = map[string]struct {
	x, y float64
	side string
}{
	"LS_UP":    {0, 1, SideLeft},
	"LS_DOWN":  {0, -1, SideLeft},
	"LS_LEFT":  {-1, 0, SideLeft},
	"LS_RIGHT": {1, 0, SideLeft},
	"RS_UP":    {0, 1, SideRight},
	"RS_DOWN":  {0, -1, SideRight},
	"RS_LEFT":  {-1, 0, SideRight},
	"RS_RIGHT": {1, 0, SideRight},
}

// Parse tokenizes one datagram line into a Command. It never fails:
// malformed numeric operands degrade to 0.0 and anything without a
// structural match falls through to KindUnrecognized.
//
// Keywords are case-sensitive and checked in precedence order; the first
// match wins.
func Parse(line string) Command {
	data := strings.TrimSpace(line)
	if data == "" {
		return Command{Kind: KindNone}
	}

	// Optional leading player identity prefix, e.g. "player2:X360A".
	if rest, ok := strings.CutPrefix(data, Player1+":"); ok {
		cmd := Parse(rest)
		cmd.Player = Player1
		return cmd
	}
	if rest, ok := strings.CutPrefix(data, Player2+":"); ok {
		cmd := Parse(rest)
		cmd.Player = Player2
		return cmd
	}

	if data == "PING" {
		return Command{Kind: KindPing}
	}

	if id, ok := strings.CutPrefix(data, "CONNECT:"); ok {
		return Command{Kind: KindConnect, ID: strings.TrimSpace(id)}
	}
	if id, ok := strings.CutPrefix(data, "REGISTER:"); ok {
		return Command{Kind: KindRegister, ID: strings.TrimSpace(id)}
	}

	if key, ok := strings.CutPrefix(data, "KEY_DOWN:"); ok {
		return Command{Kind: KindKeyDown, Key: key}
	}
	if key, ok := strings.CutPrefix(data, "KEY_UP:"); ok {
		return Command{Kind: KindKeyUp, Key: key}
	}
	if key, ok := strings.CutPrefix(data, "KEY_SYNC:"); ok {
		return Command{Kind: KindKeySync, Key: key}
	}

	for _, t := range [...]struct {
		prefix, side string
	}{
		{"TRIGGER_L:", SideLeft},
		{"TRIGGER_R:", SideRight},
		{"LT:", SideLeft},
		{"RT:", SideRight},
	} {
		if v, ok := strings.CutPrefix(data, t.prefix); ok {
			return Command{Kind: KindTrigger, Side: t.side, Value: Normalize(v)}
		}
	}

	if suffix, ok := strings.CutPrefix(data, "WAIT_"); ok {
		if ms, err := strconv.Atoi(suffix); err == nil {
			if ms < 0 {
				ms = 0
			}
			return Command{Kind: KindWait, WaitMS: ms}
		}
		// A comma after the duration means a sequence led by a wait
		// step; any other malformed duration degrades to zero.
		if !strings.Contains(suffix, ",") {
			return Command{Kind: KindWait}
		}
	}

	if sc, ok := stickShortcuts[data]; ok {
		return Command{Kind: KindStick, Side: sc.side, X: sc.x, Y: sc.y}
	}

	// Generic <CMD>:<x>,<y> forms: sticks and absolute touch samples.
	if name, coords, ok := strings.Cut(data, ":"); ok {
		if xs, ys, ok2 := strings.Cut(coords, ","); ok2 {
			switch name {
			case "STICK", "STICK_L", "LS":
				return Command{Kind: KindStick, Side: SideLeft, X: Normalize(xs), Y: Normalize(ys)}
			case "STICK_R", "RS":
				return Command{Kind: KindStick, Side: SideRight, X: Normalize(xs), Y: Normalize(ys)}
			case "TOUCHPAD", "POS":
				return Command{Kind: KindTouchpad, X: Normalize(xs), Y: Normalize(ys)}
			case "DELTA":
				dx, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
				if err != nil {
					dx = 0
				}
				dy, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
				if err != nil {
					dy = 0
				}
				return Command{Kind: KindDelta, DX: dx, DY: dy}
			}
		}
	}

	switch data {
	case "TOUCHPAD_DOWN":
		return Command{Kind: KindTouchLifecycle, Phase: TouchDown}
	case "TOUCHPAD_UP":
		return Command{Kind: KindTouchLifecycle, Phase: TouchUp}
	case "TOUCHPAD_END", "TOUCH_END":
		return Command{Kind: KindTouchLifecycle, Phase: TouchEnd}
	case "MOUSE_LEFT_DOWN":
		return Command{Kind: KindMouseButton, Down: true}
	case "MOUSE_LEFT_UP":
		return Command{Kind: KindMouseButton, Down: false}
	case "MOUSE_RESET":
		return Command{Kind: KindMouseReset}
	}

	if name, ok := LookupRelease(data); ok {
		return Command{Kind: KindButtonRelease, Button: name}
	}
	if name, hold, ok := LookupPress(data); ok {
		return Command{Kind: KindButtonPress, Button: name, Hold: hold}
	}

	// A comma without any earlier structural match means a sequence of
	// sub-commands to run as one unit of work.
	if strings.Contains(data, ",") {
		var steps []string
		for _, s := range strings.Split(data, ",") {
			if s = strings.TrimSpace(s); s != "" {
				steps = append(steps, s)
			}
		}
		if len(steps) > 0 {
			return Command{Kind: KindSequence, Steps: steps}
		}
		return Command{Kind: KindNone}
	}

	return Command{Kind: KindUnrecognized, Text: data}
}
