package protocol

import (
	"testing"
)

// TestNormalizeClamps tests that numeric strings clamp to [-1, 1] and bad
// input degrades to zero.
func TestNormalizeClamps(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"0.5", 0.5},
		{"-0.25", -0.25},
		{"3.7", 1.0},
		{"-12", -1.0},
		{"1.0", 1.0},
		{"abc", 0.0},
		{"", 0.0},
		{" 0.5 ", 0.5},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q): expected %v, got %v", c.in, c.want, got)
		}
	}
}

func TestParsePing(t *testing.T) {
	cmd := Parse("PING")
	if cmd.Kind != KindPing {
		t.Errorf("Expected KindPing, got %v", cmd.Kind)
	}
	// Keywords are case-sensitive.
	if cmd := Parse("ping"); cmd.Kind != KindUnrecognized {
		t.Errorf("Expected lowercase ping to be unrecognized, got %v", cmd.Kind)
	}
}

func TestParsePlayerPrefix(t *testing.T) {
	cmd := Parse("player2:X360A")
	if cmd.Player != Player2 {
		t.Errorf("Expected player override player2, got %q", cmd.Player)
	}
	if cmd.Kind != KindButtonPress || cmd.Button != ButtonA {
		t.Errorf("Expected button A press after prefix strip, got kind=%v button=%q", cmd.Kind, cmd.Button)
	}
}

func TestParseConnectRegister(t *testing.T) {
	cmd := Parse("CONNECT:player2")
	if cmd.Kind != KindConnect || cmd.ID != Player2 {
		t.Errorf("Expected connect as player2, got kind=%v id=%q", cmd.Kind, cmd.ID)
	}
	// The parser does not validate the identity; the dispatcher does.
	cmd = Parse("REGISTER:player3")
	if cmd.Kind != KindRegister || cmd.ID != "player3" {
		t.Errorf("Expected register with raw id player3, got kind=%v id=%q", cmd.Kind, cmd.ID)
	}
}

func TestParseKeys(t *testing.T) {
	if cmd := Parse("KEY_DOWN:w"); cmd.Kind != KindKeyDown || cmd.Key != "w" {
		t.Errorf("Expected key down w, got kind=%v key=%q", cmd.Kind, cmd.Key)
	}
	if cmd := Parse("KEY_UP:space"); cmd.Kind != KindKeyUp || cmd.Key != "space" {
		t.Errorf("Expected key up space, got kind=%v key=%q", cmd.Kind, cmd.Key)
	}
	if cmd := Parse("KEY_SYNC:w"); cmd.Kind != KindKeySync || cmd.Key != "w" {
		t.Errorf("Expected key sync w, got kind=%v key=%q", cmd.Kind, cmd.Key)
	}
}

func TestParseTriggers(t *testing.T) {
	cmd := Parse("TRIGGER_L:0.5")
	if cmd.Kind != KindTrigger || cmd.Side != SideLeft || cmd.Value != 0.5 {
		t.Errorf("Expected left trigger 0.5, got %+v", cmd)
	}
	cmd = Parse("RT:1.0")
	if cmd.Kind != KindTrigger || cmd.Side != SideRight || cmd.Value != 1.0 {
		t.Errorf("Expected right trigger 1.0, got %+v", cmd)
	}
	// Bad numeric operand degrades to 0.0, never fails.
	cmd = Parse("LT:garbage")
	if cmd.Kind != KindTrigger || cmd.Value != 0.0 {
		t.Errorf("Expected trigger value 0 for bad operand, got %+v", cmd)
	}
}

func TestParseWait(t *testing.T) {
	if cmd := Parse("WAIT_200"); cmd.Kind != KindWait || cmd.WaitMS != 200 {
		t.Errorf("Expected 200ms wait, got %+v", cmd)
	}
	if cmd := Parse("WAIT_abc"); cmd.Kind != KindWait || cmd.WaitMS != 0 {
		t.Errorf("Expected 0ms wait for bad suffix, got %+v", cmd)
	}
}

func TestParseStickShortcuts(t *testing.T) {
	cases := []struct {
		in   string
		side string
		x, y float64
	}{
		{"LS_UP", SideLeft, 0, 1},
		{"LS_DOWN", SideLeft, 0, -1},
		{"LS_LEFT", SideLeft, -1, 0},
		{"LS_RIGHT", SideLeft, 1, 0},
		{"RS_UP", SideRight, 0, 1},
		{"RS_RIGHT", SideRight, 1, 0},
	}
	for _, c := range cases {
		cmd := Parse(c.in)
		if cmd.Kind != KindStick || cmd.Side != c.side || cmd.X != c.x || cmd.Y != c.y {
			t.Errorf("Parse(%q): expected stick %s (%v,%v), got %+v", c.in, c.side, c.x, c.y, cmd)
		}
	}
}

func TestParseStickCoordinates(t *testing.T) {
	for _, name := range []string{"STICK", "STICK_L", "LS"} {
		cmd := Parse(name + ":0.3,-0.4")
		if cmd.Kind != KindStick || cmd.Side != SideLeft || cmd.X != 0.3 || cmd.Y != -0.4 {
			t.Errorf("Parse(%s:0.3,-0.4): got %+v", name, cmd)
		}
	}
	cmd := Parse("RS:2.0,-9")
	if cmd.Side != SideRight || cmd.X != 1.0 || cmd.Y != -1.0 {
		t.Errorf("Expected right stick clamped to (1,-1), got %+v", cmd)
	}
}

func TestParseTouchpadAndDelta(t *testing.T) {
	cmd := Parse("TOUCHPAD:0.1,0.2")
	if cmd.Kind != KindTouchpad || cmd.X != 0.1 || cmd.Y != 0.2 {
		t.Errorf("Expected touchpad sample (0.1,0.2), got %+v", cmd)
	}
	if cmd := Parse("POS:0.1,0.2"); cmd.Kind != KindTouchpad {
		t.Errorf("Expected POS alias to parse as touchpad, got %+v", cmd)
	}
	cmd = Parse("DELTA:5.5,-3")
	if cmd.Kind != KindDelta || cmd.DX != 5.5 || cmd.DY != -3 {
		t.Errorf("Expected delta (5.5,-3), got %+v", cmd)
	}
	// Deltas are not position coordinates: the parser leaves them unclamped.
	cmd = Parse("DELTA:40,0")
	if cmd.DX != 40 {
		t.Errorf("Expected unclamped delta 40, got %v", cmd.DX)
	}
}

func TestParseLifecycleTokens(t *testing.T) {
	cases := []struct {
		in    string
		phase TouchPhase
	}{
		{"TOUCHPAD_DOWN", TouchDown},
		{"TOUCHPAD_UP", TouchUp},
		{"TOUCHPAD_END", TouchEnd},
		{"TOUCH_END", TouchEnd},
	}
	for _, c := range cases {
		cmd := Parse(c.in)
		if cmd.Kind != KindTouchLifecycle || cmd.Phase != c.phase {
			t.Errorf("Parse(%q): expected lifecycle phase %v, got %+v", c.in, c.phase, cmd)
		}
	}

	if cmd := Parse("MOUSE_LEFT_DOWN"); cmd.Kind != KindMouseButton || !cmd.Down {
		t.Errorf("Expected mouse button down, got %+v", cmd)
	}
	if cmd := Parse("MOUSE_LEFT_UP"); cmd.Kind != KindMouseButton || cmd.Down {
		t.Errorf("Expected mouse button up, got %+v", cmd)
	}
	if cmd := Parse("MOUSE_RESET"); cmd.Kind != KindMouseReset {
		t.Errorf("Expected mouse reset, got %+v", cmd)
	}
}

func TestParseButtons(t *testing.T) {
	if cmd := Parse("X360A"); cmd.Kind != KindButtonPress || cmd.Button != ButtonA || cmd.Hold {
		t.Errorf("Expected plain press of A, got %+v", cmd)
	}
	if cmd := Parse("X360A_HOLD"); cmd.Kind != KindButtonPress || cmd.Button != ButtonA || !cmd.Hold {
		t.Errorf("Expected hold press of A, got %+v", cmd)
	}
	if cmd := Parse("X360A_RELEASE"); cmd.Kind != KindButtonRelease || cmd.Button != ButtonA {
		t.Errorf("Expected release of A, got %+v", cmd)
	}
	if cmd := Parse("BUTTON_DPAD_UP"); cmd.Kind != KindButtonPress || cmd.Button != ButtonDpadUp {
		t.Errorf("Expected dpad up press, got %+v", cmd)
	}
	if cmd := Parse("BUTTON_B_RELEASED"); cmd.Kind != KindButtonRelease || cmd.Button != ButtonB {
		t.Errorf("Expected verbose release of B, got %+v", cmd)
	}
}

func TestParseSequence(t *testing.T) {
	cmd := Parse("WAIT_200,X360A, X360B ")
	if cmd.Kind != KindSequence {
		t.Fatalf("Expected sequence, got %+v", cmd)
	}
	want := []string{"WAIT_200", "X360A", "X360B"}
	if len(cmd.Steps) != len(want) {
		t.Fatalf("Expected %d steps, got %d", len(want), len(cmd.Steps))
	}
	for i, s := range want {
		if cmd.Steps[i] != s {
			t.Errorf("Step %d: expected %q, got %q", i, s, cmd.Steps[i])
		}
	}
}

func TestParseFallback(t *testing.T) {
	cmd := Parse("f5")
	if cmd.Kind != KindUnrecognized || cmd.Text != "f5" {
		t.Errorf("Expected unrecognized token f5, got %+v", cmd)
	}
	if cmd := Parse("   "); cmd.Kind != KindNone {
		t.Errorf("Expected blank line to parse as none, got %+v", cmd)
	}
}
