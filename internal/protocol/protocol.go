// Package protocol defines the text command grammar spoken by remote control
// clients and parses one datagram line into a typed Command.
package protocol

import "fmt"

// Kind identifies what a parsed Command means.
type Kind int

const (
	// KindNone is an empty line; nothing to do.
	KindNone Kind = iota

	// KindPing is a heartbeat; always answered with PONG.
	KindPing

	// KindConnect claims a player identity (CONNECT:<id>).
	KindConnect

	// KindRegister claims a player identity (REGISTER:<id>).
	KindRegister

	// KindKeyDown and KindKeyUp drive the shared keyboard.
	KindKeyDown
	KindKeyUp

	// KindKeySync is an idempotent keep-alive for a held key; treated as a press.
	KindKeySync

	// KindTrigger sets an analog trigger value (TRIGGER_L:<v>, LT:<v>, ...).
	KindTrigger

	// KindStick sets an analog stick position, either from explicit
	// coordinates or from a directional shortcut token.
	KindStick

	// KindButtonPress and KindButtonRelease drive virtual controller buttons.
	KindButtonPress
	KindButtonRelease

	// KindWait suspends a command sequence for a number of milliseconds.
	KindWait

	// KindTouchpad is an absolute normalized touch sample (TOUCHPAD:<x>,<y>).
	KindTouchpad

	// KindDelta is an already-relative pointer delta (DELTA:<dx>,<dy>).
	KindDelta

	// KindTouchLifecycle marks a touch down/up/end boundary.
	KindTouchLifecycle

	// KindMouseButton presses or releases the left mouse button.
	KindMouseButton

	// KindMouseReset is accepted but deliberately ignored (it used to cause
	// pointer jumps).
	KindMouseReset

	// KindSequence is a comma-delimited list of sub-commands.
	KindSequence

	// KindUnrecognized is anything else; the dispatcher may try it as a
	// literal keyboard key.
	KindUnrecognized
)

// TouchPhase is a touch lifecycle boundary.
type TouchPhase int

const (
	TouchDown TouchPhase = iota
	TouchUp
	TouchEnd
)

// Stick / trigger sides, matching the wire tokens.
const (
	SideLeft  = "LEFT"
	SideRight = "RIGHT"
)

// Player identities. player1 is the sole authority for the shared
// pointer and keyboard; every identity owns its own virtual controller.
const (
	Player1 = "player1"
	Player2 = "player2"
)

// ValidPlayer reports whether id is a known player identity.
func ValidPlayer(id string) bool {
	return id == Player1 || id == Player2
}

// Command is one parsed line. Exactly one Kind applies; only the fields
// relevant to that Kind are populated.
type Command struct {
	Kind Kind

	// Player is a session-identity override from a leading "player1:" /
	// "player2:" prefix, or empty.
	Player string

	// Text is the raw token for KindUnrecognized.
	Text string

	Key    string  // key name for key commands
	ID     string  // requested identity for connect/register (unvalidated)
	Side   string  // SideLeft or SideRight
	Value  float64 // trigger value
	X, Y   float64 // stick or touch coordinates, normalized
	DX, DY float64 // relative delta for KindDelta
	Button string  // canonical controller button name
	Hold   bool    // press without auto-release
	WaitMS int     // milliseconds for KindWait
	Phase  TouchPhase
	Down   bool     // mouse button state
	Steps  []string // sub-commands for KindSequence
}

// Reply vocabulary sent back over the transport.
const (
	ReplyPong                  = "PONG"
	ReplyErrInvalidPlayer      = "ERROR:invalid_player_id"
	ReplyErrConnectionFailed   = "ERROR:connection_failed"
	ReplyErrRegistrationFailed = "ERROR:registration_failed"
)

// ReplyConnected builds the reply for a successful CONNECT.
func ReplyConnected(id string) string {
	return fmt.Sprintf("CONNECTED:%s", id)
}

// ReplyRegistered builds the reply for a successful REGISTER.
func ReplyRegistered(id string) string {
	return fmt.Sprintf("REGISTERED:%s", id)
}

// Event is a dispatched-command notification published to monitor clients
// over the status API's WebSocket feed.
type Event struct {
	Timestamp int64  `json:"ts"`
	Session   string `json:"session"`
	Player    string `json:"player"`
	Kind      string `json:"kind"`
	Detail    string `json:"detail,omitempty"`
}
