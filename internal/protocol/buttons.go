package protocol

// Canonical virtual controller button names.
const (
	ButtonA         = "A"
	ButtonB         = "B"
	ButtonX         = "X"
	ButtonY         = "Y"
	ButtonLB        = "LB"
	ButtonRB        = "RB"
	ButtonStart     = "START"
	ButtonBack      = "BACK"
	ButtonDpadUp    = "DPAD_UP"
	ButtonDpadDown  = "DPAD_DOWN"
	ButtonDpadLeft  = "DPAD_LEFT"
	ButtonDpadRight = "DPAD_RIGHT"
	ButtonLS        = "LS"
	ButtonRS        = "RS"
)

// shortNames maps the short command stem ("X360A" without suffix) to the
// canonical button name. The press, hold and release tables below are all
// derived from it so the three stay in sync.
var shortNames = map[string]string{
	"X360A":     ButtonA,
	"X360B":     ButtonB,
	"X360X":     ButtonX,
	"X360Y":     ButtonY,
	"X360LB":    ButtonLB,
	"X360RB":    ButtonRB,
	"X360START": ButtonStart,
	"X360BACK":  ButtonBack,
	"X360UP":    ButtonDpadUp,
	"X360DOWN":  ButtonDpadDown,
	"X360LEFT":  ButtonDpadLeft,
	"X360RIGHT": ButtonDpadRight,
	"X360LS":    ButtonLS,
	"X360RS":    ButtonRS,
}

// longPress is the older verbose press syntax still sent by some clients.
var longPress = map[string]string{
	"BUTTON_A_PRESSED":      ButtonA,
	"BUTTON_B_PRESSED":      ButtonB,
	"BUTTON_X_PRESSED":      ButtonX,
	"BUTTON_Y_PRESSED":      ButtonY,
	"BUTTON_LB_PRESSED":     ButtonLB,
	"BUTTON_RB_PRESSED":     ButtonRB,
	"BUTTON_START_PRESSED":  ButtonStart,
	"BUTTON_BACK_PRESSED":   ButtonBack,
	"BUTTON_DPAD_UP":        ButtonDpadUp,
	"BUTTON_DPAD_DOWN":      ButtonDpadDown,
	"BUTTON_DPAD_LEFT":      ButtonDpadLeft,
	"BUTTON_DPAD_RIGHT":     ButtonDpadRight,
	"BUTTON_LSTICK_PRESSED": ButtonLS,
	"BUTTON_RSTICK_PRESSED": ButtonRS,
}

// longRelease covers the verbose release syntax. Only A and B ever shipped
// in clients; the short _RELEASE form covers the full set.
var longRelease = map[string]string{
	"BUTTON_A_RELEASED": ButtonA,
	"BUTTON_B_RELEASED": ButtonB,
}

var (
	pressButtons   map[string]string // plain press, auto-release applies
	holdButtons    map[string]string // press without auto-release
	releaseButtons map[string]string // explicit release
)

func init() {
	pressButtons = make(map[string]string, len(shortNames)+len(longPress))
	holdButtons = make(map[string]string, len(shortNames))
	releaseButtons = make(map[string]string, len(shortNames)+len(longRelease))

	for stem, name := range shortNames {
		pressButtons[stem] = name
		holdButtons[stem+"_HOLD"] = name
		releaseButtons[stem+"_RELEASE"] = name
	}
	for tok, name := range longPress {
		pressButtons[tok] = name
	}
	for tok, name := range longRelease {
		releaseButtons[tok] = name
	}
}

// LookupPress resolves a button press token. hold is true for the *_HOLD
// variants that must not be auto-released.
func LookupPress(token string) (name string, hold bool, ok bool) {
	if name, ok = holdButtons[token]; ok {
		return name, true, true
	}
	name, ok = pressButtons[token]
	return name, false, ok
}

// LookupRelease resolves an explicit button release token.
func LookupRelease(token string) (name string, ok bool) {
	name, ok = releaseButtons[token]
	return name, ok
}

// ButtonNames returns the canonical button name set, for validation and for
// sizing virtual controller capabilities.
func ButtonNames() []string {
	names := make([]string, 0, len(shortNames))
	for _, n := range shortNames {
		names = append(names, n)
	}
	return names
}
