//go:build linux

package actuator

import "strings"

// keyCodesByName maps client key names to Linux KEY_* codes. Names arrive
// lowercased from the wire; a few common aliases are included.
var keyCodesByName = map[string]uint16{
	"esc": 1, "escape": 1,
	"1": 2, "2": 3, "3": 4, "4": 5, "5": 6,
	"6": 7, "7": 8, "8": 9, "9": 10, "0": 11,
	"minus": 12, "-": 12,
	"equal": 13, "=": 13,
	"backspace": 14,
	"tab":       15,
	"q":         16, "w": 17, "e": 18, "r": 19, "t": 20,
	"y": 21, "u": 22, "i": 23, "o": 24, "p": 25,
	"enter": 28, "return": 28,
	"ctrl": 29, "lctrl": 29, "leftctrl": 29,
	"a": 30, "s": 31, "d": 32, "f": 33, "g": 34,
	"h": 35, "j": 36, "k": 37, "l": 38,
	"semicolon": 39, ";": 39,
	"shift": 42, "lshift": 42, "leftshift": 42,
	"z": 44, "x": 45, "c": 46, "v": 47, "b": 48,
	"n": 49, "m": 50,
	"comma": 51, ",": 51,
	"dot": 52, "period": 52, ".": 52,
	"slash": 53, "/": 53,
	"rshift": 54, "rightshift": 54,
	"alt": 56, "lalt": 56, "leftalt": 56,
	"space": 57, " ": 57,
	"capslock": 58,
	"f1":       59, "f2": 60, "f3": 61, "f4": 62, "f5": 63,
	"f6": 64, "f7": 65, "f8": 66, "f9": 67, "f10": 68,
	"f11": 87, "f12": 88,
	"home": 102,
	"up":   103,
	"pageup": 104,
	"left": 105, "right": 106,
	"end":  107,
	"down": 108,
	"pagedown": 109,
	"insert":   110,
	"delete":   111, "del": 111,
}

// lookupKey resolves a wire key name to a key code, case-insensitively.
func lookupKey(name string) (uint16, bool) {
	code, ok := keyCodesByName[strings.ToLower(name)]
	return code, ok
}
