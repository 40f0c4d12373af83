//go:build !linux

package actuator

import "fmt"

// Stub implementation for platforms without a uinput backend.

// Uinput is the stub injector for non-Linux platforms.
type Uinput struct{}

// New reports that input injection is unavailable on this platform.
func New(players []string) (*Uinput, error) {
	return nil, fmt.Errorf("input injection not supported on this platform")
}

// Close is a no-op on the stub.
func (u *Uinput) Close() {}

func (u *Uinput) PressKey(string) error   { return errUnsupported() }
func (u *Uinput) ReleaseKey(string) error { return errUnsupported() }
func (u *Uinput) TapKey(string) error     { return errUnsupported() }

func (u *Uinput) MovePointer(int, int) error { return errUnsupported() }
func (u *Uinput) SetMouseButton(bool) error  { return errUnsupported() }

func (u *Uinput) SetStick(string, string, float64, float64) error { return errUnsupported() }
func (u *Uinput) SetTrigger(string, string, float64) error        { return errUnsupported() }
func (u *Uinput) PressButton(string, string) error                { return errUnsupported() }
func (u *Uinput) ReleaseButton(string, string) error              { return errUnsupported() }

func errUnsupported() error {
	return fmt.Errorf("input injection not supported on this platform")
}
