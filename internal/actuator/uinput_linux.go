//go:build linux

package actuator

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux uinput plumbing:
// - constants for the event codes we emit
// - ioctl helpers to declare device capabilities and create the devices
// - one virtual pointer, one virtual keyboard, one virtual pad per player

// Event types
const (
	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02
	evAbs = 0x03
)

const synReport = 0x00

// Relative axes
const (
	relX = 0x00
	relY = 0x01
)

// Absolute axes
const (
	absX     = 0x00
	absY     = 0x01
	absZ     = 0x02
	absRX    = 0x03
	absRY    = 0x04
	absRZ    = 0x05
	absHat0X = 0x10
	absHat0Y = 0x11
)

// Buttons
const (
	btnLeft = 0x110

	btnSouth  = 0x130 // A
	btnEast   = 0x131 // B
	btnX      = 0x133
	btnY      = 0x134
	btnTL     = 0x136
	btnTR     = 0x137
	btnSelect = 0x13a
	btnStart  = 0x13b
	btnThumbL = 0x13d
	btnThumbR = 0x13e
)

const (
	stickRange   = 32767
	triggerRange = 255
)

// ioctl request encoding (Linux _IOC macro)
const (
	iocNRShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30

	iocNone  = 0
	iocWrite = 1
)

func ioc(dir, nr, size uint32) uintptr {
	return uintptr((dir << iocDirShift) | (uint32('U') << iocTypeShift) | (nr << iocNRShift) | (size << iocSizeShift))
}

var (
	uiSetEvBit  = ioc(iocWrite, 100, 4)
	uiSetKeyBit = ioc(iocWrite, 101, 4)
	uiSetRelBit = ioc(iocWrite, 102, 4)
	uiSetAbsBit = ioc(iocWrite, 103, 4)
	uiDevCreate = ioc(iocNone, 1, 0)
	uiDevDestroy = ioc(iocNone, 2, 0)
)

// uinputUserDev mirrors struct uinput_user_dev from linux/uinput.h.
type uinputUserDev struct {
	Name         [80]byte
	Bustype      uint16
	Vendor       uint16
	Product      uint16
	Version      uint16
	FFEffectsMax uint32
	AbsMax       [64]int32
	AbsMin       [64]int32
	AbsFuzz      [64]int32
	AbsFlat      [64]int32
}

// inputEvent mirrors struct input_event on 64-bit kernels (16-byte timeval).
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// device is one created uinput node. Writes are serialized so events from
// background tasks cannot interleave inside a report.
type device struct {
	mu sync.Mutex
	fd int
}

func (d *device) emit(typ, code uint16, value int32) error {
	now := time.Now()
	evs := [2]inputEvent{
		{Sec: now.Unix(), Usec: int64(now.Nanosecond() / 1000), Type: typ, Code: code, Value: value},
		{Sec: now.Unix(), Usec: int64(now.Nanosecond() / 1000), Type: evSyn, Code: synReport},
	}
	buf := (*[2 * int(unsafe.Sizeof(inputEvent{}))]byte)(unsafe.Pointer(&evs[0]))[:]

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := unix.Write(d.fd, buf); err != nil {
		return fmt.Errorf("uinput: write event: %w", err)
	}
	return nil
}

// emitPair sends two events inside one report (pointer dx+dy).
func (d *device) emitPair(typ, codeA uint16, valA int32, codeB uint16, valB int32) error {
	now := time.Now()
	evs := [3]inputEvent{
		{Sec: now.Unix(), Usec: int64(now.Nanosecond() / 1000), Type: typ, Code: codeA, Value: valA},
		{Sec: now.Unix(), Usec: int64(now.Nanosecond() / 1000), Type: typ, Code: codeB, Value: valB},
		{Sec: now.Unix(), Usec: int64(now.Nanosecond() / 1000), Type: evSyn, Code: synReport},
	}
	buf := (*[3 * int(unsafe.Sizeof(inputEvent{}))]byte)(unsafe.Pointer(&evs[0]))[:]

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := unix.Write(d.fd, buf); err != nil {
		return fmt.Errorf("uinput: write event: %w", err)
	}
	return nil
}

func (d *device) close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd >= 0 {
		unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), uiDevDestroy, 0)
		unix.Close(d.fd)
		d.fd = -1
	}
}

func devIoctl(fd int, req uintptr, value int) error {
	v := int32(value)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(unsafe.Pointer(&v)))
	if errno != 0 {
		return errno
	}
	return nil
}

func devIoctlBare(fd int, req uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

type absSetup struct {
	code     int
	min, max int32
}

func createDevice(name string, keys []int, rels []int, abses []absSetup) (*device, error) {
	fd, err := unix.Open("/dev/uinput", unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("uinput: open /dev/uinput: %w", err)
	}

	fail := func(err error) (*device, error) {
		unix.Close(fd)
		return nil, err
	}

	if len(keys) > 0 {
		if err := devIoctl(fd, uiSetEvBit, evKey); err != nil {
			return fail(fmt.Errorf("uinput: enable EV_KEY: %w", err))
		}
		for _, k := range keys {
			if err := devIoctl(fd, uiSetKeyBit, k); err != nil {
				return fail(fmt.Errorf("uinput: enable key 0x%x: %w", k, err))
			}
		}
	}
	if len(rels) > 0 {
		if err := devIoctl(fd, uiSetEvBit, evRel); err != nil {
			return fail(fmt.Errorf("uinput: enable EV_REL: %w", err))
		}
		for _, r := range rels {
			if err := devIoctl(fd, uiSetRelBit, r); err != nil {
				return fail(fmt.Errorf("uinput: enable rel axis 0x%x: %w", r, err))
			}
		}
	}
	if len(abses) > 0 {
		if err := devIoctl(fd, uiSetEvBit, evAbs); err != nil {
			return fail(fmt.Errorf("uinput: enable EV_ABS: %w", err))
		}
		for _, a := range abses {
			if err := devIoctl(fd, uiSetAbsBit, a.code); err != nil {
				return fail(fmt.Errorf("uinput: enable abs axis 0x%x: %w", a.code, err))
			}
		}
	}

	var setup uinputUserDev
	copy(setup.Name[:], name)
	setup.Bustype = 0x03 // BUS_USB
	setup.Vendor = 0x045e
	setup.Product = 0x028e
	setup.Version = 1
	for _, a := range abses {
		setup.AbsMin[a.code] = a.min
		setup.AbsMax[a.code] = a.max
	}

	buf := (*[unsafe.Sizeof(uinputUserDev{})]byte)(unsafe.Pointer(&setup))[:]
	if _, err := unix.Write(fd, buf); err != nil {
		return fail(fmt.Errorf("uinput: write device setup: %w", err))
	}
	if err := devIoctlBare(fd, uiDevCreate); err != nil {
		return fail(fmt.Errorf("uinput: create device: %w", err))
	}

	return &device{fd: fd}, nil
}

// padButtons maps canonical controller button names to key codes. The dpad
// is not here: it rides the hat axes.
var padButtons = map[string]uint16{
	"A":     btnSouth,
	"B":     btnEast,
	"X":     btnX,
	"Y":     btnY,
	"LB":    btnTL,
	"RB":    btnTR,
	"START": btnStart,
	"BACK":  btnSelect,
	"LS":    btnThumbL,
	"RS":    btnThumbR,
}

// hatDirections maps dpad button names to a hat axis and direction.
var hatDirections = map[string]struct {
	axis  uint16
	value int32
}{
	"DPAD_UP":    {absHat0Y, -1},
	"DPAD_DOWN":  {absHat0Y, 1},
	"DPAD_LEFT":  {absHat0X, -1},
	"DPAD_RIGHT": {absHat0X, 1},
}

// Uinput drives virtual input devices through /dev/uinput.
type Uinput struct {
	pointer  *device
	keyboard *device
	pads     map[string]*device
}

// New creates the virtual pointer, keyboard and one controller per player.
// Requires write access to /dev/uinput.
func New(players []string) (*Uinput, error) {
	u := &Uinput{pads: make(map[string]*device)}

	pointer, err := createDevice("padbridge virtual pointer",
		[]int{btnLeft}, []int{relX, relY}, nil)
	if err != nil {
		return nil, err
	}
	u.pointer = pointer

	keyCodes := make([]int, 0, len(keyCodesByName))
	seen := make(map[int]bool)
	for _, code := range keyCodesByName {
		c := int(code)
		if !seen[c] {
			seen[c] = true
			keyCodes = append(keyCodes, c)
		}
	}
	keyboard, err := createDevice("padbridge virtual keyboard", keyCodes, nil, nil)
	if err != nil {
		u.Close()
		return nil, err
	}
	u.keyboard = keyboard

	padKeys := make([]int, 0, len(padButtons))
	for _, code := range padButtons {
		padKeys = append(padKeys, int(code))
	}
	padAbs := []absSetup{
		{absX, -stickRange, stickRange},
		{absY, -stickRange, stickRange},
		{absRX, -stickRange, stickRange},
		{absRY, -stickRange, stickRange},
		{absZ, 0, triggerRange},
		{absRZ, 0, triggerRange},
		{absHat0X, -1, 1},
		{absHat0Y, -1, 1},
	}
	for _, player := range players {
		pad, err := createDevice(fmt.Sprintf("padbridge virtual pad (%s)", player), padKeys, nil, padAbs)
		if err != nil {
			u.Close()
			return nil, err
		}
		u.pads[player] = pad
	}

	return u, nil
}

// Close destroys all created devices.
func (u *Uinput) Close() {
	if u.pointer != nil {
		u.pointer.close()
	}
	if u.keyboard != nil {
		u.keyboard.close()
	}
	for _, pad := range u.pads {
		pad.close()
	}
}

func (u *Uinput) pad(player string) (*device, error) {
	pad, ok := u.pads[player]
	if !ok {
		return nil, fmt.Errorf("uinput: no controller for %q", player)
	}
	return pad, nil
}

func (u *Uinput) PressKey(key string) error {
	code, ok := lookupKey(key)
	if !ok {
		return fmt.Errorf("uinput: unknown key %q", key)
	}
	return u.keyboard.emit(evKey, code, 1)
}

func (u *Uinput) ReleaseKey(key string) error {
	code, ok := lookupKey(key)
	if !ok {
		return fmt.Errorf("uinput: unknown key %q", key)
	}
	return u.keyboard.emit(evKey, code, 0)
}

func (u *Uinput) TapKey(key string) error {
	if err := u.PressKey(key); err != nil {
		return err
	}
	return u.ReleaseKey(key)
}

func (u *Uinput) MovePointer(dx, dy int) error {
	return u.pointer.emitPair(evRel, relX, int32(dx), relY, int32(dy))
}

func (u *Uinput) SetMouseButton(down bool) error {
	var v int32
	if down {
		v = 1
	}
	return u.pointer.emit(evKey, btnLeft, v)
}

func (u *Uinput) SetStick(player, side string, x, y float64) error {
	pad, err := u.pad(player)
	if err != nil {
		return err
	}
	axisX, axisY := uint16(absX), uint16(absY)
	if side == "RIGHT" {
		axisX, axisY = absRX, absRY
	}
	// Screen-style y: pushing up is positive on the wire, negative on the
	// device axis.
	return pad.emitPair(evAbs,
		axisX, int32(x*stickRange),
		axisY, int32(-y*stickRange))
}

func (u *Uinput) SetTrigger(player, side string, value float64) error {
	pad, err := u.pad(player)
	if err != nil {
		return err
	}
	axis := uint16(absZ)
	if side == "RIGHT" {
		axis = absRZ
	}
	return pad.emit(evAbs, axis, int32(value*triggerRange))
}

func (u *Uinput) PressButton(player, button string) error {
	return u.setButton(player, button, true)
}

func (u *Uinput) ReleaseButton(player, button string) error {
	return u.setButton(player, button, false)
}

func (u *Uinput) setButton(player, button string, down bool) error {
	pad, err := u.pad(player)
	if err != nil {
		return err
	}
	if hat, ok := hatDirections[button]; ok {
		v := hat.value
		if !down {
			v = 0
		}
		return pad.emit(evAbs, hat.axis, v)
	}
	code, ok := padButtons[button]
	if !ok {
		return fmt.Errorf("uinput: unknown controller button %q", button)
	}
	var v int32
	if down {
		v = 1
	}
	return pad.emit(evKey, code, v)
}
