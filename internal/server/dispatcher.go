package server

import (
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"padbridge/internal/actuator"
	"padbridge/internal/config"
	"padbridge/internal/motion"
	"padbridge/internal/protocol"
	"padbridge/internal/session"
)

// Dispatcher routes parsed commands to the session store, the smoothing
// engine, the button scheduler or directly to the actuator, enforcing the
// player authority rules: only player1 may drive the shared pointer and
// keyboard, while every identity drives its own virtual controller.
type Dispatcher struct {
	store   *session.Store
	engine  *motion.Engine
	sched   *Scheduler
	act     actuator.Actuator
	metrics *Metrics
	log     *zap.SugaredLogger

	stickDeadzone float64
	stickCurve    bool
	typeFallback  bool

	// moveLog throttles per-movement debug logging; at full sample rate
	// it would flood the log.
	moveLog rate.Sometimes

	// OnEvent, when set, receives a notification for each dispatched
	// command (feeds the monitor WebSocket).
	OnEvent func(protocol.Event)
}

// NewDispatcher wires the dispatcher to its collaborators.
func NewDispatcher(store *session.Store, engine *motion.Engine, sched *Scheduler,
	act actuator.Actuator, metrics *Metrics, log *zap.SugaredLogger, cfg config.InputConfig) *Dispatcher {
	return &Dispatcher{
		store:         store,
		engine:        engine,
		sched:         sched,
		act:           act,
		metrics:       metrics,
		log:           log,
		stickDeadzone: cfg.StickDeadzone,
		stickCurve:    cfg.StickCurve,
		typeFallback:  cfg.TypeFallback,
		moveLog:       rate.Sometimes{First: 3, Interval: 2 * time.Second},
	}
}

// HandleLine processes one datagram line from addr and returns the reply to
// send back, or "" for fire-and-forget commands. It never fails; bad input
// degrades to a no-op.
func (d *Dispatcher) HandleLine(addr, line string) string {
	cmd := protocol.Parse(line)
	if cmd.Kind == protocol.KindNone {
		return ""
	}

	sess := d.store.Resolve(addr)
	// Identity goes through the store: a sequence goroutine may reassign
	// it concurrently via CONNECT/REGISTER.
	player := d.store.Player(addr)
	if cmd.Player != "" {
		// Inline identity prefix reassigns the session.
		d.store.SetPlayer(addr, cmd.Player)
		player = cmd.Player
	}

	d.metrics.IncCommands()
	return d.dispatch(cmd, sess, player, false)
}

// dispatch executes one command for the given session and effective player
// identity. inSequence marks execution on a sequence's own unit of work,
// where Wait is allowed to block.
func (d *Dispatcher) dispatch(cmd protocol.Command, sess *session.Session, player string, inSequence bool) string {
	switch cmd.Kind {
	case protocol.KindPing:
		return protocol.ReplyPong

	case protocol.KindConnect:
		if !protocol.ValidPlayer(cmd.ID) {
			d.log.Warnf("Invalid player ID in connection request: %s", cmd.ID)
			return protocol.ReplyErrInvalidPlayer
		}
		d.store.SetPlayer(sess.Addr, cmd.ID)
		d.log.Infof("Client %s connected as %s", sess.Addr, cmd.ID)
		d.publish(sess.Addr, cmd.ID, "connect", cmd.ID)
		return protocol.ReplyConnected(cmd.ID)

	case protocol.KindRegister:
		if !protocol.ValidPlayer(cmd.ID) {
			d.log.Warnf("Invalid player ID request: %s", cmd.ID)
			return protocol.ReplyErrInvalidPlayer
		}
		d.store.SetPlayer(sess.Addr, cmd.ID)
		d.log.Infof("Client %s registered as %s", sess.Addr, cmd.ID)
		d.publish(sess.Addr, cmd.ID, "register", cmd.ID)
		return protocol.ReplyRegistered(cmd.ID)

	case protocol.KindKeyDown, protocol.KindKeySync:
		// KEY_SYNC is an idempotent keep-alive for a held key.
		if player == protocol.Player1 {
			d.actuate(d.act.PressKey(cmd.Key), "press key", cmd.Key)
		}
		d.publish(sess.Addr, player, "key_down", cmd.Key)
		return ""

	case protocol.KindKeyUp:
		if player == protocol.Player1 {
			d.actuate(d.act.ReleaseKey(cmd.Key), "release key", cmd.Key)
		}
		d.publish(sess.Addr, player, "key_up", cmd.Key)
		return ""

	case protocol.KindTrigger:
		v := math.Max(0.0, math.Min(1.0, cmd.Value))
		d.actuate(d.act.SetTrigger(player, cmd.Side, v), "set trigger", cmd.Side)
		return ""

	case protocol.KindStick:
		x, y := cmd.X, cmd.Y
		if math.Abs(x) < d.stickDeadzone && math.Abs(y) < d.stickDeadzone {
			x, y = 0, 0
		}
		if d.stickCurve {
			// Finer control near center, full speed at the rim.
			x *= math.Abs(x)
			y *= math.Abs(y)
		}
		d.actuate(d.act.SetStick(player, cmd.Side, x, y), "set stick", cmd.Side)
		return ""

	case protocol.KindButtonPress:
		d.sched.Press(player, cmd.Button, cmd.Hold)
		d.publish(sess.Addr, player, "button_press", cmd.Button)
		return ""

	case protocol.KindButtonRelease:
		d.sched.Release(player, cmd.Button)
		d.publish(sess.Addr, player, "button_release", cmd.Button)
		return ""

	case protocol.KindTouchpad:
		if player != protocol.Player1 {
			// Accepted, but the shared pointer cannot be multiplexed.
			return ""
		}
		dx, dy, ok := d.engine.Sample(sess.Touch, cmd.X, cmd.Y, time.Now())
		if !ok {
			d.metrics.IncMotionSuppressed()
		} else {
			d.emitMotion(dx, dy)
		}
		d.ensureDecay(sess.Touch)
		return ""

	case protocol.KindDelta:
		if player != protocol.Player1 {
			return ""
		}
		if dx, dy, ok := d.engine.Delta(cmd.DX, cmd.DY); ok {
			d.emitMotion(dx, dy)
		} else {
			d.metrics.IncMotionSuppressed()
		}
		return ""

	case protocol.KindTouchLifecycle:
		switch cmd.Phase {
		case protocol.TouchDown:
			sess.Touch.TouchDown(time.Now())
		case protocol.TouchUp, protocol.TouchEnd:
			sess.Touch.TouchEnd()
			d.ensureDecay(sess.Touch)
		}
		return ""

	case protocol.KindMouseButton:
		if player == protocol.Player1 {
			d.actuate(d.act.SetMouseButton(cmd.Down), "set mouse button", "")
		}
		d.publish(sess.Addr, player, "mouse_button", "")
		return ""

	case protocol.KindMouseReset:
		// Historically caused pointer jumps; accepted and ignored.
		d.log.Debugf("MOUSE_RESET from %s ignored", sess.Addr)
		return ""

	case protocol.KindWait:
		if inSequence {
			time.Sleep(time.Duration(cmd.WaitMS) * time.Millisecond)
		} else {
			// A bare wait outside a sequence has nothing to delay, and
			// the receive loop must never block.
			d.log.Debugf("Standalone WAIT_%d from %s skipped", cmd.WaitMS, sess.Addr)
		}
		return ""

	case protocol.KindSequence:
		d.runSequence(cmd.Steps, sess, player)
		return ""

	case protocol.KindUnrecognized:
		d.metrics.IncUnrecognized()
		if d.typeFallback && player == protocol.Player1 {
			d.actuate(d.act.TapKey(strings.ToLower(cmd.Text)), "type key", cmd.Text)
			d.publish(sess.Addr, player, "type_key", cmd.Text)
		}
		return ""
	}
	return ""
}

// emitMotion moves the pointer and accounts for it.
func (d *Dispatcher) emitMotion(dx, dy int) {
	d.actuate(d.act.MovePointer(dx, dy), "move pointer", "")
	d.metrics.IncMotionEmits()
	d.moveLog.Do(func() {
		d.log.Debugf("Pointer move dx=%d dy=%d", dx, dy)
	})
}

// ensureDecay starts one decay loop for the session's touch state when edge
// momentum is latched. The loop owns all momentum emission at a fixed
// re-arm period and exits once both axes are at rest.
func (d *Dispatcher) ensureDecay(st *motion.State) {
	if !st.TryStartDecay() {
		return
	}
	go func() {
		ticker := time.NewTicker(motion.MomentumTickInterval)
		defer ticker.Stop()
		for range ticker.C {
			dx, dy, ok := d.engine.DecayTick(st)
			if dx != 0 || dy != 0 {
				d.actuate(d.act.MovePointer(dx, dy), "momentum move", "")
				d.metrics.IncMomentumTicks()
			}
			if !ok {
				return
			}
		}
	}()
}

// actuate logs and counts a failed actuator call; failures are non-fatal.
func (d *Dispatcher) actuate(err error, op, detail string) {
	if err == nil {
		return
	}
	if detail != "" {
		d.log.Errorf("Failed to %s %s: %v", op, detail, err)
	} else {
		d.log.Errorf("Failed to %s: %v", op, err)
	}
	d.metrics.IncActuatorErrors()
}

func (d *Dispatcher) publish(addr, player, kind, detail string) {
	if d.OnEvent == nil {
		return
	}
	d.OnEvent(protocol.Event{
		Timestamp: time.Now().UnixMilli(),
		Session:   addr,
		Player:    player,
		Kind:      kind,
		Detail:    detail,
	})
}
