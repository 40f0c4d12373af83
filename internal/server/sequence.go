package server

import (
	"padbridge/internal/protocol"
	"padbridge/internal/session"
)

// runSequence executes a comma-delimited command list on its own goroutine
// so the receive loop stays responsive while waits elapse. Steps run in
// order; a panicking step aborts the remainder.
func (d *Dispatcher) runSequence(steps []string, sess *session.Session, player string) {
	d.metrics.IncSequencesRun()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.metrics.IncSequenceAborts()
				d.log.Errorf("Sequence aborted for %s: %v", sess.Addr, r)
			}
		}()
		for _, step := range steps {
			cmd := protocol.Parse(step)
			if cmd.Kind == protocol.KindNone {
				continue
			}
			p := player
			if cmd.Player != "" {
				p = cmd.Player
			}
			d.dispatch(cmd, sess, p, true)
		}
	}()
}
