package server

import "sync/atomic"

// Metrics tracks runtime counters for monitoring and debugging.
type Metrics struct {
	Datagrams        int64 // inbound datagrams received
	Commands         int64 // commands dispatched
	Unrecognized     int64 // lines that fell through to the key fallback
	Replies          int64 // replies sent back over the transport
	MotionEmits      int64 // pointer deltas actually emitted
	MotionSuppressed int64 // samples swallowed by deadzone/first-sample
	MomentumTicks    int64 // edge momentum decay emissions
	SequencesRun     int64 // sequences started
	SequenceAborts   int64 // sequences abandoned by a panic
	SessionsEvicted  int64 // sessions removed by the sweep
	ActuatorErrors   int64 // failed actuator calls (logged, non-fatal)
}

func (m *Metrics) IncDatagrams()        { atomic.AddInt64(&m.Datagrams, 1) }
func (m *Metrics) IncCommands()         { atomic.AddInt64(&m.Commands, 1) }
func (m *Metrics) IncUnrecognized()     { atomic.AddInt64(&m.Unrecognized, 1) }
func (m *Metrics) IncReplies()          { atomic.AddInt64(&m.Replies, 1) }
func (m *Metrics) IncMotionEmits()      { atomic.AddInt64(&m.MotionEmits, 1) }
func (m *Metrics) IncMotionSuppressed() { atomic.AddInt64(&m.MotionSuppressed, 1) }
func (m *Metrics) IncMomentumTicks()    { atomic.AddInt64(&m.MomentumTicks, 1) }
func (m *Metrics) IncSequencesRun()     { atomic.AddInt64(&m.SequencesRun, 1) }
func (m *Metrics) IncSequenceAborts()   { atomic.AddInt64(&m.SequenceAborts, 1) }
func (m *Metrics) IncActuatorErrors()   { atomic.AddInt64(&m.ActuatorErrors, 1) }

func (m *Metrics) AddSessionsEvicted(n int) { atomic.AddInt64(&m.SessionsEvicted, int64(n)) }

// Snapshot returns a read-only copy for HTTP output.
func (m *Metrics) Snapshot() map[string]any {
	return map[string]any{
		"datagrams":         atomic.LoadInt64(&m.Datagrams),
		"commands":          atomic.LoadInt64(&m.Commands),
		"unrecognized":      atomic.LoadInt64(&m.Unrecognized),
		"replies":           atomic.LoadInt64(&m.Replies),
		"motion_emits":      atomic.LoadInt64(&m.MotionEmits),
		"motion_suppressed": atomic.LoadInt64(&m.MotionSuppressed),
		"momentum_ticks":    atomic.LoadInt64(&m.MomentumTicks),
		"sequences_run":     atomic.LoadInt64(&m.SequencesRun),
		"sequence_aborts":   atomic.LoadInt64(&m.SequenceAborts),
		"sessions_evicted":  atomic.LoadInt64(&m.SessionsEvicted),
		"actuator_errors":   atomic.LoadInt64(&m.ActuatorErrors),
	}
}
