package server

import (
	"net"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"padbridge/internal/config"
	"padbridge/internal/session"
)

// Server is the UDP front end: it owns the socket, feeds datagram lines to
// the dispatcher and periodically sweeps idle sessions.
type Server struct {
	addr       string
	readBuffer int
	timeout    time.Duration
	sweepEvery time.Duration

	conn  *net.UDPConn
	done  chan struct{}
	store *session.Store
	disp  *Dispatcher

	metrics *Metrics
	log     *zap.SugaredLogger
}

// NewServer creates a UDP server bound by Start.
func NewServer(cfg config.Config, store *session.Store, disp *Dispatcher, metrics *Metrics, log *zap.SugaredLogger) *Server {
	timeout := time.Duration(cfg.Session.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = session.DefaultTimeout
	}
	sweep := time.Duration(cfg.Session.SweepSec) * time.Second
	if sweep <= 0 {
		sweep = session.SweepInterval
	}
	return &Server{
		addr:       cfg.Listen.Addr,
		readBuffer: cfg.Listen.ReadBufferBytes,
		timeout:    timeout,
		sweepEvery: sweep,
		done:       make(chan struct{}),
		store:      store,
		disp:       disp,
		metrics:    metrics,
		log:        log,
	}
}

// Start binds the socket and launches the receive and sweep loops.
func (s *Server) Start() error {
	udpAddr, err := net.ResolveUDPAddr("udp", s.addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}
	s.conn = conn

	// Large read buffer for burst receives
	if s.readBuffer > 0 {
		if err := conn.SetReadBuffer(s.readBuffer); err != nil {
			s.log.Warnf("Failed to set UDP read buffer: %v", err)
		}
	}

	s.log.Infof("UDP server listening on %s", conn.LocalAddr())

	go s.readLoop()
	go s.sweepLoop()

	return nil
}

// readLoop reads one datagram at a time and hands it to the dispatcher.
// Each datagram holds a single text command; replies go back to the sender.
func (s *Server) readLoop() {
	buf := make([]byte, 2048)
	for {
		n, remote, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				s.log.Warnf("UDP read error: %v", err)
				continue
			}
		}
		s.metrics.IncDatagrams()

		if !utf8.Valid(buf[:n]) {
			s.log.Warnf("Dropping non-UTF8 datagram from %s", remote)
			continue
		}
		line := strings.TrimSpace(string(buf[:n]))
		if line == "" {
			continue
		}

		reply := s.disp.HandleLine(remote.String(), line)
		if reply != "" {
			if _, err := s.conn.WriteToUDP([]byte(reply), remote); err != nil {
				s.log.Warnf("Failed to reply to %s: %v", remote, err)
			} else {
				s.metrics.IncReplies()
			}
		}
	}
}

// sweepLoop evicts sessions that have been silent past the timeout.
func (s *Server) sweepLoop() {
	ticker := time.NewTicker(s.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if evicted := s.store.Sweep(time.Now(), s.timeout); len(evicted) > 0 {
				s.metrics.AddSessionsEvicted(len(evicted))
			}
		case <-s.done:
			return
		}
	}
}

// Stop shuts down the receive and sweep loops and closes the socket.
func (s *Server) Stop() {
	close(s.done)
	if s.conn != nil {
		s.conn.Close()
	}
}
