package core

import (
	"context"
	"errors"
	"log"
	"time"
)

// schedule tracks the countdown ticker and the launch timer armed for the
// session's current epoch.
type schedule struct {
	countdown      *time.Ticker
	countdownEpoch uint64
	launch         *time.Timer
	launchEpoch    uint64
}

func (s *schedule) countdownC() <-chan time.Time {
	if s.countdown == nil {
		return nil
	}
	return s.countdown.C
}

func (s *schedule) launchC() <-chan time.Time {
	if s.launch == nil {
		return nil
	}
	return s.launch.C
}

func (s *schedule) stopCountdown() {
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
}

func (s *schedule) stopLaunch() {
	if s.launch != nil {
		s.launch.Stop()
		s.launch = nil
	}
}

func (s *schedule) stop() {
	s.stopCountdown()
	s.stopLaunch()
}

// Run drives the match until ctx is cancelled. Every session mutation happens
// on this goroutine.
func (m *Match) Run(ctx context.Context) error {
	if !m.running.CompareAndSwap(false, true) {
		return errors.New("match already running")
	}
	defer m.shutdown()

	interval := m.session.Config().Match.TickInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var sched schedule
	defer sched.stop()

	log.Printf("[match] loop started, tick every %s", interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("[match] loop stopped")
			return ctx.Err()
		case cmd := <-m.inbox:
			cmd.apply(m, m.now())
		case <-ticker.C:
			m.tick()
		case <-sched.countdownC():
			m.session.CountdownStep(sched.countdownEpoch)
		case <-sched.launchC():
			sched.launch = nil
			m.session.Launch(sched.launchEpoch, m.now())
		}
		m.flush()
		m.arm(&sched)
	}
}

func (m *Match) tick() {
	m.session.IntegratePaddles()
	m.session.Tick(m.now())
	m.flush()

	state := m.session.Snapshot()
	m.broadcast(state)
	for _, o := range m.observers {
		o.OnTick(state)
	}
}

// arm brings the timers in line with the session. A timer from an older epoch
// is stopped; a missing one is started.
func (m *Match) arm(sched *schedule) {
	epoch, running := m.session.CountdownEpoch()
	switch {
	case !running:
		sched.stopCountdown()
	case sched.countdown == nil || sched.countdownEpoch != epoch:
		sched.stopCountdown()
		sched.countdown = time.NewTicker(m.session.Config().Match.CountdownStep)
		sched.countdownEpoch = epoch
	}

	launch, delay, pending := m.session.PendingLaunch()
	switch {
	case !pending:
		sched.stopLaunch()
	case sched.launch == nil || sched.launchEpoch != launch:
		sched.stopLaunch()
		sched.launch = time.NewTimer(delay)
		sched.launchEpoch = launch
	}
}

func (m *Match) shutdown() {
	close(m.done)
	for id, p := range m.peers {
		_ = p.Close()
		delete(m.peers, id)
	}
}
