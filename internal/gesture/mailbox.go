package gesture

import "sync/atomic"

// Mailbox holds the newest Sample and nothing else. Publishing over an
// unconsumed sample replaces it, so a slow consumer only ever sees the
// freshest value and never a backlog.
type Mailbox struct {
	pending atomic.Pointer[Sample]
	last    atomic.Pointer[Sample]
	dropped atomic.Uint64
	ready   chan struct{}
}

func NewMailbox() *Mailbox {
	return &Mailbox{ready: make(chan struct{}, 1)}
}

// Publish stores s as the latest sample and signals Ready. It never blocks.
func (m *Mailbox) Publish(s Sample) {
	p := &s
	m.last.Store(p)
	if prev := m.pending.Swap(p); prev != nil {
		m.dropped.Add(1)
	}
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// Consume takes the newest unconsumed sample. ok is false if nothing was
// published since the previous Consume.
func (m *Mailbox) Consume() (s Sample, ok bool) {
	p := m.pending.Swap(nil)
	if p == nil {
		return Sample{}, false
	}
	return *p, true
}

// Latest returns the most recently published sample whether or not it has
// been consumed, or Quiescent if nothing was ever published.
func (m *Mailbox) Latest() Sample {
	if p := m.last.Load(); p != nil {
		return *p
	}
	return Quiescent
}

// Ready is signalled after Publish. A single signal may cover several
// publishes.
func (m *Mailbox) Ready() <-chan struct{} { return m.ready }

// Dropped counts samples overwritten before they were consumed.
func (m *Mailbox) Dropped() uint64 { return m.dropped.Load() }
