// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hub drives a sensor-fusion coprocessor (the "hub") over a
// HID-over-I²C transport: HID transport framing, a command/response and
// Flash Record System (FRS) sub-protocol, and a CRC-framed DFU bootloader
// protocol, all sharing one I²C byte pipe.
package hub

import "time"

// pollInterval is the per-step IN timeout used while draining replies to a
// command, FRS, or product-id request. Bounded suspension; see the
// concurrency notes on Session.
const pollInterval = 10 * time.Millisecond

// Session represents one opened hub: an owned platform handle, an owned HID
// transport, a rolling 8-bit command sequence counter, per-session event
// decoder state, and any FRS-change notifications observed between calls.
//
// A Session executes one API call at a time; it keeps no internal locks and
// must not be driven concurrently from multiple goroutines, nor from an
// interrupt handler — the platform's ISR duty is limited to latching the
// INTN timestamp.
type Session struct {
	unit    int
	t       *transport
	cmdSeq  uint8
	decoder eventDecoder

	pendingFrsChanges []uint16
}

// Open creates a session bound to platform p and brings the hub's HID
// transport up: it resets the device into application firmware and
// discards the mandatory post-reset zero report.
func Open(unit int, p Platform) (*Session, error) {
	t := newTransport(p)
	if err := t.open(); err != nil {
		return nil, err
	}
	return &Session{unit: unit, t: t}, nil
}

// nextSeq returns the next command sequence number, wrapping at 256. Only
// the command/response engine mutates this counter.
func (s *Session) nextSeq() uint8 {
	seq := s.cmdSeq
	s.cmdSeq++
	return seq
}

// EventReady reports whether INTN currently indicates data is ready.
func (s *Session) EventReady() bool {
	return !s.t.p.GetINTN()
}

// GetEvent is GetEventTO with no wait.
func (s *Session) GetEvent() (Event, error) {
	return s.GetEventTO(0)
}

// GetEventTO waits up to timeout for an IN report and decodes it as a
// sensor event. A report whose id names a protocol response (reportId ≥
// 0x80) is surfaced as StatusBadReport rather than silently discarded —
// applications that want to ignore interleaved protocol traffic should
// drive the matching command API instead of calling GetEventTO directly
// while a command/FRS exchange is in flight.
func (s *Session) GetEventTO(timeout time.Duration) (Event, error) {
	buf := make([]byte, maxReportLen)
	n, ts, err := s.t.inTS(buf, timeout, true)
	if err != nil {
		return Event{}, err
	}
	return s.decoder.decode(buf[:n], ts)
}

// DrainFrsChanges returns and clears any FRS-change notifications (SH_CR_
// FRS_CHANGE command responses) observed while waiting for replies to other
// commands, and resets the pending list.
func (s *Session) DrainFrsChanges() []uint16 {
	out := s.pendingFrsChanges
	s.pendingFrsChanges = nil
	return out
}

// noteFrsChange records an unsolicited FRS-change notification so a later
// DrainFrsChanges call can surface it; it is never consumed by the
// command/response engine's own filtering.
func (s *Session) noteFrsChange(recordID uint16) {
	s.pendingFrsChanges = append(s.pendingFrsChanges, recordID)
}
