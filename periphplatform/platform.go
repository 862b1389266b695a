// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package periphplatform implements hub.Platform over a real I²C bus and two
// GPIO lines (RESET, BOOTN) plus an INTN input, using periph.io.
package periphplatform

import (
	"sync"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/i2c"

	"github.com/hcrest/bno070-driver/hub"
)

// resetPulse is how long RESET is held asserted during Reset/ResetDFU.
const resetPulse = 10 * time.Millisecond

// bootSettle is how long to wait after releasing RESET before the hub's
// BOOTN sampling window closes.
const bootSettle = 2 * time.Millisecond

// Platform implements hub.Platform against real hardware: an I²C bus at a
// fixed address, and RESET/BOOTN/INTN GPIO lines.
type Platform struct {
	dev   *i2c.Dev
	reset gpio.PinOut
	bootn gpio.PinOut
	intn  gpio.PinIn

	start time.Time

	mu     sync.Mutex
	lastTS uint32
}

// New returns a Platform talking to a hub at addr on bus, using reset/bootn
// as RESET_N/BOOTN outputs and intn as the INTN input. intn must already be
// configured for BothEdges via gpio.PinIn.In; New does not configure it, so
// callers may share edge configuration across multiple consumers of intn.
func New(bus i2c.Bus, addr uint16, reset, bootn gpio.PinOut, intn gpio.PinIn) *Platform {
	return &Platform{
		dev:   &i2c.Dev{Bus: bus, Addr: addr},
		reset: reset,
		bootn: bootn,
		intn:  intn,
		start: time.Now(),
	}
}

// Reset pulses RESET with BOOTN high, booting the hub into application
// firmware.
func (p *Platform) Reset() error {
	return p.pulse(gpio.High)
}

// ResetDFU pulses RESET with BOOTN low, booting the hub into DFU mode.
func (p *Platform) ResetDFU() error {
	return p.pulse(gpio.Low)
}

func (p *Platform) pulse(bootn gpio.Level) error {
	if err := p.bootn.Out(bootn); err != nil {
		return err
	}
	if err := p.reset.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(resetPulse)
	if err := p.reset.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(bootSettle)
	return nil
}

// I2C performs a single I²C transaction via the underlying periph.io device.
func (p *Platform) I2C(send []byte, recv []byte) error {
	return p.dev.Tx(send, recv)
}

// GetINTN reports the current level of INTN: true means de-asserted.
func (p *Platform) GetINTN() bool {
	if p.intn.Read() == gpio.Low {
		p.latch()
		return false
	}
	return true
}

// WaitINTN blocks until INTN asserts or timeout elapses. A negative timeout
// blocks forever.
func (p *Platform) WaitINTN(timeout time.Duration) bool {
	if p.intn.Read() == gpio.Low {
		p.latch()
		return false
	}
	if timeout == 0 {
		return true
	}
	if p.intn.WaitForEdge(timeout) && p.intn.Read() == gpio.Low {
		p.latch()
		return false
	}
	return true
}

// Timestamp returns the microsecond timestamp latched the last time INTN
// was observed asserted.
func (p *Platform) Timestamp() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastTS
}

func (p *Platform) latch() {
	p.mu.Lock()
	p.lastTS = uint32(time.Since(p.start).Microseconds())
	p.mu.Unlock()
}

var _ hub.Platform = (*Platform)(nil)
