// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hub

import "time"

// Platform is the set of operations a host integration must provide so the
// driver core can talk to a hub over I²C. It owns the RESET/BOOTN lines, the
// I²C bus, and INTN sampling; the driver never touches hardware directly.
//
// A Platform is owned exclusively by one Session; nothing in this package
// calls a Platform method concurrently with another.
type Platform interface {
	// Reset pulses RESET with BOOTN high, booting the hub into application
	// firmware.
	Reset() error

	// ResetDFU pulses RESET with BOOTN low, booting the hub into DFU mode.
	ResetDFU() error

	// I2C performs a single I²C transaction: optionally writing send, then
	// optionally reading len(recv) bytes, with a repeated START between the
	// two halves when both are non-empty. Either send or recv may be empty.
	I2C(send []byte, recv []byte) error

	// GetINTN reports the current level of the INTN line. true means
	// de-asserted (idle); false means asserted (data ready).
	GetINTN() bool

	// WaitINTN blocks until INTN is asserted or timeout elapses, whichever
	// comes first. It returns the final observed level, matching GetINTN's
	// polarity (false means asserted). A timeout of 0 means poll once and
	// return immediately; SH_WAIT_FOREVER is expressed as a negative
	// duration by convention — callers in this package instead pass
	// WaitForever.
	WaitINTN(timeout time.Duration) bool

	// Timestamp returns the microsecond timestamp latched at the moment
	// INTN was last observed asserted.
	Timestamp() uint32
}

// WaitForever requests that WaitINTN block with no timeout, returning only
// once INTN asserts (or the platform itself errors out by panicking /
// never returning, which this driver never does on its own).
const WaitForever time.Duration = -1

// FirmwareBlob is the pluggable firmware-image source the DFU engine reads
// from. Implementations usually wrap a file or an embedded byte slice.
type FirmwareBlob interface {
	// Open prepares the blob for reading.
	Open() error
	// Close releases any resources Open acquired.
	Close() error
	// Meta returns metadata by key, e.g. "FW-Format". Ok is false if the
	// key is unknown.
	Meta(key string) (value string, ok bool)
	// AppLen returns the total size of the application image in bytes.
	AppLen() uint32
	// PacketLen returns the blob's suggested packet size, or 0 to let the
	// DFU engine pick its default.
	PacketLen() uint32
	// AppData fills buf with up to len(buf) bytes of application image
	// starting at offset.
	AppData(buf []byte, offset uint32) error
}
