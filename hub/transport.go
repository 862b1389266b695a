// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hub

import (
	"time"

	"github.com/hcrest/bno070-driver/hub/internal/wire"
)

// HID-over-I²C register map.
const (
	regHIDDescriptor    = 1
	regReportDescriptor = 2
	regInput            = 3
	regOutput           = 4
	regCommand          = 5
	regData             = 6
)

// HID report-type nibble, placed in the high bits of the command byte.
const (
	reportTypeInput   = 0x10
	reportTypeOutput  = 0x20
	reportTypeFeature = 0x30
)

const (
	opSetReport = 0x03
	opGetReport = 0x02
)

// maxReportLen is the largest HID report this hub ever produces or
// consumes: one report-id byte plus 15 payload bytes.
const maxReportLen = 16

// resetWait is how long transport open waits for the post-reset zero
// report HID-over-I²C mandates.
const resetWait = 200 * time.Millisecond

// transport frames SET/GET_REPORT and raw OUT/IN over the hub's register
// map. It never interprets report contents; that is the decoder's and the
// command engine's job.
type transport struct {
	p Platform
}

func newTransport(p Platform) *transport {
	return &transport{p: p}
}

// open resets the device and discards the mandatory post-reset zero report.
func (t *transport) open() error {
	if err := t.p.Reset(); err != nil {
		return err
	}
	buf := make([]byte, maxReportLen)
	_, _ = t.in(buf, resetWait, false) // boot report is discarded regardless of outcome
	return nil
}

// out performs a raw HID-over-I²C OUT, writing directly to REG_OUTPUT with
// no command-register framing. report[0] must hold the report id. The hub
// firmware expects every OUTPUT report delivered via SET_REPORT instead (see
// setOutReport); out is kept because the transport names it as one of the
// four HID-over-I²C primitives, for platforms or future report types that
// don't require the command-register indirection.
func (t *transport) out(report []byte) error {
	buf := make([]byte, len(report)+4)
	wire.Write16(buf[0:2], regOutput)
	wire.Write16(buf[2:4], uint16(len(report)+2))
	copy(buf[4:], report)
	return t.p.I2C(buf, nil)
}

// in waits for INTN and reads one raw IN report into buf (report id first,
// no length prefix). On success it returns the number of bytes copied into
// buf and a nil error. Any interrupt timestamp is dropped; callers that need
// it use inTS.
func (t *transport) in(buf []byte, wait time.Duration, withTimestamp bool) (int, error) {
	n, _, err := t.inTS(buf, wait, withTimestamp)
	return n, err
}

func (t *transport) inTS(buf []byte, wait time.Duration, withTimestamp bool) (int, uint32, error) {
	ready := !t.p.WaitINTN(wait)
	if !ready {
		return 0, 0, StatusNoData
	}
	var ts uint32
	if withTimestamp {
		ts = t.p.Timestamp()
	}
	raw := make([]byte, maxReportLen+2)
	if err := t.p.I2C(nil, raw); err != nil {
		return 0, ts, err
	}
	length := wire.Read16(raw)
	if length < 2 || int(length) > maxReportLen+2 {
		return 0, ts, StatusErrorI2CIO
	}
	n := copy(buf, raw[2:length])
	return n, ts, nil
}

// setOutReport sends an OUTPUT report through the SET_REPORT command-register
// path. Every higher-level OUT-bound request (command requests, FRS
// requests, product-id requests) goes through SET_REPORT rather than the raw
// out primitive.
func (t *transport) setOutReport(report []byte) error {
	return t.setReport(reportTypeOutput, report[0], report[1:])
}

// setReport performs HID-over-I²C SET_REPORT for the given report type and
// id, writing payload as the report body.
func (t *transport) setReport(reportType byte, reportID byte, payload []byte) error {
	cmd := make([]byte, 0, 9+len(payload))
	cmd = append(cmd, 0, 0) // regCommand, written below
	wire.Write16(cmd[0:2], regCommand)
	if reportID < 0x0F {
		cmd = append(cmd, reportType|reportID, opSetReport)
	} else {
		cmd = append(cmd, reportType|0x0F, opSetReport, reportID)
	}
	dataHdr := make([]byte, 4)
	wire.Write16(dataHdr[0:2], regData)
	wire.Write16(dataHdr[2:4], uint16(len(payload)+2))
	cmd = append(cmd, dataHdr...)
	cmd = append(cmd, payload...)
	return t.p.I2C(cmd, nil)
}

// getReport performs HID-over-I²C GET_REPORT for the given report type and
// id, returning the report body with the echoed report id as its first byte
// (the length prefix itself is stripped).
func (t *transport) getReport(reportType byte, reportID byte) ([]byte, error) {
	cmd := make([]byte, 2, 7)
	wire.Write16(cmd[0:2], regCommand)
	if reportID < 0x0F {
		cmd = append(cmd, reportType|reportID, opGetReport)
	} else {
		cmd = append(cmd, reportType|0x0F, opGetReport, reportID)
	}
	cmd = append(cmd, 0, 0)
	wire.Write16(cmd[len(cmd)-2:], regData)

	resp := make([]byte, maxReportLen+2)
	if err := t.p.I2C(cmd, resp); err != nil {
		return nil, err
	}
	n := int(wire.Read16(resp)) - 2
	if n < 0 {
		n = 0
	}
	if n > len(resp)-2 {
		n = len(resp) - 2
	}
	out := make([]byte, n)
	copy(out, resp[2:2+n])
	return out, nil
}
