// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hub

import "github.com/hcrest/bno070-driver/hub/internal/wire"

const (
	reportFrsWriteRequest     = 0x82
	reportFrsWriteDataRequest = 0x83
	reportFrsWriteResponse    = 0x84
	reportFrsReadRequest      = 0x85
	reportFrsReadResponse     = 0x86
)

// FRS read response terminal/empty status codes (low nibble).
const (
	frsReadRecordComplete = 3
	frsReadEmpty          = 5
	frsReadBlockComplete  = 6
	frsReadBothComplete   = 7
)

// FRS write response status codes.
const (
	frsWriteCompleted = 3
)

// GetFrs reads FRS record recordId into buf (capacity in 32-bit words) and
// returns the number of words written. It sends one FRS_READ_REQUEST and
// assembles the record from however many FRS_READ_RESPONSE packets the hub
// sends, clipping writes beyond buf's capacity while still draining to a
// terminal status.
func (s *Session) GetFrs(recordID uint16, buf []uint32) (int, error) {
	readLenWords := uint16(len(buf))

	req := make([]byte, 8)
	req[0] = reportFrsReadRequest
	wire.Write16(req[2:4], 0) // offset
	wire.Write16(req[4:6], recordID)
	wire.Write16(req[6:8], readLenWords)
	if err := s.t.setOutReport(req); err != nil {
		return 0, err
	}

	in := make([]byte, maxReportLen)
	lastCopied := -1
	for {
		n, err := s.t.in(in, pollInterval, false)
		if err != nil {
			return 0, err
		}
		if n != 16 || in[0] != reportFrsReadResponse {
			continue
		}
		if wire.Read16(in[12:14]) != recordID {
			continue
		}

		status := in[1] & 0x0F
		if status == frsReadEmpty {
			return 0, nil
		}
		if status == 1 || status == 2 || status == 4 || status == 8 {
			return 0, frsReadStatus(status)
		}

		words := int(in[1]>>4) & 0x0F
		offset := int(wire.Read16(in[2:4]))
		var clipErr error
		for i := 0; i < words; i++ {
			idx := offset + i
			if idx >= len(buf) {
				clipErr = StatusFrsReadUnexpectedLength
				continue
			}
			buf[idx] = wire.Read32(in[4+4*i : 8+4*i])
			lastCopied = idx
		}

		if status == frsReadRecordComplete || status == frsReadBlockComplete || status == frsReadBothComplete {
			if clipErr != nil {
				return lastCopied + 1, clipErr
			}
			return lastCopied + 1, nil
		}
	}
}

// SetFrs writes data to FRS record recordId. It sends one
// FRS_WRITE_REQUEST, then streams up to two words per FRS_WRITE_DATA_REQUEST
// as the hub's FRS_WRITE_RESPONSE stream paces the exchange; the host never
// pushes more than one chunk ahead of the hub's acknowledgment.
func (s *Session) SetFrs(recordID uint16, data []uint32) error {
	req := make([]byte, 6)
	req[0] = reportFrsWriteRequest
	wire.Write16(req[2:4], uint16(len(data)))
	wire.Write16(req[4:6], recordID)
	if err := s.t.setOutReport(req); err != nil {
		return err
	}

	toWrite := len(data)
	offset := 0
	in := make([]byte, maxReportLen)
	for {
		n, err := s.t.in(in, pollInterval, false)
		if err != nil {
			return err
		}
		if n != 4 || in[0] != reportFrsWriteResponse {
			continue
		}

		status := in[1]
		switch status {
		case 1, 2, 5, 6, 7, 9, 10, 11:
			return frsWriteStatus(status)
		}

		if status == frsWriteCompleted {
			if toWrite == 0 {
				return nil
			}
			return StatusFrsWriteNotEnough
		}

		if toWrite > 0 {
			dataReq := make([]byte, 8+8)
			dataReq[0] = reportFrsWriteDataRequest
			wire.Write16(dataReq[2:4], uint16(offset))
			wire.Write32(dataReq[4:8], data[offset])
			offset++
			toWrite--
			if toWrite > 0 {
				wire.Write32(dataReq[8:12], data[offset])
				offset++
				toWrite--
			}
			if err := s.t.setOutReport(dataReq[:12]); err != nil {
				return err
			}
		}
	}
}
