// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hub

import "github.com/hcrest/bno070-driver/hub/internal/wire"

const (
	reportCommandRequest  = 0x87
	reportCommandResponse = 0x88
)

// Command/subcommand codes (SH_CR_*).
const (
	cmdReportErrors = 0x01
	cmdCounts       = 0x02
	cmdTare         = 0x03
	cmdInitialize   = 0x04
	cmdFrsChange    = 0x05 // response-only
	cmdSaveDCD      = 0x06
	cmdCalConfig    = 0x07
	cmdRvSync       = 0x08
)

const (
	countsGet   = 0x00
	countsClear = 0x01
)

const (
	tareNow       = 0x00
	tarePersist   = 0x01
	tareSetOrient = 0x02
)

const (
	initNop       = 0x00
	initSensorHub = 0x01
)

// TareAxis is a bitmask of axes passed to TareNow.
type TareAxis uint8

// Valid bits for TareAxis.
const (
	TareAxisX TareAxis = 1 << iota
	TareAxisY
	TareAxisZ
)

// TareBasis selects which rotation vector a tare operation is relative to.
type TareBasis uint8

// Valid values for TareBasis.
const (
	TareBasisRotationVector         TareBasis = 0
	TareBasisGameRotationVector     TareBasis = 1
	TareBasisGeomagRotationVector   TareBasis = 2
)

// RvSyncOp selects a rotation-vector sync operation.
type RvSyncOp uint8

// Valid values for RvSyncOp.
const (
	RvSyncNow            RvSyncOp = 0
	RvSyncExtEnable      RvSyncOp = 1
	RvSyncExtDisable     RvSyncOp = 2
)

// Calibration target bits for CalConfig.
const (
	CalAccel uint8 = 0x01
	CalGyro  uint8 = 0x02
	CalMag   uint8 = 0x04
)

// ErrorRecord is one entry returned by GetErrors.
type ErrorRecord struct {
	Severity uint8
	Sequence uint8
	Source   uint8
	Error    uint8
	Module   uint8
	Code     uint8
}

// Counts is the result of GetCounts.
type Counts struct {
	Offered   uint32
	Accepted  uint32
	On        uint32
	Attempted uint32
}

// newCommandRequest builds a 13-byte SH_COMMAND_REQUEST frame: reportId,
// sequence, command, and up to 9 command-specific bytes (zeroed unless the
// caller fills them in via the returned slice).
func newCommandRequest(seq uint8, command byte) []byte {
	req := make([]byte, 13)
	req[0] = reportCommandRequest
	req[1] = seq
	req[2] = command
	return req
}

// sendCommand issues a fire-and-forget command: no reply is awaited.
func (s *Session) sendCommand(req []byte) error {
	return s.t.setOutReport(req)
}

// readCommandResponse polls for the next SH_COMMAND_RESPONSE report that
// matches (command, cmdSeq). Unsolicited FRS_CHANGE notifications are
// recorded via noteFrsChange and otherwise ignored; any other mismatch is
// discarded, matching the dispatch rule: sensor events and replies to other
// in-flight sequences never corrupt this wait. A single dry IN poll (no
// report within pollInterval) aborts the wait with that poll's error,
// exactly as the reference driver does.
func (s *Session) readCommandResponse(command byte, seq uint8) ([]byte, error) {
	buf := make([]byte, maxReportLen)
	for {
		n, err := s.t.in(buf, pollInterval, false)
		if err != nil {
			return nil, err
		}
		if n != 16 || buf[0] != reportCommandResponse {
			continue
		}
		gotCommand := buf[2]
		if gotCommand == cmdFrsChange && command != cmdFrsChange {
			s.noteFrsChange(wire.Read16(buf[6:8]))
			continue
		}
		if gotCommand != command || buf[3] != seq {
			continue
		}
		out := make([]byte, n)
		copy(out, buf[:n])
		return out, nil
	}
}

// GetErrors issues SH_CR_REPORT_ERRORS and drains the reply stream. Records
// beyond the caller's capacity are discarded but the stream is still
// drained fully, so the hub's internal error queue is flushed regardless
// of cap.
func (s *Session) GetErrors(severity uint8, cap int) ([]ErrorRecord, error) {
	seq := s.nextSeq()
	req := newCommandRequest(seq, cmdReportErrors)
	req[3] = severity
	if err := s.sendCommand(req); err != nil {
		return nil, err
	}

	var out []ErrorRecord
	for {
		resp, err := s.readCommandResponse(cmdReportErrors, seq)
		if err != nil {
			return nil, err
		}
		// sh_GetErrsResp_t: ...cmdSeq,respSeq,severity,errSeq,source,error,module,code,reserved[5]
		severityByte := resp[5]
		source := resp[7]
		if source == 255 || severityByte == 255 {
			return out, nil
		}
		if len(out) < cap {
			out = append(out, ErrorRecord{
				Severity: severityByte,
				Sequence: resp[6],
				Source:   source,
				Error:    resp[8],
				Module:   resp[9],
				Code:     resp[10],
			})
		}
	}
}

// GetCounts issues SH_CR_COUNTS/GET for sensorId and collects both replies
// (respSeq 0 then 1).
func (s *Session) GetCounts(sensorID SensorID) (Counts, error) {
	seq := s.nextSeq()
	req := newCommandRequest(seq, cmdCounts)
	req[3] = countsGet
	req[4] = byte(sensorID)
	if err := s.sendCommand(req); err != nil {
		return Counts{}, err
	}

	var counts Counts
	for replies := 0; replies < 2; replies++ {
		resp, err := s.readCommandResponse(cmdCounts, seq)
		if err != nil {
			return Counts{}, err
		}
		// sh_GetCountsResp_t: ...cmdSeq,respSeq,sensorId,status,reserved,value[2]
		if resp[6] != 1 {
			return Counts{}, StatusHubError
		}
		v0 := wire.Read32(resp[8:12])
		v1 := wire.Read32(resp[12:16])
		if resp[4] == 0 {
			counts.Offered, counts.Accepted = v0, v1
		} else {
			counts.On, counts.Attempted = v0, v1
		}
	}
	return counts, nil
}

// ClearCounts issues SH_CR_COUNTS/CLEAR for sensorId. Fire-and-forget.
func (s *Session) ClearCounts(sensorID SensorID) error {
	seq := s.nextSeq()
	req := newCommandRequest(seq, cmdCounts)
	req[3] = countsClear
	req[4] = byte(sensorID)
	return s.sendCommand(req)
}

// TareNow issues SH_CR_TARE/NOW for the given axes and basis.
// Fire-and-forget.
func (s *Session) TareNow(axes TareAxis, basis TareBasis) error {
	seq := s.nextSeq()
	req := newCommandRequest(seq, cmdTare)
	req[3] = tareNow
	req[4] = byte(axes)
	req[5] = byte(basis)
	return s.sendCommand(req)
}

// TareClear clears the reorientation by issuing SH_CR_TARE/SET_ORIENT with
// x, y, z and w all zero, the same 20-byte frame
// SetReorientation sends. Fire-and-forget.
func (s *Session) TareClear() error {
	return s.SetReorientation(Quaternion{})
}

// PersistTare issues SH_CR_TARE/PERSIST. Fire-and-forget.
func (s *Session) PersistTare() error {
	seq := s.nextSeq()
	req := newCommandRequest(seq, cmdTare)
	req[3] = tarePersist
	return s.sendCommand(req)
}

// Quaternion is a reorientation quaternion in floating point; SetReorientation
// encodes it as 16Q14 fixed point on the wire.
type Quaternion struct {
	X, Y, Z, W float64
}

func to16Q14(f float64) uint32 {
	return uint32(int32(f * (1 << 14)))
}

// SetReorientation issues SH_CR_TARE/SET_ORIENT with the given quaternion,
// encoded as four little-endian 16Q14 fixed-point words. This request's
// body (x,y,z,w) is wider than the generic 13-byte command frame, matching
// sh_SetReorientationReq_t. Fire-and-forget.
func (s *Session) SetReorientation(q Quaternion) error {
	seq := s.nextSeq()
	req := make([]byte, 20)
	req[0] = reportCommandRequest
	req[1] = seq
	req[2] = cmdTare
	req[3] = tareSetOrient
	wire.Write32(req[4:8], to16Q14(q.X))
	wire.Write32(req[8:12], to16Q14(q.Y))
	wire.Write32(req[12:16], to16Q14(q.Z))
	wire.Write32(req[16:20], to16Q14(q.W))
	return s.t.setOutReport(req)
}

// Reinitialize issues SH_CR_INITIALIZE for the sensorhub subsystem.
// Fire-and-forget.
func (s *Session) Reinitialize() error {
	seq := s.nextSeq()
	req := newCommandRequest(seq, cmdInitialize)
	req[3] = initSensorHub
	return s.sendCommand(req)
}

// DcdSaveNow issues SH_CR_SAVE_DCD and returns the hub's status byte.
func (s *Session) DcdSaveNow() (uint8, error) {
	seq := s.nextSeq()
	req := newCommandRequest(seq, cmdSaveDCD)
	if err := s.sendCommand(req); err != nil {
		return 0, err
	}
	resp, err := s.readCommandResponse(cmdSaveDCD, seq)
	if err != nil {
		return 0, err
	}
	return resp[5], nil
}

// CalConfig issues SH_CR_CAL_CONFIG with a bitmask of CalAccel/CalGyro/
// CalMag and returns the hub's status byte.
func (s *Session) CalConfig(sensors uint8) (uint8, error) {
	seq := s.nextSeq()
	req := newCommandRequest(seq, cmdCalConfig)
	if sensors&CalAccel != 0 {
		req[3] = 1
	}
	if sensors&CalGyro != 0 {
		req[4] = 1
	}
	if sensors&CalMag != 0 {
		req[5] = 1
	}
	if err := s.sendCommand(req); err != nil {
		return 0, err
	}
	resp, err := s.readCommandResponse(cmdCalConfig, seq)
	if err != nil {
		return 0, err
	}
	return resp[5], nil
}

// RvSync issues SH_CR_RV_SYNC. Fire-and-forget.
func (s *Session) RvSync(op RvSyncOp) error {
	seq := s.nextSeq()
	req := newCommandRequest(seq, cmdRvSync)
	req[3] = byte(op)
	return s.sendCommand(req)
}
