// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hub

import "fmt"

// Status is the error kind returned by hub operations. The numeric values
// match the reference driver's sh_Status_e so diagnostics captured against
// either implementation line up.
type Status int32

// Valid values for Status.
const (
	StatusSuccess Status = 0
	StatusError   Status = -1
	// StatusBadParam indicates an invalid argument to an API call.
	StatusBadParam Status = -2
	// StatusHubError indicates the hub reported an error status byte.
	StatusHubError Status = -3
	// StatusBadReport indicates a malformed or unexpected report.
	StatusBadReport Status = -4
	// StatusErrorI2CIO indicates the platform I²C transfer failed.
	StatusErrorI2CIO Status = -5
	// StatusNoData indicates a wait timed out with nothing to report.
	StatusNoData Status = -6

	StatusFrsReadBadOffset         Status = -100
	StatusFrsReadBadLength         Status = -101
	StatusFrsReadBadType           Status = -102
	StatusFrsReadUnrecognized      Status = -103
	StatusFrsReadBusy              Status = -104
	StatusFrsReadDeviceError       Status = -105
	StatusFrsReadUnknownError      Status = -106
	StatusFrsReadEmpty             Status = -107
	StatusFrsReadOffsetOutOfRange  Status = -108
	StatusFrsReadUnexpectedLength  Status = -109

	StatusFrsWriteBusy          Status = -200
	StatusFrsWriteBadType       Status = -201
	StatusFrsWriteBadLength     Status = -202
	StatusFrsWriteDeviceError   Status = -203
	StatusFrsWriteBadStatus     Status = -204
	StatusFrsWriteBadMode       Status = -205
	StatusFrsWriteFailed        Status = -206
	StatusFrsWriteReadOnly      Status = -207
	StatusFrsWriteInvalidRecord Status = -208
	StatusFrsWriteNotEnough     Status = -209

	StatusInvalidHcBin Status = -400
	StatusNack         Status = -401
)

var statusNames = map[Status]string{
	StatusSuccess:                  "success",
	StatusError:                    "error",
	StatusBadParam:                 "bad parameter",
	StatusHubError:                 "hub reported error",
	StatusBadReport:                "bad report",
	StatusErrorI2CIO:               "i2c i/o error",
	StatusNoData:                   "no data",
	StatusFrsReadBadOffset:         "frs read: bad offset",
	StatusFrsReadBadLength:         "frs read: bad length",
	StatusFrsReadBadType:           "frs read: bad type",
	StatusFrsReadUnrecognized:      "frs read: unrecognized record",
	StatusFrsReadBusy:              "frs read: busy",
	StatusFrsReadDeviceError:       "frs read: device error",
	StatusFrsReadUnknownError:      "frs read: unknown error",
	StatusFrsReadEmpty:             "frs read: empty",
	StatusFrsReadOffsetOutOfRange:  "frs read: offset out of range",
	StatusFrsReadUnexpectedLength:  "frs read: unexpected length",
	StatusFrsWriteBusy:             "frs write: busy",
	StatusFrsWriteBadType:          "frs write: bad type",
	StatusFrsWriteBadLength:        "frs write: bad length",
	StatusFrsWriteDeviceError:      "frs write: device error",
	StatusFrsWriteBadStatus:        "frs write: bad status",
	StatusFrsWriteBadMode:          "frs write: bad mode",
	StatusFrsWriteFailed:           "frs write: failed",
	StatusFrsWriteReadOnly:         "frs write: read-only record",
	StatusFrsWriteInvalidRecord:    "frs write: invalid record",
	StatusFrsWriteNotEnough:        "frs write: hub terminated early",
	StatusInvalidHcBin:             "dfu: invalid firmware image",
	StatusNack:                     "dfu: nack",
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// Error implements error so a Status can be returned and compared directly.
func (s Status) Error() string {
	return s.String()
}

// frsReadStatus maps the low nibble of an FRS_READ_RESPONSE status byte to
// a Status. Terminal values (RecordCompleted, BlockCompleted, BothCompleted)
// are handled by the caller, not here.
func frsReadStatus(code byte) Status {
	switch code {
	case 1:
		return StatusFrsReadUnrecognized
	case 2:
		return StatusFrsReadBusy
	case 4:
		return StatusFrsReadOffsetOutOfRange
	case 8:
		return StatusFrsReadDeviceError
	default:
		return StatusFrsReadUnknownError
	}
}

// frsWriteStatus maps an FRS_WRITE_RESPONSE status byte to a Status.
func frsWriteStatus(code byte) Status {
	switch code {
	case 1:
		return StatusFrsWriteBadType
	case 2:
		return StatusFrsWriteBusy
	case 5:
		return StatusFrsWriteFailed
	case 6:
		return StatusFrsWriteBadMode
	case 7:
		return StatusFrsWriteBadLength
	case 9:
		return StatusFrsWriteInvalidRecord
	case 10:
		return StatusFrsWriteDeviceError
	case 11:
		return StatusFrsWriteReadOnly
	default:
		return StatusFrsWriteBadStatus
	}
}
