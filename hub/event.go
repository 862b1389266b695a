// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hub

import "github.com/hcrest/bno070-driver/hub/internal/wire"

// SensorID names a hub sensor or detector. Values below 0x80 are valid
// sensor-event report ids.
type SensorID uint8

// Valid values for SensorID.
const (
	SensorAccelerometer           SensorID = 0x01
	SensorGyroscopeCalibrated     SensorID = 0x02
	SensorMagneticFieldCalibrated SensorID = 0x03
	SensorLinearAcceleration      SensorID = 0x04
	SensorRotationVector          SensorID = 0x05
	SensorGravity                 SensorID = 0x06
	SensorGyroscopeUncalibrated   SensorID = 0x07
	SensorGameRotationVector      SensorID = 0x08
	SensorGeomagRotationVector    SensorID = 0x09
	SensorPressure                SensorID = 0x0a
	SensorAmbientLight            SensorID = 0x0b
	SensorHumidity                SensorID = 0x0c
	SensorProximity               SensorID = 0x0d
	SensorTemperature             SensorID = 0x0e
	SensorMagneticFieldUncal      SensorID = 0x0f
	SensorTapDetector             SensorID = 0x10
	SensorStepCounter             SensorID = 0x11
	SensorSignificantMotion       SensorID = 0x12
	SensorActivityClassification  SensorID = 0x13
	SensorRawAccelerometer        SensorID = 0x14
	SensorRawGyroscope            SensorID = 0x15
	SensorRawMagnetometer         SensorID = 0x16
	SensorSAR                     SensorID = 0x17
	SensorStepDetector            SensorID = 0x18
	SensorShakeDetector           SensorID = 0x19
	SensorFlipDetector            SensorID = 0x1a
	SensorPickupDetector          SensorID = 0x1b
	SensorStabilityDetector       SensorID = 0x1c
	SensorPersonalActivityClass   SensorID = 0x1e
	SensorSleepDetector           SensorID = 0x1f
)

// StepCounterData is the payload of a SensorStepCounter event.
type StepCounterData struct {
	DetectLatency uint32
	Steps         uint16
	Reserved      uint16
}

// Event is one decoded sensor-event report.
type Event struct {
	Sensor         SensorID
	SequenceNumber uint8
	Status         uint8
	Delay          uint8
	TimeUS         uint64

	// Field16 holds the payload for every layout expressed as a run of
	// little-endian int16 words (accelerometer, gyroscope, rotation
	// vectors, and the single-word humidity/proximity/temperature family).
	Field16 [6]int16
	// Field32 holds the payload for the pressure/ambient-light/step-detector
	// family.
	Field32 [1]uint32
	// RawTimestamp is the trailing 32-bit timestamp word carried by the raw
	// accelerometer/gyroscope/magnetometer reports.
	RawTimestamp uint32
	// StepCounter holds the payload for SensorStepCounter events.
	StepCounter StepCounterData
}

// Accuracy returns the event's accuracy field, status bits 1..0.
func (e Event) Accuracy() uint8 {
	return e.Status & 0x03
}

// DelayMicroseconds returns the event's delay (significand shifted by the
// exponent in status bits 4..2).
func (e Event) DelayMicroseconds() uint32 {
	return uint32(e.Delay) << ((e.Status >> 2) & 0x07)
}

// eventDecoder reconstructs the hub's 64-bit host time base from per-event
// 32-bit ISR timestamps. It is per-session state; the reference
// implementation incorrectly shared this process-wide.
type eventDecoder struct {
	lastTS uint32
	accUS  uint64
}

// minDataLen returns the minimum body length (after sequenceNumber, status,
// delay) required for a sensor's layout, or -1 if the sensor has no known
// layout.
func minDataLen(s SensorID) int {
	switch s {
	case SensorHumidity, SensorProximity, SensorTemperature, SensorSignificantMotion,
		SensorShakeDetector, SensorFlipDetector, SensorPickupDetector, SensorStabilityDetector:
		return 2
	case SensorPressure, SensorAmbientLight, SensorStepDetector:
		return 4
	case SensorRawAccelerometer, SensorRawGyroscope, SensorRawMagnetometer:
		return 12
	case SensorAccelerometer, SensorLinearAcceleration, SensorGravity,
		SensorGyroscopeCalibrated, SensorMagneticFieldCalibrated:
		return 6
	case SensorGameRotationVector:
		return 8
	case SensorRotationVector, SensorGeomagRotationVector:
		return 10
	case SensorGyroscopeUncalibrated, SensorMagneticFieldUncal:
		return 12
	case SensorStepCounter:
		return 8
	default:
		return -1
	}
}

// decode parses a raw sensor-event report (reportId < 0x80) captured at ISR
// timestamp ts. report[0] is the report id; report[1:] is the body.
//
// Validation happens before any decoder state is mutated: a malformed
// report must leave the timestamp accumulator untouched.
func (d *eventDecoder) decode(report []byte, ts uint32) (Event, error) {
	if len(report) < 4 {
		return Event{}, StatusBadReport
	}
	reportID := report[0]
	if reportID >= 0x80 {
		return Event{}, StatusBadReport
	}
	sensor := SensorID(reportID)
	data := report[4:]
	need := minDataLen(sensor)
	if need < 0 || len(data) < need {
		return Event{}, StatusBadReport
	}

	seq := report[1]
	status := report[2]
	delaySig := report[3]

	delta := int32(ts - d.lastTS)
	d.lastTS = ts
	d.accUS += uint64(delta)

	e := Event{
		Sensor:         sensor,
		SequenceNumber: seq,
		Status:         status,
		Delay:          delaySig,
	}
	e.TimeUS = d.accUS - uint64(e.DelayMicroseconds())

	switch sensor {
	case SensorHumidity, SensorProximity, SensorTemperature, SensorSignificantMotion,
		SensorShakeDetector, SensorFlipDetector, SensorPickupDetector, SensorStabilityDetector:
		e.Field16[0] = wire.ReadI16(data[0:2])

	case SensorPressure, SensorAmbientLight, SensorStepDetector:
		e.Field32[0] = wire.Read32(data[0:4])

	case SensorRawAccelerometer, SensorRawGyroscope, SensorRawMagnetometer:
		e.Field16[0] = wire.ReadI16(data[0:2])
		e.Field16[1] = wire.ReadI16(data[2:4])
		e.Field16[2] = wire.ReadI16(data[4:6])
		e.Field16[3] = wire.ReadI16(data[6:8])
		e.RawTimestamp = wire.Read32(data[8:12])

	case SensorAccelerometer, SensorLinearAcceleration, SensorGravity,
		SensorGyroscopeCalibrated, SensorMagneticFieldCalibrated:
		e.Field16[0] = wire.ReadI16(data[0:2])
		e.Field16[1] = wire.ReadI16(data[2:4])
		e.Field16[2] = wire.ReadI16(data[4:6])

	case SensorGameRotationVector:
		e.Field16[0] = wire.ReadI16(data[0:2])
		e.Field16[1] = wire.ReadI16(data[2:4])
		e.Field16[2] = wire.ReadI16(data[4:6])
		e.Field16[3] = wire.ReadI16(data[6:8])

	case SensorRotationVector, SensorGeomagRotationVector:
		e.Field16[0] = wire.ReadI16(data[0:2])
		e.Field16[1] = wire.ReadI16(data[2:4])
		e.Field16[2] = wire.ReadI16(data[4:6])
		e.Field16[3] = wire.ReadI16(data[6:8])
		e.Field16[4] = wire.ReadI16(data[8:10])

	case SensorGyroscopeUncalibrated, SensorMagneticFieldUncal:
		e.Field16[0] = wire.ReadI16(data[0:2])
		e.Field16[1] = wire.ReadI16(data[2:4])
		e.Field16[2] = wire.ReadI16(data[4:6])
		e.Field16[3] = wire.ReadI16(data[6:8])
		e.Field16[4] = wire.ReadI16(data[8:10])
		e.Field16[5] = wire.ReadI16(data[10:12])

	case SensorStepCounter:
		e.StepCounter = StepCounterData{
			DetectLatency: wire.Read32(data[0:4]),
			Steps:         wire.Read16(data[4:6]),
			Reserved:      wire.Read16(data[6:8]),
		}
	}

	return e, nil
}
