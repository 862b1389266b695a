// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hub

import "github.com/hcrest/bno070-driver/hub/internal/wire"

// Sensor config feature-report flag bits.
const (
	flagChangeSensitivityRelative = 0x01
	flagChangeSensitivityEnabled  = 0x02
	flagWakeupEnabled             = 0x04
)

// SensorConfig is a sensor's feature report: enable/behavior flags plus
// reporting parameters.
type SensorConfig struct {
	ChangeSensitivityRelative bool
	ChangeSensitivityEnabled  bool
	WakeupEnabled             bool
	ChangeSensitivity         uint16
	ReportIntervalUS          uint32
	Reserved                  uint32
	SensorSpecific            uint32
}

// GetSensorConfig performs GET_REPORT on the FEATURE report whose report id
// equals sensorId and unpacks it into a SensorConfig.
func (s *Session) GetSensorConfig(sensorID SensorID) (SensorConfig, error) {
	payload, err := s.t.getReport(reportTypeFeature, byte(sensorID))
	if err != nil {
		return SensorConfig{}, err
	}
	// payload[0] is the echoed report id; the 16-byte feature report's
	// remaining bytes are flags, changeSensitivity, reportInterval,
	// reserved, sensorSpecific.
	if len(payload) != 16 || payload[0] != byte(sensorID) {
		return SensorConfig{}, StatusBadReport
	}
	flags := payload[1]
	return SensorConfig{
		ChangeSensitivityRelative: flags&flagChangeSensitivityRelative != 0,
		ChangeSensitivityEnabled:  flags&flagChangeSensitivityEnabled != 0,
		WakeupEnabled:             flags&flagWakeupEnabled != 0,
		ChangeSensitivity:         wire.Read16(payload[2:4]),
		ReportIntervalUS:          wire.Read32(payload[4:8]),
		Reserved:                  wire.Read32(payload[8:12]),
		SensorSpecific:            wire.Read32(payload[12:16]),
	}, nil
}

// SetSensorConfig performs SET_REPORT on the FEATURE report for sensorId.
func (s *Session) SetSensorConfig(sensorID SensorID, cfg SensorConfig) error {
	payload := make([]byte, 16)
	var flags byte
	if cfg.ChangeSensitivityRelative {
		flags |= flagChangeSensitivityRelative
	}
	if cfg.ChangeSensitivityEnabled {
		flags |= flagChangeSensitivityEnabled
	}
	if cfg.WakeupEnabled {
		flags |= flagWakeupEnabled
	}
	payload[0] = flags
	wire.Write16(payload[1:3], cfg.ChangeSensitivity)
	wire.Write32(payload[3:7], cfg.ReportIntervalUS)
	wire.Write32(payload[7:11], cfg.Reserved)
	wire.Write32(payload[11:15], cfg.SensorSpecific)
	return s.t.setReport(reportTypeFeature, byte(sensorID), payload[:15])
}
