// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hub

// Metadata FRS record ids, one per sensor.
const (
	metaRawAccelerometer           uint16 = 0xE301
	metaAccelerometer              uint16 = 0xE302
	metaLinearAcceleration         uint16 = 0xE303
	metaGravity                    uint16 = 0xE304
	metaRawGyroscope                uint16 = 0xE305
	metaGyroscopeCalibrated        uint16 = 0xE306
	metaGyroscopeUncalibrated      uint16 = 0xE307
	metaRawMagnetometer            uint16 = 0xE308
	metaMagneticFieldCalibrated    uint16 = 0xE309
	metaMagneticFieldUncalibrated  uint16 = 0xE30A
	metaRotationVector             uint16 = 0xE30B
	metaGameRotationVector         uint16 = 0xE30C
	metaGeomagRotationVector       uint16 = 0xE30D
	metaPressure                   uint16 = 0xE30E
	metaAmbientLight               uint16 = 0xE30F
	metaHumidity                   uint16 = 0xE310
	metaProximity                  uint16 = 0xE311
	metaTemperature                uint16 = 0xE312
	metaTapDetector                uint16 = 0xE313
	metaStepDetector                uint16 = 0xE314
	metaStepCounter                 uint16 = 0xE315
	metaSignificantMotion           uint16 = 0xE316
	metaActivityClassification     uint16 = 0xE317
	metaShakeDetector               uint16 = 0xE318
	metaFlipDetector                uint16 = 0xE319
	metaPickupDetector              uint16 = 0xE31A
	metaStabilityDetector           uint16 = 0xE31B
	metaPersonalActivityClassifier  uint16 = 0xE31C
	metaSleepDetector               uint16 = 0xE31D
)

var sensorToRecordID = map[SensorID]uint16{
	SensorRawAccelerometer:        metaRawAccelerometer,
	SensorAccelerometer:           metaAccelerometer,
	SensorLinearAcceleration:      metaLinearAcceleration,
	SensorGravity:                 metaGravity,
	SensorRawGyroscope:            metaRawGyroscope,
	SensorGyroscopeCalibrated:     metaGyroscopeCalibrated,
	SensorGyroscopeUncalibrated:   metaGyroscopeUncalibrated,
	SensorRawMagnetometer:         metaRawMagnetometer,
	SensorMagneticFieldCalibrated: metaMagneticFieldCalibrated,
	SensorMagneticFieldUncal:      metaMagneticFieldUncalibrated,
	SensorRotationVector:          metaRotationVector,
	SensorGameRotationVector:      metaGameRotationVector,
	SensorGeomagRotationVector:    metaGeomagRotationVector,
	SensorPressure:                metaPressure,
	SensorAmbientLight:            metaAmbientLight,
	SensorHumidity:                metaHumidity,
	SensorProximity:               metaProximity,
	SensorTemperature:             metaTemperature,
	SensorTapDetector:             metaTapDetector,
	SensorStepDetector:            metaStepDetector,
	SensorStepCounter:             metaStepCounter,
	SensorSignificantMotion:       metaSignificantMotion,
	SensorActivityClassification:  metaActivityClassification,
	SensorShakeDetector:           metaShakeDetector,
	SensorFlipDetector:            metaFlipDetector,
	SensorPickupDetector:          metaPickupDetector,
	SensorStabilityDetector:       metaStabilityDetector,
	SensorPersonalActivityClass:   metaPersonalActivityClassifier,
	SensorSleepDetector:           metaSleepDetector,
}

// maxMetadataWords bounds the FRS read used to fetch a metadata record; the
// largest known record (revision 2, full sensor-specific payload) fits well
// within it.
const maxMetadataWords = 72

// SensorMetadata describes a sensor's static capabilities and calibration
// parameters, as stored in its FRS metadata record.
type SensorMetadata struct {
	MeVersion  uint8
	MhVersion  uint8
	ShVersion  uint8
	Range      uint32
	Resolution uint32
	PowerMA    uint16 // Q10 fixed point
	Revision   uint16

	MinPeriodUS     uint32
	FifoMax         uint16
	FifoReserved    uint16
	BatchBufferBytes uint16

	VendorID string

	// QPoint1/QPoint2 are populated for revision 1 and 2 records only.
	QPoint1 uint16
	QPoint2 uint16

	// SensorSpecific is populated for revision 2 records only.
	SensorSpecific []byte
}

// GetMetadata fetches sensorId's FRS metadata record and unpacks it.
func (s *Session) GetMetadata(sensorID SensorID) (SensorMetadata, error) {
	recordID, ok := sensorToRecordID[sensorID]
	if !ok {
		return SensorMetadata{}, StatusBadParam
	}

	frs := make([]uint32, maxMetadataWords)
	n, err := s.GetFrs(recordID, frs)
	if err != nil {
		return SensorMetadata{}, err
	}
	if n < 7 {
		return SensorMetadata{}, StatusBadReport
	}

	var m SensorMetadata
	m.MeVersion = uint8(frs[0])
	m.MhVersion = uint8(frs[0] >> 8)
	m.ShVersion = uint8(frs[0] >> 16)
	m.Range = frs[1]
	m.Resolution = frs[2]
	m.PowerMA = uint16(frs[3])
	m.Revision = uint16(frs[3] >> 16)
	m.MinPeriodUS = frs[4]
	m.FifoMax = uint16(frs[5])
	m.FifoReserved = uint16(frs[5] >> 16)
	m.BatchBufferBytes = uint16(frs[6])
	vendorIDLen := int(frs[6] >> 16)

	switch m.Revision {
	case 0:
		if vendorIDLen > 0 {
			if 7+wordsFor(vendorIDLen) > n {
				return SensorMetadata{}, StatusBadParam
			}
			m.VendorID = extractString(frs[7:], vendorIDLen)
		}
	case 1:
		if 8 > n {
			return SensorMetadata{}, StatusBadReport
		}
		m.QPoint1 = uint16(frs[7])
		m.QPoint2 = uint16(frs[7] >> 16)
		if vendorIDLen > 0 {
			if 8+wordsFor(vendorIDLen) > n {
				return SensorMetadata{}, StatusBadParam
			}
			m.VendorID = extractString(frs[8:], vendorIDLen)
		}
	case 2:
		if 9 > n {
			return SensorMetadata{}, StatusBadReport
		}
		m.QPoint1 = uint16(frs[7])
		m.QPoint2 = uint16(frs[7] >> 16)
		sensorSpecificLen := int(frs[8])
		if 9+wordsFor(sensorSpecificLen) > n {
			return SensorMetadata{}, StatusBadParam
		}
		m.SensorSpecific = extractBytes(frs[9:], sensorSpecificLen)
		vendorIDOffset := 9 + wordsFor(sensorSpecificLen)
		if vendorIDLen > 0 {
			if vendorIDOffset+wordsFor(vendorIDLen) > n {
				return SensorMetadata{}, StatusBadParam
			}
			m.VendorID = extractString(frs[vendorIDOffset:], vendorIDLen)
		}
	}

	return m, nil
}

// wordsFor returns the number of 32-bit words needed to hold n bytes.
func wordsFor(n int) int {
	return (n + 3) / 4
}

func extractBytes(words []uint32, n int) []byte {
	buf := make([]byte, wordsFor(n)*4)
	for i, w := range words[:wordsFor(n)] {
		buf[4*i] = byte(w)
		buf[4*i+1] = byte(w >> 8)
		buf[4*i+2] = byte(w >> 16)
		buf[4*i+3] = byte(w >> 24)
	}
	return buf[:n]
}

func extractString(words []uint32, n int) string {
	b := extractBytes(words, n)
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
