// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hub

import "github.com/hcrest/bno070-driver/hub/internal/wire"

// maxPacketLen is the largest application-data chunk one DFU packet carries;
// each packet grows by two bytes of trailing CRC on the wire.
const maxPacketLen = 64

const dfuAck = 's'

// fwFormatKey names the HcBin metadata key PerformDfu checks before
// streaming any firmware data.
const fwFormatKey = "FW-Format"

// fwFormatValue is the only accepted value of fwFormatKey.
const fwFormatValue = "BNO_V1"

// PerformDfu resets the hub behind p into its bootloader and streams blob's
// application image to it over a CRC-16/CCITT-framed packet protocol that bypasses HID
// framing entirely: the hub is not running application firmware (and so has
// no HID transport) while DFU is in progress. Platform p is used directly
// for reset and raw I²C; no Session is involved.
func PerformDfu(p Platform, blob FirmwareBlob) error {
	if err := blob.Open(); err != nil {
		return err
	}

	format, ok := blob.Meta(fwFormatKey)
	if !ok || format != fwFormatValue {
		blob.Close()
		return StatusInvalidHcBin
	}

	appLen := blob.AppLen()
	packetLen := blob.PacketLen()
	if packetLen == 0 || packetLen > maxPacketLen {
		packetLen = maxPacketLen
	}

	if err := p.ResetDFU(); err != nil {
		blob.Close()
		return err
	}

	lenPacket := make([]byte, 4)
	wire.Write32BE(lenPacket, appLen)
	if err := dfuSend(p, lenPacket); err != nil {
		blob.Close()
		return err
	}

	if err := dfuSend(p, []byte{byte(packetLen)}); err != nil {
		blob.Close()
		return err
	}

	buf := make([]byte, packetLen)
	for offset := uint32(0); offset < appLen; offset += packetLen {
		toSend := packetLen
		if remain := appLen - offset; remain < toSend {
			toSend = remain
		}
		chunk := buf[:toSend]
		if err := blob.AppData(chunk, offset); err != nil {
			blob.Close()
			return err
		}
		if err := dfuSend(p, chunk); err != nil {
			blob.Close()
			return err
		}
	}

	// Close the blob before the unbounded watchdog-reset wait, matching the
	// reference's close-then-wait ordering rather than holding it open across
	// the wait via a deferred close.
	blob.Close()
	p.WaitINTN(WaitForever)
	return nil
}

// dfuSend appends a CRC-16/CCITT-FALSE trailer to packet, writes it over raw
// I²C, then reads and checks the single-byte ACK.
func dfuSend(p Platform, packet []byte) error {
	framed := make([]byte, len(packet)+2)
	copy(framed, packet)
	crc := wire.CRC16(packet)
	framed[len(packet)] = byte(crc >> 8)
	framed[len(packet)+1] = byte(crc)

	if err := p.I2C(framed, nil); err != nil {
		return StatusErrorI2CIO
	}
	ack := make([]byte, 1)
	if err := p.I2C(nil, ack); err != nil {
		return StatusErrorI2CIO
	}
	if ack[0] != dfuAck {
		return StatusNack
	}
	return nil
}
