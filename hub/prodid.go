// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hub

import "github.com/hcrest/bno070-driver/hub/internal/wire"

const (
	reportProductIDRequest  = 0x80
	reportProductIDResponse = 0x81
)

// numProductIDs is the fixed number of product-id records the hub always
// returns: one for the bootloader and one for each firmware component.
const numProductIDs = 4

// ProductID is one entry in the product-id response stream.
type ProductID struct {
	ResetCause     uint8
	SWVersionMajor uint8
	SWVersionMinor uint8
	SWVersionPatch uint16
	SWPartNumber   uint32
	SWBuildNumber  uint32
}

// GetProdIds sends SH_PRODUCT_ID_REQUEST and collects the four
// SH_PRODUCT_ID_RESPONSE reports the hub always replies with.
func (s *Session) GetProdIds() ([numProductIDs]ProductID, error) {
	var out [numProductIDs]ProductID

	req := make([]byte, 2)
	req[0] = reportProductIDRequest
	if err := s.t.setOutReport(req); err != nil {
		return out, err
	}

	buf := make([]byte, maxReportLen)
	for n := 0; n < numProductIDs; {
		got, err := s.t.in(buf, pollInterval, false)
		if err != nil {
			return out, err
		}
		if got != 16 || buf[0] != reportProductIDResponse {
			continue
		}
		out[n] = ProductID{
			ResetCause:     buf[1],
			SWVersionMajor: buf[2],
			SWVersionMinor: buf[3],
			SWPartNumber:   wire.Read32(buf[4:8]),
			SWBuildNumber:  wire.Read32(buf[8:12]),
			SWVersionPatch: wire.Read16(buf[12:14]),
		}
		n++
	}
	return out, nil
}
