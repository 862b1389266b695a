// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hubtest

import "github.com/hcrest/bno070-driver/hub"

// FakeBlob is a hub.FirmwareBlob backed by an in-memory image, for DFU
// tests that don't need a real file.
type FakeBlob struct {
	Data   []byte
	Format string
	Packet uint32

	Opened bool
	Closed bool
}

var _ hub.FirmwareBlob = (*FakeBlob)(nil)

func (b *FakeBlob) Open() error {
	b.Opened = true
	return nil
}

func (b *FakeBlob) Close() error {
	b.Closed = true
	return nil
}

func (b *FakeBlob) Meta(key string) (string, bool) {
	if key == "FW-Format" {
		return b.Format, true
	}
	return "", false
}

func (b *FakeBlob) AppLen() uint32 {
	return uint32(len(b.Data))
}

func (b *FakeBlob) PacketLen() uint32 {
	return b.Packet
}

func (b *FakeBlob) AppData(buf []byte, offset uint32) error {
	copy(buf, b.Data[offset:])
	return nil
}
