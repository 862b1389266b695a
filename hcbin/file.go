// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hcbin implements hub.FirmwareBlob by reading a Hillcrest Binary
// (.hcbin) firmware image from disk.
//
// File layout (all integers little-endian):
//
//	4 bytes  magic "HCB1"
//	2 bytes  format string length
//	N bytes  format string (e.g. "BNO_V1")
//	4 bytes  packet length (0 lets the DFU engine pick its default)
//	4 bytes  application data length
//	N bytes  application data
package hcbin

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/hcrest/bno070-driver/hub"
)

var magic = [4]byte{'H', 'C', 'B', '1'}

// File is a hub.FirmwareBlob backed by a .hcbin file on disk.
type File struct {
	path string

	f         *os.File
	format    string
	packetLen uint32
	dataStart int64
	appLen    uint32
}

var _ hub.FirmwareBlob = (*File)(nil)

// New returns a File reading from path. The file is not opened until Open
// is called.
func New(path string) *File {
	return &File{path: path}
}

// Open reads and validates the file header.
func (f *File) Open() error {
	file, err := os.Open(f.path)
	if err != nil {
		return err
	}
	r := bufio.NewReader(file)

	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		file.Close()
		return err
	}
	if gotMagic != magic {
		file.Close()
		return fmt.Errorf("hcbin: %s: bad magic", f.path)
	}

	var formatLen uint16
	if err := binary.Read(r, binary.LittleEndian, &formatLen); err != nil {
		file.Close()
		return err
	}
	formatBuf := make([]byte, formatLen)
	if _, err := io.ReadFull(r, formatBuf); err != nil {
		file.Close()
		return err
	}

	var packetLen, appLen uint32
	if err := binary.Read(r, binary.LittleEndian, &packetLen); err != nil {
		file.Close()
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &appLen); err != nil {
		file.Close()
		return err
	}

	pos, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		file.Close()
		return err
	}
	// r may have buffered past the header; rewind to the exact data start.
	dataStart := pos - int64(r.Buffered())

	f.f = file
	f.format = string(formatBuf)
	f.packetLen = packetLen
	f.appLen = appLen
	f.dataStart = dataStart
	return nil
}

// Close releases the underlying file.
func (f *File) Close() error {
	if f.f == nil {
		return nil
	}
	err := f.f.Close()
	f.f = nil
	return err
}

// Meta returns the image's format string under key "FW-Format"; no other
// keys are recognized.
func (f *File) Meta(key string) (string, bool) {
	if key == "FW-Format" {
		return f.format, true
	}
	return "", false
}

// AppLen returns the application image size in bytes.
func (f *File) AppLen() uint32 {
	return f.appLen
}

// PacketLen returns the image's suggested packet size.
func (f *File) PacketLen() uint32 {
	return f.packetLen
}

// AppData fills buf with application data starting at offset.
func (f *File) AppData(buf []byte, offset uint32) error {
	_, err := f.f.ReadAt(buf, f.dataStart+int64(offset))
	return err
}
