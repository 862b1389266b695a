// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wire

import "testing"

func TestCRC16(t *testing.T) {
	if got := CRC16([]byte("123456789")); got != 0x29B1 {
		t.Fatalf("CRC16(\"123456789\") = 0x%04x, want 0x29b1", got)
	}
}

func TestReadWrite16(t *testing.T) {
	b := make([]byte, 2)
	Write16(b, 0xBEEF)
	if got := Read16(b); got != 0xBEEF {
		t.Fatalf("Read16() = 0x%04x, want 0xbeef", got)
	}
}

func TestReadWrite32(t *testing.T) {
	b := make([]byte, 4)
	Write32(b, 0xDEADBEEF)
	if got := Read32(b); got != 0xDEADBEEF {
		t.Fatalf("Read32() = 0x%08x, want 0xdeadbeef", got)
	}
}

func TestReadWrite32BE(t *testing.T) {
	b := make([]byte, 4)
	Write32BE(b, 0xDEADBEEF)
	if got := Read32BE(b); got != 0xDEADBEEF {
		t.Fatalf("Read32BE() = 0x%08x, want 0xdeadbeef", got)
	}
	if b[0] != 0xDE || b[3] != 0xEF {
		t.Fatalf("Write32BE() byte order = %x, want big-endian", b)
	}
}
