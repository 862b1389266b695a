// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hub

import "testing"

func TestStatusString(t *testing.T) {
	cases := []struct {
		s    Status
		want string
	}{
		{StatusSuccess, "success"},
		{StatusNoData, "no data"},
		{StatusFrsWriteNotEnough, "frs write: hub terminated early"},
		{Status(12345), "Status(12345)"},
	}
	for _, c := range cases {
		if got := c.s.String(); got != c.want {
			t.Errorf("Status(%d).String() = %q, want %q", c.s, got, c.want)
		}
		if got := c.s.Error(); got != c.want {
			t.Errorf("Status(%d).Error() = %q, want %q", c.s, got, c.want)
		}
	}
}

func TestFrsReadStatus(t *testing.T) {
	cases := []struct {
		code byte
		want Status
	}{
		{1, StatusFrsReadUnrecognized},
		{2, StatusFrsReadBusy},
		{4, StatusFrsReadOffsetOutOfRange},
		{8, StatusFrsReadDeviceError},
		{99, StatusFrsReadUnknownError},
	}
	for _, c := range cases {
		if got := frsReadStatus(c.code); got != c.want {
			t.Errorf("frsReadStatus(%d) = %v, want %v", c.code, got, c.want)
		}
	}
}

func TestFrsWriteStatus(t *testing.T) {
	cases := []struct {
		code byte
		want Status
	}{
		{1, StatusFrsWriteBadType},
		{2, StatusFrsWriteBusy},
		{5, StatusFrsWriteFailed},
		{6, StatusFrsWriteBadMode},
		{7, StatusFrsWriteBadLength},
		{9, StatusFrsWriteInvalidRecord},
		{10, StatusFrsWriteDeviceError},
		{11, StatusFrsWriteReadOnly},
		{42, StatusFrsWriteBadStatus},
	}
	for _, c := range cases {
		if got := frsWriteStatus(c.code); got != c.want {
			t.Errorf("frsWriteStatus(%d) = %v, want %v", c.code, got, c.want)
		}
	}
}
