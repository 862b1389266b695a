// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hub_test

import (
	"testing"
	"time"

	"github.com/hcrest/bno070-driver/hub"
	"github.com/hcrest/bno070-driver/hubtest"
)

// framed prepends the two-byte length-including-itself prefix HID-over-I²C
// reads use, matching hubtest.FakePlatform's raw-recv expectations.
func framed(body []byte) []byte {
	out := make([]byte, 2+len(body))
	n := uint16(len(out))
	out[0] = byte(n)
	out[1] = byte(n >> 8)
	copy(out[2:], body)
	return out
}

// openFake opens a session against fp. Every IntnAsserted script in this
// file carries a leading false: Session.Open discards the mandatory
// post-reset zero report via the very same WaitINTN/IntnAsserted sequence
// later calls consume from, so the boot path always eats the script's first
// entry before a test's own operation gets to see the rest.
func openFake(t *testing.T, fp *hubtest.FakePlatform) *hub.Session {
	t.Helper()
	s, err := hub.Open(0, fp)
	if err != nil {
		t.Fatalf("hub.Open: %v", err)
	}
	if fp.Resets != 1 {
		t.Fatalf("Resets = %d, want 1", fp.Resets)
	}
	return s
}

func TestOpenResetsPlatform(t *testing.T) {
	fp := &hubtest.FakePlatform{}
	openFake(t, fp)
}

func TestGetEventTODecodesAccelerometer(t *testing.T) {
	fp := &hubtest.FakePlatform{
		IntnAsserted: []bool{false, true},
		Ops: []hubtest.IO{
			{Recv: framed([]byte{
				byte(hub.SensorAccelerometer), 7, 0, 0,
				0x64, 0x00, // 100
				0x9c, 0xff, // -100
				0x00, 0x00,
			})},
		},
	}
	s := openFake(t, fp)

	e, err := s.GetEventTO(time.Second)
	if err != nil {
		t.Fatalf("GetEventTO: %v", err)
	}
	if e.Sensor != hub.SensorAccelerometer || e.SequenceNumber != 7 {
		t.Fatalf("GetEventTO() = %+v", e)
	}
	want := [6]int16{100, -100, 0, 0, 0, 0}
	if e.Field16 != want {
		t.Errorf("Field16 = %v, want %v", e.Field16, want)
	}
}

func TestGetEventTOTimesOut(t *testing.T) {
	fp := &hubtest.FakePlatform{}
	s := openFake(t, fp)
	if _, err := s.GetEventTO(time.Millisecond); err != hub.StatusNoData {
		t.Fatalf("GetEventTO() = %v, want StatusNoData", err)
	}
}

func prodIDResponse(n int) []byte {
	body := make([]byte, 15)
	body[0] = byte(n) // ResetCause, distinguishes replies in the test
	return framed(append([]byte{0x81}, body...))
}

func TestGetProdIds(t *testing.T) {
	fp := &hubtest.FakePlatform{
		IntnAsserted: []bool{false, true, true, true, true},
		Ops: []hubtest.IO{
			{}, // the SH_PRODUCT_ID_REQUEST SET_REPORT
			{Recv: prodIDResponse(0)},
			{Recv: prodIDResponse(1)},
			{Recv: prodIDResponse(2)},
			{Recv: prodIDResponse(3)},
		},
	}
	s := openFake(t, fp)

	ids, err := s.GetProdIds()
	if err != nil {
		t.Fatalf("GetProdIds: %v", err)
	}
	for i, id := range ids {
		if int(id.ResetCause) != i {
			t.Errorf("ids[%d].ResetCause = %d, want %d", i, id.ResetCause, i)
		}
	}
}

func TestTareNowSendsCommand(t *testing.T) {
	fp := &hubtest.FakePlatform{
		Ops: []hubtest.IO{{}},
	}
	s := openFake(t, fp)
	if err := s.TareNow(hub.TareAxisX|hub.TareAxisY|hub.TareAxisZ, hub.TareBasisRotationVector); err != nil {
		t.Fatalf("TareNow: %v", err)
	}
	if !fp.Done() {
		t.Errorf("script not fully consumed")
	}
}

func TestTareClearSendsZeroOrientation(t *testing.T) {
	fp := &hubtest.FakePlatform{
		Ops: []hubtest.IO{{Send: append([]byte{
			0x05, 0x00, // REG_COMMAND
			0x2f, 0x03, 0x87, // OUTPUT|0x0F, SET_REPORT, extended report id
			0x06, 0x00, // REG_DATA
			0x15, 0x00, // payload length + 2
			0x00, 0x03, 0x02, // seq, SH_CR_TARE, SET_ORIENT
		}, make([]byte, 16)...)}}, // x, y, z, w all zero
	}
	s := openFake(t, fp)
	if err := s.TareClear(); err != nil {
		t.Fatalf("TareClear: %v", err)
	}
	if !fp.Done() {
		t.Errorf("script not fully consumed")
	}
}

func TestGetErrorsDrainsUntilTerminator(t *testing.T) {
	// sh_GetErrsResp_t: reportId,sequence,command,cmdSeq,respSeq,severity,
	// errSeq,source,error,module,code,reserved[5] -- 16 bytes total.
	fp := &hubtest.FakePlatform{
		IntnAsserted: []bool{false, true, true},
		Ops: []hubtest.IO{
			{}, // SH_CR_REPORT_ERRORS request
			{Recv: framed([]byte{0x88, 0, 0x01, 0, 0, 1, 2, 3, 4, 5, 6, 0, 0, 0, 0, 0})},
			{Recv: framed([]byte{0x88, 0, 0x01, 0, 0, 255, 0, 255, 0, 0, 0, 0, 0, 0, 0, 0})},
		},
	}
	s := openFake(t, fp)

	errs, err := s.GetErrors(0, 8)
	if err != nil {
		t.Fatalf("GetErrors: %v", err)
	}
	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1", len(errs))
	}
	if errs[0].Source != 3 || errs[0].Error != 4 {
		t.Errorf("errs[0] = %+v", errs[0])
	}
}

func TestSetFrsStreamsDataUntilCompleted(t *testing.T) {
	fp := &hubtest.FakePlatform{
		IntnAsserted: []bool{false, true, true},
		Ops: []hubtest.IO{
			{}, // FRS_WRITE_REQUEST
			{Recv: framed([]byte{0x84, 0x00, 0x00, 0x00})}, // ready for data
			{}, // FRS_WRITE_DATA_REQUEST
			{Recv: framed([]byte{0x84, 0x03, 0x02, 0x00})}, // completed
		},
	}
	s := openFake(t, fp)
	if err := s.SetFrs(0xE302, []uint32{0xdeadbeef}); err != nil {
		t.Fatalf("SetFrs: %v", err)
	}
}

func TestGetFrsAssemblesRecord(t *testing.T) {
	// One FRS_READ_RESPONSE reporting 2 words (high nibble) at offset 0,
	// status RecordComplete (3) in the low nibble.
	body := make([]byte, 15)
	body[0] = byte(2<<4 | 3) // words=2, status=3 (RecordComplete)
	body[1], body[2] = 0, 0 // offset = 0
	body[3], body[4], body[5], body[6] = 0x78, 0x56, 0x34, 0x12
	body[7], body[8], body[9], body[10] = 0x01, 0x00, 0x00, 0x00
	body[11], body[12] = 0x02, 0xe3 // recordId = 0xE302

	fp := &hubtest.FakePlatform{
		IntnAsserted: []bool{false, true},
		Ops: []hubtest.IO{
			{}, // FRS_READ_REQUEST
			{Recv: framed(append([]byte{0x86}, body...))},
		},
	}
	s := openFake(t, fp)

	buf := make([]uint32, 4)
	n, err := s.GetFrs(0xE302, buf)
	if err != nil {
		t.Fatalf("GetFrs: %v", err)
	}
	if n != 2 {
		t.Fatalf("GetFrs() n = %d, want 2", n)
	}
	if buf[0] != 0x12345678 || buf[1] != 1 {
		t.Errorf("buf = %#x", buf)
	}
}

func TestGetSensorConfigDecodesReport(t *testing.T) {
	body := make([]byte, 16)
	body[0] = byte(hub.SensorAccelerometer) // echoed report id
	body[1] = 0x03                          // relative | enabled
	body[2], body[3] = 0x10, 0x00           // changeSensitivity = 16
	body[4], body[5], body[6], body[7] = 0xe8, 0x03, 0x00, 0x00 // reportInterval = 1000

	fp := &hubtest.FakePlatform{
		Ops: []hubtest.IO{
			{Recv: framed(body)},
		},
	}
	s := openFake(t, fp)

	cfg, err := s.GetSensorConfig(hub.SensorAccelerometer)
	if err != nil {
		t.Fatalf("GetSensorConfig: %v", err)
	}
	if !cfg.ChangeSensitivityRelative || !cfg.ChangeSensitivityEnabled {
		t.Errorf("cfg flags = %+v", cfg)
	}
	if cfg.ChangeSensitivity != 16 || cfg.ReportIntervalUS != 1000 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestGetSensorConfigRejectsMismatchedReportID(t *testing.T) {
	body := make([]byte, 16)
	body[0] = byte(hub.SensorGyroscopeCalibrated) // wrong sensor echoed back

	fp := &hubtest.FakePlatform{
		Ops: []hubtest.IO{
			{Recv: framed(body)},
		},
	}
	s := openFake(t, fp)

	if _, err := s.GetSensorConfig(hub.SensorAccelerometer); err != hub.StatusBadReport {
		t.Fatalf("GetSensorConfig() = %v, want StatusBadReport", err)
	}
}

func TestSetSensorConfigSendsReport(t *testing.T) {
	fp := &hubtest.FakePlatform{
		Ops: []hubtest.IO{{}},
	}
	s := openFake(t, fp)
	cfg := hub.SensorConfig{ChangeSensitivityEnabled: true, ReportIntervalUS: 5000}
	if err := s.SetSensorConfig(hub.SensorAccelerometer, cfg); err != nil {
		t.Fatalf("SetSensorConfig: %v", err)
	}
	if !fp.Done() {
		t.Errorf("script not fully consumed")
	}
}

func TestGetMetadataRevision0(t *testing.T) {
	// A revision-0 metadata record: word0..word6 plus a 4-byte vendor id.
	words := make([]uint32, 8)
	words[1] = 100          // Range
	words[2] = 50           // Resolution
	words[3] = 0            // PowerMA/Revision = 0
	words[4] = 1000         // MinPeriodUS
	words[6] = 4 << 16      // vendorIdLen = 4
	words[7] = 0x44434241   // "ABCD" little-endian

	mkResp := func(offset, words int, data []uint32, recordID uint16, status byte) []byte {
		b := make([]byte, 15)
		b[0] = byte(words<<4 | int(status))
		b[1] = byte(offset)
		b[2] = byte(offset >> 8)
		for i := 0; i < words; i++ {
			w := data[i]
			b[3+4*i] = byte(w)
			b[4+4*i] = byte(w >> 8)
			b[5+4*i] = byte(w >> 16)
			b[6+4*i] = byte(w >> 24)
		}
		b[11] = byte(recordID)
		b[12] = byte(recordID >> 8)
		return framed(append([]byte{0x86}, b...))
	}

	fp := &hubtest.FakePlatform{
		IntnAsserted: []bool{false, true, true, true, true},
		Ops: []hubtest.IO{
			{}, // FRS_READ_REQUEST
			{Recv: mkResp(0, 2, words[0:2], 0xE302, 0 /* not terminal */)},
			{Recv: mkResp(2, 2, words[2:4], 0xE302, 0)},
			{Recv: mkResp(4, 2, words[4:6], 0xE302, 0)},
			{Recv: mkResp(6, 2, words[6:8], 0xE302, 3 /* RecordComplete */)},
		},
	}
	s := openFake(t, fp)

	m, err := s.GetMetadata(hub.SensorAccelerometer)
	if err != nil {
		t.Fatalf("GetMetadata: %v", err)
	}
	if m.Range != 100 || m.Resolution != 50 || m.MinPeriodUS != 1000 {
		t.Fatalf("GetMetadata() = %+v", m)
	}
	if m.VendorID != "ABCD" {
		t.Errorf("VendorID = %q, want %q", m.VendorID, "ABCD")
	}
}
