// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "testing"

func TestInspectEncryptionPacketRejectsUnencrypted(t *testing.T) {
	rec := LogicalRecord{Data: []byte{0x00, 0x04, 0x00, 0x01}}
	if _, err := InspectEncryptionPacket(rec); err == nil {
		t.Fatalf("InspectEncryptionPacket should reject a record without the encrypted attribute set")
	}
}

func TestInspectEncryptionPacketHeaderOnly(t *testing.T) {
	// size=4, company code=7, no trailing PKCS#7 payload.
	data := []byte{0x00, 0x04, 0x00, 0x07}
	rec := LogicalRecord{Data: data, Attrs: SegAttrEncrypted}

	packet, err := InspectEncryptionPacket(rec)
	if err != nil {
		t.Fatalf("InspectEncryptionPacket failed: %v", err)
	}
	if packet.Size != 4 {
		t.Errorf("Size = %d, want 4", packet.Size)
	}
	if packet.CompanyCode != 7 {
		t.Errorf("CompanyCode = %d, want 7", packet.CompanyCode)
	}
	if packet.SignerInfos != 0 || packet.Certificates != 0 {
		t.Errorf("expected no signer/certificate counts without a PKCS#7 payload, got %+v", packet)
	}
}

func TestInspectEncryptionPacketNonPKCS7Payload(t *testing.T) {
	data := []byte{0x00, 0x04, 0x00, 0x07, 0xDE, 0xAD, 0xBE, 0xEF}
	rec := LogicalRecord{Data: data, Attrs: SegAttrEncrypted}

	packet, err := InspectEncryptionPacket(rec)
	if err != nil {
		t.Fatalf("InspectEncryptionPacket should tolerate a non-PKCS7 payload: %v", err)
	}
	if packet.CompanyCode != 7 {
		t.Errorf("CompanyCode = %d, want 7", packet.CompanyCode)
	}
}

func TestInspectEncryptionPacketTruncated(t *testing.T) {
	rec := LogicalRecord{Data: []byte{0x00, 0x01}, Attrs: SegAttrEncrypted}
	if _, err := InspectEncryptionPacket(rec); err == nil {
		t.Fatalf("InspectEncryptionPacket should fail on a truncated header")
	}
}
