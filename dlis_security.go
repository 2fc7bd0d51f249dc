// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "go.mozilla.org/pkcs7"

// This file inspects encrypted logical records (RP66 v1's ENCRYPT segment
// attribute bit, spec §4.C) well enough to report what protection a
// record carries without attempting to recover its plaintext: decrypting
// a logical record requires a key this library has no way to obtain, so
// the only useful thing it can do with an encrypted record is describe
// its encryption packet.

// EncryptionPacket is the parsed header of a logical record's encryption
// packet (RP66 v1 §2.2.6.2): a size, a producer company code, and, when the
// rest of the payload parses as PKCS#7, the number of signer infos and
// certificates that structure carries (zero otherwise).
type EncryptionPacket struct {
	Size         uint16
	CompanyCode  uint16
	SignerInfos  int
	Certificates int
}

// InspectEncryptionPacket parses the fixed-size header of rec's
// encryption packet and, if the remaining bytes parse as a PKCS#7
// structure, reports how many signer infos and certificates it carries.
// It never attempts to decrypt anything: welog has no facility for
// supplying a decryption key, so the plaintext of an encrypted logical
// record is permanently out of reach here.
func InspectEncryptionPacket(rec LogicalRecord) (EncryptionPacket, error) {
	if !rec.IsEncrypted() {
		return EncryptionPacket{}, wrapErr("dlis: inspect encryption packet", 0, ErrInvalidArgs)
	}
	if len(rec.Data) < 4 {
		return EncryptionPacket{}, wrapErr("dlis: inspect encryption packet", 0, ErrTruncated)
	}

	c := newCursor(rec.Data)
	size, next, err := DecodeUNORM(c)
	if err != nil {
		return EncryptionPacket{}, wrapErr("dlis: inspect encryption packet size", 0, err)
	}
	c = next
	company, next, err := DecodeUNORM(c)
	if err != nil {
		return EncryptionPacket{}, wrapErr("dlis: inspect encryption packet company code", 0, err)
	}
	c = next

	packet := EncryptionPacket{Size: size, CompanyCode: company}

	payload, _, err := c.take(c.remaining())
	if err != nil || len(payload) == 0 {
		return packet, nil
	}

	p7, err := pkcs7.Parse(payload)
	if err != nil {
		// Not every producer's encryption packet is PKCS#7-wrapped; a
		// parse failure here just means the header is all we get.
		return packet, nil
	}
	packet.SignerInfos = len(p7.Signers)
	packet.Certificates = len(p7.Certificates)
	return packet, nil
}
