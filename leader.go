/*
 * Copyright 2021 National Library of Norway.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *       http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package gomarc

import (
	"strconv"
)

// LeaderLength is the fixed size of a MARC 21 leader.
const LeaderLength = 24

// Leader positions
const (
	posRecordLength       = 0
	posRecordStatus       = 5
	posRecordKind         = 6
	posBibliographicLevel = 7
	posControlType        = 8
	posEncoding           = 9
	posIndicatorCount     = 10
	posSubfieldCodeLength = 11
	posBaseAddress        = 12
	posEncodingLevel      = 17
	posCatalogingForm     = 18
	posMultipartLevel     = 19
	posLengthOfField      = 20
	posFieldLocation      = 21
	posImplDefined        = 22
	posUndefined          = 23
)

// maxFiveDigits is the largest record length or base address a leader can hold.
const maxFiveDigits = 99999

// Leader is the fixed length field at the start of every record.
// It is a value type, copies are independent of each other.
type Leader [LeaderLength]byte

// NewLeader returns a leader for a new record of the given kind.
// Record length and base address are zero until the record is encoded.
func NewLeader(kind RecordKind) Leader {
	var l Leader
	copy(l[:], "00000n   a2200000   4500")
	l[posRecordKind] = byte(kind)
	return l
}

// ParseLeader parses a 24 byte leader.
//
// All bytes must be printable ASCII, the record kind must be recognized and the numeric positions must be digits.
// The indicator count must be 2 and the length of the length-of-field and starting-character-position portions
// must be at least one.
func ParseLeader(b []byte) (Leader, error) {
	var l Leader
	if len(b) != LeaderLength {
		return l, newSyntaxErrorf(ErrInvalidLeader, 0, "leader must be %d bytes, was %d", LeaderLength, len(b))
	}
	copy(l[:], b)
	if err := l.validate(true); err != nil {
		return Leader{}, err
	}
	return l, nil
}

// validate checks the structural positions of the leader.
// Record length and base address are only checked when checkLengths is true since the encoder writes them.
func (l *Leader) validate(checkLengths bool) error {
	for i, c := range l {
		if c < 0x20 || c > 0x7e {
			return newSyntaxErrorf(ErrInvalidLeader, i, "non printable byte %#x", c)
		}
	}
	if !RecordKind(l[posRecordKind]).IsValid() {
		return newSyntaxErrorf(ErrInvalidLeader, posRecordKind, "unrecognized record kind '%c'", l[posRecordKind])
	}
	if checkLengths {
		if _, ok := parseDigits(l[posRecordLength : posRecordLength+5]); !ok {
			return newSyntaxError(ErrInvalidLeader, posRecordLength, "record length is not numeric")
		}
		if _, ok := parseDigits(l[posBaseAddress : posBaseAddress+5]); !ok {
			return newSyntaxError(ErrInvalidLeader, posBaseAddress, "base address is not numeric")
		}
	}
	for _, p := range []int{posIndicatorCount, posSubfieldCodeLength, posLengthOfField, posFieldLocation, posImplDefined} {
		if !isDigit(l[p]) {
			return newSyntaxErrorf(ErrInvalidLeader, p, "expected digit, found '%c'", l[p])
		}
	}
	if l.NumberOfIndicators() != 2 {
		return newSyntaxErrorf(ErrInvalidLeader, posIndicatorCount, "indicator count must be 2, was %d", l.NumberOfIndicators())
	}
	if l.LengthOfSubfieldCode() < 1 {
		return newSyntaxError(ErrInvalidLeader, posSubfieldCodeLength, "subfield code length must be at least 1")
	}
	if l.LengthOfLengthOfField() < 1 {
		return newSyntaxError(ErrInvalidLeader, posLengthOfField, "length of the length-of-field portion must be at least 1")
	}
	if l.LengthOfFieldLocation() < 1 {
		return newSyntaxError(ErrInvalidLeader, posFieldLocation, "length of the starting-character-position portion must be at least 1")
	}
	return nil
}

// RecordLength returns the record length stored in positions 00-04.
func (l Leader) RecordLength() int {
	n, _ := parseDigits(l[posRecordLength : posRecordLength+5])
	return n
}

// BaseAddress returns the offset of the first field from the start of the record.
func (l Leader) BaseAddress() int {
	n, _ := parseDigits(l[posBaseAddress : posBaseAddress+5])
	return n
}

func (l *Leader) setRecordLength(n int) error {
	return l.setFiveDigits(posRecordLength, n, "record length")
}

func (l *Leader) setBaseAddress(n int) error {
	return l.setFiveDigits(posBaseAddress, n, "base address")
}

func (l *Leader) setFiveDigits(pos, n int, name string) error {
	if n < 0 || n > maxFiveDigits {
		return newSyntaxErrorf(ErrFieldTooLarge, pos, "%s %d does not fit in five digits", name, n)
	}
	writeDigits(l[pos:pos+5], n)
	return nil
}

// RecordStatus returns the status of the record (position 05).
func (l Leader) RecordStatus() RecordStatus {
	return RecordStatus(l[posRecordStatus])
}

// SetRecordStatus sets the status of the record. The value is not validated.
func (l *Leader) SetRecordStatus(s RecordStatus) {
	l[posRecordStatus] = byte(s)
}

// RecordKind returns the kind of the record (position 06).
func (l Leader) RecordKind() RecordKind {
	return RecordKind(l[posRecordKind])
}

// SetRecordKind sets the kind of the record. It returns false and leaves the leader unchanged if the kind is
// not recognized.
func (l *Leader) SetRecordKind(k RecordKind) bool {
	if !k.IsValid() {
		return false
	}
	l[posRecordKind] = byte(k)
	return true
}

// RecordEncoding returns the character coding scheme (position 09).
func (l Leader) RecordEncoding() Encoding {
	return Encoding(l[posEncoding])
}

// SetRecordEncoding sets the character coding scheme.
func (l *Leader) SetRecordEncoding(e Encoding) {
	l[posEncoding] = byte(e)
}

// NumberOfIndicators returns the indicator count. MARC 21 requires it to be 2.
func (l Leader) NumberOfIndicators() int {
	return digit(l[posIndicatorCount])
}

// LengthOfSubfieldCode returns the number of bytes used by a subfield delimiter and its code.
func (l Leader) LengthOfSubfieldCode() int {
	return digit(l[posSubfieldCodeLength])
}

// LengthOfLengthOfField returns the number of digits in the field length portion of a directory entry.
func (l Leader) LengthOfLengthOfField() int {
	return digit(l[posLengthOfField])
}

// LengthOfFieldLocation returns the number of digits in the starting character position portion of a directory entry.
func (l Leader) LengthOfFieldLocation() int {
	return digit(l[posFieldLocation])
}

// LengthOfImplementationDefined returns the length of the implementation defined portion of a directory entry.
func (l Leader) LengthOfImplementationDefined() int {
	return digit(l[posImplDefined])
}

// directoryEntryLength returns the size of one directory entry.
func (l Leader) directoryEntryLength() int {
	return 3 + l.LengthOfLengthOfField() + l.LengthOfFieldLocation() + l.LengthOfImplementationDefined()
}

// ReservedValue returns the byte at one of the implementation defined positions (07, 08, 17, 18 and 19).
// The boolean is false for any other position.
func (l Leader) ReservedValue(pos int) (byte, bool) {
	if !isReservedPosition(pos) {
		return 0, false
	}
	return l[pos], true
}

// SetReservedValue sets the byte at one of the implementation defined positions.
// It returns false if pos is not such a position or if b is not printable.
func (l *Leader) SetReservedValue(pos int, b byte) bool {
	if !isReservedPosition(pos) || b < 0x20 || b > 0x7e {
		return false
	}
	l[pos] = b
	return true
}

func isReservedPosition(pos int) bool {
	switch pos {
	case posBibliographicLevel, posControlType, posEncodingLevel, posCatalogingForm, posMultipartLevel:
		return true
	}
	return false
}

// BibliographicLevel returns leader position 07. It is only defined for bibliographic records.
func (l Leader) BibliographicLevel() (BibliographicLevel, bool) {
	if !l.RecordKind().IsBibliographic() {
		return 0, false
	}
	return BibliographicLevel(l[posBibliographicLevel]), true
}

// BibliographicControlType returns leader position 08. It is only defined for bibliographic records.
func (l Leader) BibliographicControlType() (BibliographicControlType, bool) {
	if !l.RecordKind().IsBibliographic() {
		return 0, false
	}
	return BibliographicControlType(l[posControlType]), true
}

// EncodingLevel returns leader position 17. The meaning of the value depends on the record format.
func (l Leader) EncodingLevel() EncodingLevel {
	return EncodingLevel(l[posEncodingLevel])
}

// DescriptiveCatalogingForm returns leader position 18. It is only defined for bibliographic records.
func (l Leader) DescriptiveCatalogingForm() (DescriptiveCatalogingForm, bool) {
	if !l.RecordKind().IsBibliographic() {
		return 0, false
	}
	return DescriptiveCatalogingForm(l[posCatalogingForm]), true
}

// MultipartResourceRecordLevel returns leader position 19. It is only defined for bibliographic records.
func (l Leader) MultipartResourceRecordLevel() (MultipartResourceRecordLevel, bool) {
	if !l.RecordKind().IsBibliographic() {
		return 0, false
	}
	return MultipartResourceRecordLevel(l[posMultipartLevel]), true
}

func (l *Leader) SetBibliographicLevel(v BibliographicLevel) bool {
	return l.RecordKind().IsBibliographic() && l.SetReservedValue(posBibliographicLevel, byte(v))
}

func (l *Leader) SetEncodingLevel(v EncodingLevel) bool {
	return l.SetReservedValue(posEncodingLevel, byte(v))
}

// Bytes returns a copy of the leader as a byte slice.
func (l Leader) Bytes() []byte {
	b := make([]byte, LeaderLength)
	copy(b, l[:])
	return b
}

func (l Leader) String() string {
	return string(l[:])
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func digit(c byte) int {
	if !isDigit(c) {
		return 0
	}
	return int(c - '0')
}

// parseDigits parses a run of ASCII digits. It returns false for an empty slice or any non-digit.
func parseDigits(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	n := 0
	for _, c := range b {
		if !isDigit(c) {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// writeDigits writes n zero padded into b. The caller must make sure n fits.
func writeDigits(b []byte, n int) {
	s := strconv.Itoa(n)
	pad := len(b) - len(s)
	for i := 0; i < pad; i++ {
		b[i] = '0'
	}
	copy(b[pad:], s)
}

// fitsDigits returns true if n can be written with width digits.
func fitsDigits(n, width int) bool {
	if n < 0 {
		return false
	}
	return len(strconv.Itoa(n)) <= width
}
