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
	"bytes"
)

// Delimiters used in the ISO 2709 exchange format
const (
	RecordTerminator  byte = 0x1d
	FieldTerminator   byte = 0x1e
	SubfieldDelimiter byte = 0x1f
)

// Decoder decodes a single binary record.
type Decoder struct {
	opts *recordOptions
}

// NewDecoder creates a new Decoder with the supplied options.
func NewDecoder(opts ...RecordOption) *Decoder {
	return &Decoder{opts: newOptions(opts...)}
}

// Decode decodes one record with default options.
func Decode(data []byte, opts ...RecordOption) (*Record, *Validation, error) {
	return NewDecoder(opts...).Decode(data)
}

// Decode decodes one record from data, which must hold exactly one record including its terminator.
//
// Decoding is all or nothing: if an error is returned, the record is nil. Deviations which the error policies
// accept are collected in the returned Validation. The returned record shares no memory with data.
func (d *Decoder) Decode(data []byte) (*Record, *Validation, error) {
	validation := &Validation{}

	if len(data) < LeaderLength {
		return nil, validation, newSyntaxErrorf(ErrTruncatedRecord, len(data), "need %d bytes for the leader, got %d", LeaderLength, len(data))
	}
	leader, err := ParseLeader(data[:LeaderLength])
	if err != nil {
		return nil, validation, err
	}
	if leader[posUndefined] != '0' {
		if err := validation.handle(d.opts.errSpec, newSyntaxErrorf(ErrInvalidLeader, posUndefined,
			"undefined position should be '0', was '%c'", leader[posUndefined])); err != nil {
			return nil, validation, err
		}
	}

	recordLength := leader.RecordLength()
	if recordLength > len(data) {
		return nil, validation, newSyntaxErrorf(ErrTruncatedRecord, len(data), "record length is %d, but only %d bytes available", recordLength, len(data))
	}
	if recordLength < len(data) {
		if err := validation.handle(d.opts.errSpec, newSyntaxErrorf(ErrInvalidLeader, posRecordLength,
			"record length is %d, but data is %d bytes", recordLength, len(data))); err != nil {
			return nil, validation, err
		}
		if recordLength > LeaderLength && data[recordLength-1] == RecordTerminator {
			data = data[:recordLength]
		}
	}
	if data[len(data)-1] != RecordTerminator {
		return nil, validation, newSyntaxError(ErrUnterminatedField, len(data)-1, "missing record terminator")
	}

	dirEnd := bytes.IndexByte(data[LeaderLength:], FieldTerminator)
	if dirEnd < 0 {
		return nil, validation, newSyntaxError(ErrInvalidDirectory, LeaderLength, "missing directory terminator")
	}
	dirEnd += LeaderLength
	baseAddress := leader.BaseAddress()
	if baseAddress != dirEnd+1 {
		return nil, validation, newSyntaxErrorf(ErrInvalidDirectory, dirEnd, "base address is %d, but directory ends at %d", baseAddress, dirEnd+1)
	}
	entryLength := leader.directoryEntryLength()
	directory := data[LeaderLength:dirEnd]
	if len(directory)%entryLength != 0 {
		return nil, validation, newSyntaxErrorf(ErrInvalidDirectory, LeaderLength, "directory length %d is not a multiple of the entry length %d", len(directory), entryLength)
	}

	dataArea := data[baseAddress : len(data)-1]
	lengthWidth := leader.LengthOfLengthOfField()
	startWidth := leader.LengthOfFieldLocation()

	record := &Record{Leader: leader, Fields: make([]RecordField, 0, len(directory)/entryLength)}
	for pos := 0; pos < len(directory); pos += entryLength {
		entry := directory[pos : pos+entryLength]
		entryOffset := LeaderLength + pos

		tag := FieldTag(entry[:3])
		if !tag.IsValid() {
			return nil, validation, newSyntaxErrorf(ErrInvalidDirectory, entryOffset, "tag '%s' is not numeric", entry[:3])
		}
		if tag == leaderTag {
			return nil, validation, newSyntaxError(ErrInvalidTag, entryOffset, "tag 000 is not allowed in the directory")
		}
		length, ok := parseDigits(entry[3 : 3+lengthWidth])
		if !ok {
			return nil, validation, newSyntaxErrorf(ErrInvalidDirectory, entryOffset, "field length of %s is not numeric", tag)
		}
		start, ok := parseDigits(entry[3+lengthWidth : 3+lengthWidth+startWidth])
		if !ok {
			return nil, validation, newSyntaxErrorf(ErrInvalidDirectory, entryOffset, "starting position of %s is not numeric", tag)
		}
		if start+length > len(dataArea) {
			return nil, validation, newSyntaxErrorf(ErrTruncatedRecord, entryOffset,
				"field %s at %d with length %d exceeds the data area of %d bytes", tag, start, length, len(dataArea))
		}
		body := dataArea[start : start+length]
		if length == 0 || body[length-1] != FieldTerminator {
			return nil, validation, newSyntaxErrorf(ErrUnterminatedField, baseAddress+start+length, "field %s is not terminated", tag)
		}

		field, err := d.decodeField(tag, body[:length-1], &leader, baseAddress+start, validation)
		if err != nil {
			return nil, validation, err
		}
		record.Fields = append(record.Fields, field)
	}

	return record, validation, nil
}

func (d *Decoder) decodeField(tag FieldTag, body []byte, leader *Leader, offset int, validation *Validation) (RecordField, error) {
	field := RecordField{tag: tag, indicators: [2]FieldIndicator{Blank, Blank}}
	if tag.IsControlTag() {
		field.value = string(body)
		return field, nil
	}

	if len(body) < 2 {
		return RecordField{}, newSyntaxErrorf(ErrMalformedField, offset, "field %s is too short to hold indicators", tag)
	}
	for i := 0; i < 2; i++ {
		ind := FieldIndicator(body[i])
		if !ind.IsVisible() {
			return RecordField{}, newSyntaxErrorf(ErrMalformedField, offset+i, "indicator %d of field %s is not printable: %#x", i+1, tag, body[i])
		}
		if !ind.IsValid() {
			if err := validation.handle(d.opts.errIndicator, newSyntaxErrorf(ErrMalformedField, offset+i,
				"indicator %d of field %s has unexpected value '%c'", i+1, tag, body[i])); err != nil {
				return RecordField{}, err
			}
		}
		field.indicators[i] = ind
	}

	rest := body[2:]
	if len(rest) == 0 {
		return field, nil
	}
	if rest[0] != SubfieldDelimiter {
		return RecordField{}, newSyntaxErrorf(ErrMalformedField, offset+2, "field %s has data before the first subfield", tag)
	}

	codeLength := leader.LengthOfSubfieldCode() - 1
	chunks := bytes.Split(rest[1:], []byte{SubfieldDelimiter})
	field.subfields = make([]Subfield, 0, len(chunks))
	pos := offset + 3
	for _, c := range chunks {
		if len(c) < codeLength || len(c) == 0 {
			return RecordField{}, newSyntaxErrorf(ErrMalformedField, pos, "subfield in field %s is too short to hold a code", tag)
		}
		field.subfields = append(field.subfields, Subfield{
			Code:    SubfieldCode(c[:codeLength]),
			Content: string(c[codeLength:]),
		})
		pos += len(c) + 1
	}
	return field, nil
}
