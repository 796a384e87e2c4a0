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
	"io"
	"strings"
)

const delimiters = string(RecordTerminator) + string(FieldTerminator) + string(SubfieldDelimiter)

// Marshaler is the interface that wraps the Marshal function.
//
// Marshal converts a record to its serialized form and returns the size of the marshalled record or any error encountered.
type Marshaler interface {
	Marshal(w io.Writer, record *Record) (int64, error)
}

type defaultMarshaler struct {
}

// NewMarshaler returns a Marshaler writing records in the ISO 2709 exchange format.
func NewMarshaler() Marshaler {
	return &defaultMarshaler{}
}

func (m *defaultMarshaler) Marshal(w io.Writer, record *Record) (int64, error) {
	b, err := Encode(record)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// Encode serializes a record.
//
// Fields are laid out in order right after the directory. Record length and base address in the leader
// are recomputed, the rest of the leader is written as is. The leader of r is not modified.
func Encode(r *Record) ([]byte, error) {
	leader := r.Leader
	if err := leader.validate(false); err != nil {
		return nil, err
	}

	lengthWidth := leader.LengthOfLengthOfField()
	startWidth := leader.LengthOfFieldLocation()
	implWidth := leader.LengthOfImplementationDefined()
	codeLength := leader.LengthOfSubfieldCode() - 1

	data := &bytes.Buffer{}
	directory := make([]byte, 0, len(r.Fields)*leader.directoryEntryLength()+1)
	for _, f := range r.Fields {
		start := data.Len()
		if err := encodeField(data, f, codeLength); err != nil {
			return nil, err
		}
		length := data.Len() - start
		if !fitsDigits(length, lengthWidth) {
			return nil, newFieldError(ErrFieldTooLarge, f.tag, "field length does not fit the directory")
		}
		if !fitsDigits(start, startWidth) {
			return nil, newFieldError(ErrFieldTooLarge, f.tag, "field position does not fit the directory")
		}
		directory = append(directory, string(f.tag)...)
		directory = appendDigits(directory, length, lengthWidth)
		directory = appendDigits(directory, start, startWidth)
		for i := 0; i < implWidth; i++ {
			directory = append(directory, '0')
		}
	}
	directory = append(directory, FieldTerminator)

	baseAddress := LeaderLength + len(directory)
	if err := leader.setBaseAddress(baseAddress); err != nil {
		return nil, err
	}
	if err := leader.setRecordLength(baseAddress + data.Len() + 1); err != nil {
		return nil, err
	}

	out := make([]byte, 0, leader.RecordLength())
	out = append(out, leader[:]...)
	out = append(out, directory...)
	out = append(out, data.Bytes()...)
	out = append(out, RecordTerminator)
	return out, nil
}

func encodeField(buf *bytes.Buffer, f RecordField, codeLength int) error {
	switch {
	case f.tag.IsControlTag():
		if strings.ContainsAny(f.value, delimiters) {
			return newFieldError(ErrMalformedField, f.tag, "control value contains a terminator or delimiter")
		}
		buf.WriteString(f.value)
	case f.tag.IsDataTag():
		for _, ind := range f.indicators {
			if !ind.IsVisible() {
				return newFieldError(ErrMalformedField, f.tag, "indicator is not printable")
			}
			buf.WriteByte(byte(ind))
		}
		for _, s := range f.subfields {
			if len(s.Code) != codeLength {
				return newFieldError(ErrInvalidSubfieldCode, f.tag, "subfield code '"+string(s.Code)+"' has wrong length")
			}
			if strings.ContainsAny(string(s.Code), delimiters) {
				return newFieldError(ErrInvalidSubfieldCode, f.tag, "subfield code is a terminator or delimiter")
			}
			if strings.ContainsAny(s.Content, delimiters) {
				return newFieldError(ErrMalformedField, f.tag, "subfield $"+string(s.Code)+" contains a terminator or delimiter")
			}
			buf.WriteByte(SubfieldDelimiter)
			buf.WriteString(string(s.Code))
			buf.WriteString(s.Content)
		}
	default:
		return newFieldError(ErrInvalidTag, f.tag, "not a control or data tag")
	}
	buf.WriteByte(FieldTerminator)
	return nil
}

func appendDigits(b []byte, n, width int) []byte {
	start := len(b)
	for i := 0; i < width; i++ {
		b = append(b, '0')
	}
	writeDigits(b[start:], n)
	return b
}
