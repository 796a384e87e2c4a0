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
	"bufio"
	"errors"
	"io"

	log "github.com/sirupsen/logrus"
)

// Unmarshaler is the interface that wraps the Unmarshal function.
//
// Unmarshal reads the next record from b. It returns the record, the number of bytes skipped before the record
// started, the validation result and any error. io.EOF is returned when there are no more records.
//
// A record ends at its record terminator. When the length in the leader disagrees, the record length is
// corrected and the mismatch is handled by the spec violation policy.
type Unmarshaler interface {
	Unmarshal(b *bufio.Reader) (*Record, int64, *Validation, error)
}

type unmarshaler struct {
	opts    *recordOptions
	decoder *Decoder
}

// NewUnmarshaler creates an Unmarshaler reading records in the ISO 2709 exchange format.
func NewUnmarshaler(opts ...RecordOption) Unmarshaler {
	o := newOptions(opts...)
	return &unmarshaler{
		opts:    o,
		decoder: &Decoder{opts: o},
	}
}

func (u *unmarshaler) Unmarshal(b *bufio.Reader) (*Record, int64, *Validation, error) {
	var offset int64
	validation := &Validation{}

	// Search for start of new record, which is the five digit record length
	var prefix []byte
	for {
		p, err := b.Peek(5)
		if len(p) == 0 {
			if err == nil {
				err = io.EOF
			}
			return nil, offset, validation, err
		}
		if len(p) == 5 && allDigits(p) {
			prefix = p
			break
		}
		if err != nil && allDigits(p) {
			return nil, offset, validation, newSyntaxErrorf(ErrTruncatedRecord, len(p), "stream ended after %d bytes of record", len(p))
		}
		if u.opts.errSyntax >= ErrFail {
			return nil, offset, validation, newSyntaxErrorf(ErrInvalidLeader, -1, "expected start of record at stream offset %d", offset)
		}
		if _, err = b.Discard(1); err != nil {
			return nil, offset, validation, err
		}
		offset++
	}
	if offset != 0 {
		log.Debugf("skipped %d bytes before start of record", offset)
		if u.opts.errSyntax >= ErrWarn {
			validation.AddError(newSyntaxErrorf(ErrInvalidLeader, -1, "expected start of record, but found %d bytes of junk", offset))
		}
	}

	length, _ := parseDigits(prefix)
	if length <= LeaderLength {
		_, _ = b.Discard(5)
		return nil, offset, validation, newSyntaxErrorf(ErrInvalidLeader, 0, "record length %d is too short", length)
	}

	// The record ends at the first record terminator
	data, err := b.ReadBytes(RecordTerminator)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, offset, validation, newSyntaxErrorf(ErrTruncatedRecord, -1, "stream ended before the end of a record of %d bytes", length)
		}
		return nil, offset, validation, err
	}
	if len(data) != length {
		if err := validation.handle(u.opts.errSpec, newSyntaxErrorf(ErrInvalidLeader, posRecordLength,
			"record length is %d, but the record terminator is at %d", length, len(data))); err != nil {
			return nil, offset, validation, err
		}
		if len(data) >= LeaderLength && len(data) <= maxFiveDigits {
			writeDigits(data[posRecordLength:posRecordLength+5], len(data))
		}
	}

	record, v, err := u.decoder.Decode(data)
	*validation = append(*validation, *v...)
	return record, offset, validation, err
}

func allDigits(b []byte) bool {
	for _, c := range b {
		if !isDigit(c) {
			return false
		}
	}
	return true
}
