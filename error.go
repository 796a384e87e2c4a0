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
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidLeader is returned when the leader is not 24 printable bytes or one of its positions is malformed.
	ErrInvalidLeader = errors.New("invalid leader")
	// ErrInvalidDirectory is returned when the directory is unterminated, misaligned or holds non-numeric entries.
	ErrInvalidDirectory = errors.New("invalid directory")
	// ErrUnterminatedField is returned when a field or the record lacks its terminator.
	ErrUnterminatedField = errors.New("unterminated field")
	// ErrTruncatedRecord is returned when the data ends before the record or one of its fields does.
	ErrTruncatedRecord = errors.New("truncated record")
	// ErrInvalidTag is returned for tags that are not three digits, for tag 000
	// and for content that does not match the class of its tag.
	ErrInvalidTag = errors.New("invalid tag")
	// ErrFieldTooLarge is returned when a length or offset does not fit its digit width.
	ErrFieldTooLarge = errors.New("field too large")
	// ErrMalformedField is returned when the body of a data field cannot be split into indicators and subfields.
	ErrMalformedField = errors.New("malformed field")
	// ErrInvalidSubfieldCode is returned when a subfield code does not match the leader's subfield code length.
	ErrInvalidSubfieldCode = errors.New("invalid subfield code")
	// ErrIndexOutOfRange is returned when an index path points past the fields or subfields of a record.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNotADataField is returned when a subfield is addressed in a control field.
	ErrNotADataField = errors.New("not a data field")
	// ErrNotAControlField is returned when a control value is set on a data field.
	ErrNotAControlField = errors.New("not a control field")
	// ErrInvalidIndexPathArity is returned when an index path has the wrong number of components.
	ErrInvalidIndexPathArity = errors.New("invalid index path arity")
)

// SyntaxError is used for errors found while decoding a record.
// It wraps one of the sentinel errors and records the byte offset within the record.
type SyntaxError struct {
	msg     string
	offset  int
	wrapped error
}

func newSyntaxError(wrapped error, offset int, msg string) *SyntaxError {
	return &SyntaxError{msg: msg, offset: offset, wrapped: wrapped}
}

func newSyntaxErrorf(wrapped error, offset int, msg string, param ...interface{}) *SyntaxError {
	return &SyntaxError{msg: fmt.Sprintf(msg, param...), offset: offset, wrapped: wrapped}
}

func (e *SyntaxError) Error() string {
	if e.offset >= 0 {
		return fmt.Sprintf("gomarc: %v: %s at offset %d", e.wrapped, e.msg, e.offset)
	} else {
		return fmt.Sprintf("gomarc: %v: %s", e.wrapped, e.msg)
	}
}

func (e *SyntaxError) Unwrap() error {
	return e.wrapped
}

// Offset returns the byte offset within the record where the error was found, or -1 if unknown.
func (e *SyntaxError) Offset() int {
	return e.offset
}

// FieldError is used for violations of the field model, like a tag that does not match its content.
type FieldError struct {
	tag     FieldTag
	msg     string
	wrapped error
}

func newFieldError(wrapped error, tag FieldTag, msg string) *FieldError {
	return &FieldError{tag: tag, msg: msg, wrapped: wrapped}
}

func (e *FieldError) Error() string {
	if e.tag != "" {
		return fmt.Sprintf("gomarc: %s at field %s", e.msg, e.tag)
	} else {
		return fmt.Sprintf("gomarc: %s", e.msg)
	}
}

func (e *FieldError) Unwrap() error {
	return e.wrapped
}

type multiErr []error

func (e multiErr) Error() string {
	switch len(e) {

	case 0:
		return ""

	case 1:
		return e[0].Error()
	}

	const (
		start = "["
		sep   = ", "
		end   = "]"
	)

	n := len(start) + len(end) + (len(sep) * (len(e) - 1))
	for i := 0; i < len(e); i++ {
		n += len(e[i].Error())
	}

	var b strings.Builder
	b.Grow(n)
	b.WriteString(start)
	b.WriteString(e[0].Error())
	for _, s := range e[1:] {
		b.WriteString(sep)
		b.WriteString(s.Error())
	}
	b.WriteString(end)
	return b.String()
}
