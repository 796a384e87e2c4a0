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
	"fmt"
	"strings"
)

// Record is a MARC 21 record: a leader followed by an ordered list of fields.
// Several fields may share the same tag.
type Record struct {
	Leader Leader
	Fields []RecordField
}

// NewRecord creates an empty record of the given kind.
func NewRecord(kind RecordKind, fields ...RecordField) *Record {
	r := &Record{Leader: NewLeader(kind)}
	for _, f := range fields {
		r.Fields = append(r.Fields, f.clone())
	}
	return r
}

// Kind returns the record kind from the leader.
func (r *Record) Kind() RecordKind {
	return r.Leader.RecordKind()
}

// Status returns the record status from the leader.
func (r *Record) Status() RecordStatus {
	return r.Leader.RecordStatus()
}

// ControlNumber returns the value of the first 001 field, or the empty string if there is none.
func (r *Record) ControlNumber() string {
	for _, f := range r.Fields {
		if f.tag == ControlNumberTag {
			return f.value
		}
	}
	return ""
}

// Clone returns a deep copy of the record. The copy shares no memory with r.
func (r *Record) Clone() *Record {
	c := &Record{Leader: r.Leader}
	if r.Fields != nil {
		c.Fields = make([]RecordField, len(r.Fields))
		for i, f := range r.Fields {
			c.Fields[i] = f.clone()
		}
	}
	return c
}

// Equal returns true if r and o have the same leader and the same fields in the same order.
func (r *Record) Equal(o *Record) bool {
	if r.Leader != o.Leader || len(r.Fields) != len(o.Fields) {
		return false
	}
	for i := range r.Fields {
		if !r.Fields[i].Equal(o.Fields[i]) {
			return false
		}
	}
	return true
}

// FieldsWithTag returns copies of all fields with the given tag in order.
func (r *Record) FieldsWithTag(tag FieldTag) []RecordField {
	var result []RecordField
	for _, f := range r.Fields {
		if f.tag == tag {
			result = append(result, f.clone())
		}
	}
	return result
}

// AppendField adds a field at the end of the record.
func (r *Record) AppendField(f RecordField) error {
	if !f.tag.IsControlTag() && !f.tag.IsDataTag() {
		return newFieldError(ErrInvalidTag, f.tag, "not a control or data tag")
	}
	r.Fields = append(r.Fields, f.clone())
	return nil
}

// AddControlField creates a control field and adds it at the end of the record.
func (r *Record) AddControlField(tag FieldTag, value string) error {
	f, err := NewControlField(tag, value)
	if err != nil {
		return err
	}
	r.Fields = append(r.Fields, f)
	return nil
}

// AddDataField creates a data field and adds it at the end of the record.
func (r *Record) AddDataField(tag FieldTag, ind1, ind2 FieldIndicator, subfields ...Subfield) error {
	f, err := NewDataField(tag, ind1, ind2, subfields...)
	if err != nil {
		return err
	}
	r.Fields = append(r.Fields, f)
	return nil
}

// InsertField inserts a field at position i. An i equal to the number of fields appends.
func (r *Record) InsertField(i int, f RecordField) error {
	if i < 0 || i > len(r.Fields) {
		return fmt.Errorf("gomarc: cannot insert field at %d: %w", i, ErrIndexOutOfRange)
	}
	if !f.tag.IsControlTag() && !f.tag.IsDataTag() {
		return newFieldError(ErrInvalidTag, f.tag, "not a control or data tag")
	}
	r.Fields = append(r.Fields, RecordField{})
	copy(r.Fields[i+1:], r.Fields[i:])
	r.Fields[i] = f.clone()
	return nil
}

// RemoveField removes the field at position i.
func (r *Record) RemoveField(i int) error {
	if i < 0 || i >= len(r.Fields) {
		return fmt.Errorf("gomarc: cannot remove field at %d: %w", i, ErrIndexOutOfRange)
	}
	r.Fields = append(r.Fields[:i], r.Fields[i+1:]...)
	return nil
}

func (r *Record) String() string {
	return fmt.Sprintf("MARC record: kind: %s, status: %c, control number: %s, fields: %d",
		r.Kind(), r.Status(), r.ControlNumber(), len(r.Fields))
}

// Text returns a human readable multiline rendering of the record: the leader followed by one line per field.
func (r *Record) Text() string {
	var sb strings.Builder
	sb.WriteString("LDR ")
	sb.WriteString(r.Leader.String())
	sb.WriteByte('\n')
	for _, f := range r.Fields {
		sb.WriteString(f.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
