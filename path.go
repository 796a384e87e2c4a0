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
	"strconv"
	"strings"
)

// IndexPath locates a field (one component) or a subfield within a data field (two components).
type IndexPath []int

func (p IndexPath) String() string {
	s := make([]string, len(p))
	for i, c := range p {
		s[i] = strconv.Itoa(c)
	}
	return "[" + strings.Join(s, ".") + "]"
}

// FieldPath describes which fields or subfields to look up in a record.
// A FieldPath without a subfield code matches whole fields.
type FieldPath struct {
	Tag  FieldTag
	Code SubfieldCode
}

// NewFieldPath returns a path matching all fields with the given tag.
func NewFieldPath(tag FieldTag) FieldPath {
	return FieldPath{Tag: tag}
}

// NewSubfieldPath returns a path matching all subfields with the given code in data fields with the given tag.
func NewSubfieldPath(tag FieldTag, code SubfieldCode) FieldPath {
	return FieldPath{Tag: tag, Code: code}
}

// ParseFieldPath parses a path on the form "245" or "245$a".
func ParseFieldPath(s string) (FieldPath, error) {
	tag, code := s, ""
	if i := strings.IndexByte(s, '$'); i >= 0 {
		tag, code = s[:i], s[i+1:]
		if code == "" {
			return FieldPath{}, fmt.Errorf("gomarc: missing subfield code in path '%s': %w", s, ErrInvalidSubfieldCode)
		}
	}
	t, err := ParseFieldTag(tag)
	if err != nil {
		return FieldPath{}, err
	}
	if code != "" && !t.IsDataTag() {
		return FieldPath{}, newFieldError(ErrInvalidTag, t, "subfield path requires a data tag")
	}
	return FieldPath{Tag: t, Code: SubfieldCode(code)}, nil
}

// HasSubfieldCode returns true if the path addresses subfields.
func (p FieldPath) HasSubfieldCode() bool {
	return p.Code != ""
}

func (p FieldPath) String() string {
	if p.Code == "" {
		return string(p.Tag)
	}
	return string(p.Tag) + "$" + string(p.Code)
}

// IndexPathsForTag returns one path for every field with the given tag, in record order.
func (r *Record) IndexPathsForTag(tag FieldTag) []IndexPath {
	var result []IndexPath
	for i, f := range r.Fields {
		if f.tag == tag {
			result = append(result, IndexPath{i})
		}
	}
	return result
}

// IndexPathsForSubfield returns one path for every subfield with the given code in every data field with the
// given tag, ordered by field and then by subfield.
func (r *Record) IndexPathsForSubfield(tag FieldTag, code SubfieldCode) []IndexPath {
	var result []IndexPath
	for i, f := range r.Fields {
		if f.tag != tag || !f.tag.IsDataTag() {
			continue
		}
		for j, s := range f.subfields {
			if s.Code == code {
				result = append(result, IndexPath{i, j})
			}
		}
	}
	return result
}

// IndexPaths returns the index paths of everything matching p.
func (r *Record) IndexPaths(p FieldPath) []IndexPath {
	if p.HasSubfieldCode() {
		return r.IndexPathsForSubfield(p.Tag, p.Code)
	}
	return r.IndexPathsForTag(p.Tag)
}

// Field returns a copy of the field at the first component of the path.
func (r *Record) Field(at IndexPath) (RecordField, error) {
	if len(at) == 0 {
		return RecordField{}, fmt.Errorf("gomarc: empty index path: %w", ErrInvalidIndexPathArity)
	}
	if at[0] < 0 || at[0] >= len(r.Fields) {
		return RecordField{}, fmt.Errorf("gomarc: no field at %v: %w", at, ErrIndexOutOfRange)
	}
	return r.Fields[at[0]].clone(), nil
}

// Subfield returns the subfield at a two component path.
func (r *Record) Subfield(at IndexPath) (Subfield, error) {
	if len(at) != 2 {
		return Subfield{}, fmt.Errorf("gomarc: subfield path %v must have two components: %w", at, ErrInvalidIndexPathArity)
	}
	f, err := r.Field(at)
	if err != nil {
		return Subfield{}, err
	}
	if !f.tag.IsDataTag() {
		return Subfield{}, newFieldError(ErrNotADataField, f.tag, fmt.Sprintf("field at %v has no subfields", at))
	}
	if at[1] < 0 || at[1] >= len(f.subfields) {
		return Subfield{}, fmt.Errorf("gomarc: no subfield at %v: %w", at, ErrIndexOutOfRange)
	}
	return f.subfields[at[1]], nil
}

// Content returns the content at the path.
// For a one component path it is the string value of the field, for a two component path the content of the subfield.
func (r *Record) Content(at IndexPath) (string, error) {
	switch len(at) {
	case 1:
		f, err := r.Field(at)
		if err != nil {
			return "", err
		}
		return f.StringValue(), nil
	case 2:
		s, err := r.Subfield(at)
		if err != nil {
			return "", err
		}
		return s.Content, nil
	}
	return "", fmt.Errorf("gomarc: index path %v must have one or two components: %w", at, ErrInvalidIndexPathArity)
}

// ContentWith returns the content of everything matching p, in record order. It never fails.
func (r *Record) ContentWith(p FieldPath) []string {
	paths := r.IndexPaths(p)
	result := make([]string, 0, len(paths))
	for _, at := range paths {
		if c, err := r.Content(at); err == nil {
			result = append(result, c)
		}
	}
	return result
}

// SetContent replaces the content at the path.
//
// A one component path must point to a control field whose value is replaced, a two component path
// must point to a subfield whose content is replaced.
func (r *Record) SetContent(at IndexPath, value string) error {
	switch len(at) {
	case 1:
		if at[0] < 0 || at[0] >= len(r.Fields) {
			return fmt.Errorf("gomarc: no field at %v: %w", at, ErrIndexOutOfRange)
		}
		f := &r.Fields[at[0]]
		if !f.SetControlValue(value) {
			return newFieldError(ErrNotAControlField, f.tag, fmt.Sprintf("field at %v has subfields", at))
		}
		return nil
	case 2:
		if _, err := r.Subfield(at); err != nil {
			return err
		}
		f := &r.Fields[at[0]]
		s := f.Subfields()
		s[at[1]].Content = value
		f.subfields = s
		return nil
	}
	return fmt.Errorf("gomarc: index path %v must have one or two components: %w", at, ErrInvalidIndexPathArity)
}
