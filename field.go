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

// FieldIndicator is a single byte qualifying the content of a data field.
type FieldIndicator byte

// Blank is the indicator used when no value is given.
const Blank FieldIndicator = ' '

// IsValid returns true if i is a blank, a lowercase ASCII letter or an ASCII digit.
func (i FieldIndicator) IsValid() bool {
	return i == Blank || (i >= 'a' && i <= 'z') || (i >= '0' && i <= '9')
}

// IsVisible returns true if i is printable ASCII. Decoding accepts any visible indicator.
func (i FieldIndicator) IsVisible() bool {
	return i >= 0x20 && i <= 0x7e
}

func (i FieldIndicator) String() string {
	return string(rune(i))
}

// SubfieldCode identifies a subfield within a data field. In MARC 21 it is a single ASCII byte.
type SubfieldCode string

// Subfield is a code and content pair within a data field.
type Subfield struct {
	Code    SubfieldCode
	Content string
}

func (s Subfield) String() string {
	return "$" + string(s.Code) + s.Content
}

// Content is the content of a RecordField. It is either a ControlContent or a DataContent.
type Content interface {
	isContent()
}

// ControlContent is the content of a control field.
type ControlContent struct {
	Value string
}

// DataContent is the content of a data field.
type DataContent struct {
	Indicators [2]FieldIndicator
	Subfields  []Subfield
}

func (ControlContent) isContent() {}
func (DataContent) isContent()    {}

// RecordField is a tagged field of a record.
//
// A field with a control tag always holds control content and a field with a data tag always holds data content.
// The zero value has no tag and is not a valid field.
type RecordField struct {
	tag        FieldTag
	value      string
	indicators [2]FieldIndicator
	subfields  []Subfield
}

// NewRecordField creates a field with the given tag and content.
//
// If content is nil, the field gets empty content matching its tag.
// ErrInvalidTag is returned if the tag is not valid, if it is 000 or if the content does not match the tag.
func NewRecordField(tag FieldTag, content Content) (RecordField, error) {
	f := RecordField{}
	if err := f.SetTag(tag); err != nil {
		return RecordField{}, err
	}
	if content == nil {
		return f, nil
	}
	if err := f.SetContent(content); err != nil {
		return RecordField{}, err
	}
	return f, nil
}

// NewControlField creates a control field. The tag must be a control tag.
func NewControlField(tag FieldTag, value string) (RecordField, error) {
	return NewRecordField(tag, ControlContent{Value: value})
}

// NewDataField creates a data field. The tag must be a data tag.
func NewDataField(tag FieldTag, ind1, ind2 FieldIndicator, subfields ...Subfield) (RecordField, error) {
	return NewRecordField(tag, DataContent{Indicators: [2]FieldIndicator{ind1, ind2}, Subfields: subfields})
}

// MustControlField is like NewControlField, but panics on error.
func MustControlField(tag FieldTag, value string) RecordField {
	f, err := NewControlField(tag, value)
	if err != nil {
		panic(err)
	}
	return f
}

// MustDataField is like NewDataField, but panics on error.
func MustDataField(tag FieldTag, ind1, ind2 FieldIndicator, subfields ...Subfield) RecordField {
	f, err := NewDataField(tag, ind1, ind2, subfields...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f RecordField) Tag() FieldTag {
	return f.tag
}

// SetTag changes the tag of the field.
// If the field changes between control and data field, the content is reset to the empty form of the new kind.
func (f *RecordField) SetTag(tag FieldTag) error {
	if !tag.IsControlTag() && !tag.IsDataTag() {
		return newFieldError(ErrInvalidTag, tag, "not a control or data tag")
	}
	if f.tag.IsControlTag() != tag.IsControlTag() || f.tag == "" {
		f.value = ""
		f.indicators = [2]FieldIndicator{Blank, Blank}
		f.subfields = nil
	}
	f.tag = tag
	return nil
}

func (f RecordField) IsControlField() bool {
	return f.tag.IsControlTag()
}

func (f RecordField) IsDataField() bool {
	return f.tag.IsDataTag()
}

// Content returns a copy of the field content.
// It returns nil for the zero value.
func (f RecordField) Content() Content {
	switch {
	case f.tag.IsControlTag():
		return ControlContent{Value: f.value}
	case f.tag.IsDataTag():
		return DataContent{Indicators: f.indicators, Subfields: f.Subfields()}
	}
	return nil
}

// SetContent replaces the content of the field. ErrInvalidTag is returned if the content does not match the tag.
func (f *RecordField) SetContent(content Content) error {
	switch c := content.(type) {
	case ControlContent:
		if !f.tag.IsControlTag() {
			return newFieldError(ErrInvalidTag, f.tag, "control content for a field without a control tag")
		}
		f.value = c.Value
	case DataContent:
		if !f.tag.IsDataTag() {
			return newFieldError(ErrInvalidTag, f.tag, "data content for a field without a data tag")
		}
		f.indicators = c.Indicators
		f.subfields = copySubfields(c.Subfields)
	default:
		return newFieldError(ErrInvalidTag, f.tag, fmt.Sprintf("unsupported content %T", content))
	}
	return nil
}

// ControlValue returns the value of a control field. The boolean is false for data fields.
func (f RecordField) ControlValue() (string, bool) {
	if !f.tag.IsControlTag() {
		return "", false
	}
	return f.value, true
}

// SetControlValue sets the value of a control field. It does nothing and returns false for data fields.
func (f *RecordField) SetControlValue(value string) bool {
	if !f.tag.IsControlTag() {
		return false
	}
	f.value = value
	return true
}

// Indicators returns the indicators of a data field. The boolean is false for control fields.
func (f RecordField) Indicators() (FieldIndicator, FieldIndicator, bool) {
	if !f.tag.IsDataTag() {
		return 0, 0, false
	}
	return f.indicators[0], f.indicators[1], true
}

// SetIndicators sets the indicators of a data field. It does nothing and returns false for control fields.
func (f *RecordField) SetIndicators(ind1, ind2 FieldIndicator) bool {
	if !f.tag.IsDataTag() {
		return false
	}
	f.indicators = [2]FieldIndicator{ind1, ind2}
	return true
}

// Subfields returns a copy of the subfields of a data field. Control fields have no subfields.
func (f RecordField) Subfields() []Subfield {
	return copySubfields(f.subfields)
}

// SetSubfields replaces the subfields of a data field. It does nothing and returns false for control fields.
func (f *RecordField) SetSubfields(subfields ...Subfield) bool {
	if !f.tag.IsDataTag() {
		return false
	}
	f.subfields = copySubfields(subfields)
	return true
}

// AppendSubfield adds a subfield at the end of a data field. It does nothing and returns false for control fields.
func (f *RecordField) AppendSubfield(code SubfieldCode, content string) bool {
	if !f.tag.IsDataTag() {
		return false
	}
	s := make([]Subfield, len(f.subfields), len(f.subfields)+1)
	copy(s, f.subfields)
	f.subfields = append(s, Subfield{Code: code, Content: content})
	return true
}

// SubfieldsWithCode returns the subfields with the given code in order.
func (f RecordField) SubfieldsWithCode(code SubfieldCode) []Subfield {
	var result []Subfield
	for _, s := range f.subfields {
		if s.Code == code {
			result = append(result, s)
		}
	}
	return result
}

// StringValue returns the value of a control field or the content of all subfields concatenated
// without separators for a data field.
func (f RecordField) StringValue() string {
	if f.tag.IsControlTag() {
		return f.value
	}
	var sb strings.Builder
	for _, s := range f.subfields {
		sb.WriteString(s.Content)
	}
	return sb.String()
}

// Equal returns true if f and o have the same tag and content.
func (f RecordField) Equal(o RecordField) bool {
	if f.tag != o.tag || f.value != o.value || f.indicators != o.indicators || len(f.subfields) != len(o.subfields) {
		return false
	}
	for i := range f.subfields {
		if f.subfields[i] != o.subfields[i] {
			return false
		}
	}
	return true
}

func (f RecordField) String() string {
	if f.tag.IsControlTag() {
		return string(f.tag) + "    " + f.value
	}
	var sb strings.Builder
	sb.WriteString(string(f.tag))
	sb.WriteByte(' ')
	sb.WriteByte(byte(f.indicators[0]))
	sb.WriteByte(byte(f.indicators[1]))
	sb.WriteByte(' ')
	for _, s := range f.subfields {
		sb.WriteString(s.String())
	}
	return sb.String()
}

func (f RecordField) clone() RecordField {
	f.subfields = copySubfields(f.subfields)
	return f
}

func copySubfields(s []Subfield) []Subfield {
	if s == nil {
		return nil
	}
	c := make([]Subfield, len(s))
	copy(c, s)
	return c
}
