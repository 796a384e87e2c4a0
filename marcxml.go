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
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// MarcXMLNamespace is the namespace of the MARC 21 XML schema.
const MarcXMLNamespace = "http://www.loc.gov/MARC21/slim"

var (
	xmlnsAttr = xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: MarcXMLNamespace}
	xmlRecord = xml.Name{Local: "record"}
)

// XMLEncoder writes records as a MARCXML collection.
type XMLEncoder struct {
	enc     *xml.Encoder
	started bool
	closed  bool
}

// NewXMLEncoder returns an XMLEncoder writing to w. Close must be called to end the collection.
func NewXMLEncoder(w io.Writer) *XMLEncoder {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return &XMLEncoder{enc: enc}
}

// Encode writes one record to the collection.
func (e *XMLEncoder) Encode(r *Record) error {
	if e.closed {
		return errors.New("gomarc: write to closed XMLEncoder")
	}
	if err := e.start(); err != nil {
		return err
	}
	if err := encodeXMLRecord(e.enc, r, nil); err != nil {
		return err
	}
	return e.enc.Flush()
}

// Close ends the collection. An encoder which never wrote a record writes an empty collection.
func (e *XMLEncoder) Close() error {
	if e.closed {
		return nil
	}
	if err := e.start(); err != nil {
		return err
	}
	e.closed = true
	if err := e.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "collection"}}); err != nil {
		return err
	}
	return e.enc.Flush()
}

func (e *XMLEncoder) start() error {
	if e.started {
		return nil
	}
	e.started = true
	if err := e.enc.EncodeToken(xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="UTF-8"`)}); err != nil {
		return err
	}
	if err := e.enc.EncodeToken(xml.CharData("\n")); err != nil {
		return err
	}
	return e.enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: "collection"}, Attr: []xml.Attr{xmlnsAttr}})
}

func encodeXMLRecord(enc *xml.Encoder, r *Record, attrs []xml.Attr) error {
	if r == nil {
		return errors.New("gomarc: nil record")
	}
	if err := enc.EncodeToken(xml.StartElement{Name: xmlRecord, Attr: attrs}); err != nil {
		return err
	}
	if err := encodeXMLText(enc, "leader", nil, r.Leader.String()); err != nil {
		return err
	}
	for _, f := range r.Fields {
		switch {
		case f.tag.IsControlTag():
			attrs := []xml.Attr{{Name: xml.Name{Local: "tag"}, Value: string(f.tag)}}
			if err := encodeXMLText(enc, "controlfield", attrs, f.value); err != nil {
				return err
			}
		case f.tag.IsDataTag():
			start := xml.StartElement{Name: xml.Name{Local: "datafield"}, Attr: []xml.Attr{
				{Name: xml.Name{Local: "tag"}, Value: string(f.tag)},
				{Name: xml.Name{Local: "ind1"}, Value: f.indicators[0].String()},
				{Name: xml.Name{Local: "ind2"}, Value: f.indicators[1].String()},
			}}
			if err := enc.EncodeToken(start); err != nil {
				return err
			}
			for _, s := range f.subfields {
				attrs := []xml.Attr{{Name: xml.Name{Local: "code"}, Value: string(s.Code)}}
				if err := encodeXMLText(enc, "subfield", attrs, s.Content); err != nil {
					return err
				}
			}
			if err := enc.EncodeToken(start.End()); err != nil {
				return err
			}
		default:
			return newFieldError(ErrInvalidTag, f.tag, "not a control or data tag")
		}
	}
	return enc.EncodeToken(xml.EndElement{Name: xmlRecord})
}

func encodeXMLText(enc *xml.Encoder, name string, attrs []xml.Attr, text string) error {
	start := xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.CharData(text)); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

type xmlMarshaler struct {
}

// NewXMLMarshaler returns a Marshaler writing each record as a standalone MARCXML record element.
func NewXMLMarshaler() Marshaler {
	return &xmlMarshaler{}
}

func (m *xmlMarshaler) Marshal(w io.Writer, record *Record) (int64, error) {
	buf := &bytes.Buffer{}
	enc := xml.NewEncoder(buf)
	if err := encodeXMLRecord(enc, record, []xml.Attr{xmlnsAttr}); err != nil {
		return 0, err
	}
	if err := enc.Flush(); err != nil {
		return 0, err
	}
	buf.WriteByte('\n')
	return buf.WriteTo(w)
}

// XMLDecoder reads records from MARCXML. The input can be a collection or a single record.
type XMLDecoder struct {
	dec *xml.Decoder
}

// NewXMLDecoder returns an XMLDecoder reading from r.
func NewXMLDecoder(r io.Reader) *XMLDecoder {
	return &XMLDecoder{dec: xml.NewDecoder(r)}
}

type xmlControlField struct {
	Tag   string `xml:"tag,attr"`
	Value string `xml:",chardata"`
}

type xmlSubfield struct {
	Code  string `xml:"code,attr"`
	Value string `xml:",chardata"`
}

type xmlDataField struct {
	Tag       string        `xml:"tag,attr"`
	Ind1      string        `xml:"ind1,attr"`
	Ind2      string        `xml:"ind2,attr"`
	Subfields []xmlSubfield `xml:"subfield"`
}

// Decode returns the next record. io.EOF is returned when there are no more records.
func (d *XMLDecoder) Decode() (*Record, error) {
	for {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, err
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "record" {
			return d.decodeRecord()
		}
	}
}

func (d *XMLDecoder) decodeRecord() (*Record, error) {
	r := &Record{}
	hasLeader := false
	for {
		tok, err := d.dec.Token()
		if isUnexpectedEOF(err) {
			return nil, newSyntaxError(ErrTruncatedRecord, -1, "MARCXML ended inside a record")
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == "record" {
				if !hasLeader {
					return nil, newSyntaxError(ErrInvalidLeader, -1, "MARCXML record without leader")
				}
				return r, nil
			}
		case xml.StartElement:
			switch t.Name.Local {
			case "leader":
				var s string
				if err := d.dec.DecodeElement(&s, &t); err != nil {
					return nil, err
				}
				if r.Leader, err = parseXMLLeader(s); err != nil {
					return nil, err
				}
				hasLeader = true
			case "controlfield":
				var cf xmlControlField
				if err := d.dec.DecodeElement(&cf, &t); err != nil {
					return nil, err
				}
				f, err := NewControlField(FieldTag(cf.Tag), cf.Value)
				if err != nil {
					return nil, err
				}
				r.Fields = append(r.Fields, f)
			case "datafield":
				var df xmlDataField
				if err := d.dec.DecodeElement(&df, &t); err != nil {
					return nil, err
				}
				f, err := df.toField()
				if err != nil {
					return nil, err
				}
				r.Fields = append(r.Fields, f)
			default:
				if err := d.dec.Skip(); err != nil {
					return nil, err
				}
			}
		}
	}
}

// isUnexpectedEOF returns true if the xml decoder reached the end of input with open elements.
func isUnexpectedEOF(err error) bool {
	var se *xml.SyntaxError
	return err == io.EOF || (errors.As(err, &se) && se.Msg == "unexpected EOF")
}

func (df *xmlDataField) toField() (RecordField, error) {
	tag := FieldTag(df.Tag)
	ind1, err := parseXMLIndicator(tag, df.Ind1)
	if err != nil {
		return RecordField{}, err
	}
	ind2, err := parseXMLIndicator(tag, df.Ind2)
	if err != nil {
		return RecordField{}, err
	}
	subfields := make([]Subfield, len(df.Subfields))
	for i, s := range df.Subfields {
		subfields[i] = Subfield{Code: SubfieldCode(s.Code), Content: s.Value}
	}
	return NewDataField(tag, ind1, ind2, subfields...)
}

func parseXMLIndicator(tag FieldTag, s string) (FieldIndicator, error) {
	switch {
	case s == "":
		return Blank, nil
	case len(s) == 1 && FieldIndicator(s[0]).IsVisible():
		return FieldIndicator(s[0]), nil
	}
	return 0, newFieldError(ErrMalformedField, tag, fmt.Sprintf("indicator '%s' is not a single printable byte", s))
}

// parseXMLLeader parses a leader from MARCXML. Record length and base address are often left blank
// in MARCXML since they are only meaningful in the binary format, so they are zero filled before parsing.
func parseXMLLeader(s string) (Leader, error) {
	b := []byte(s)
	if len(b) == LeaderLength {
		for _, p := range []int{posRecordLength, posBaseAddress} {
			for i := p; i < p+5; i++ {
				if b[i] == ' ' {
					b[i] = '0'
				}
			}
		}
	}
	return ParseLeader(b)
}
