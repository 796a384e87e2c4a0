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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLeader(t *testing.T) {
	tests := []struct {
		name       string
		leader     string
		wantErr    bool
		wantOffset int
	}{
		{"valid", testRecordLeader, false, 0},
		{"authority", "00100nz  a2200049n  4500", false, 0},
		{"too short", "00233nam a2200073   450", true, 0},
		{"unknown kind", "00233nbm a2200073   4500", true, posRecordKind},
		{"non numeric length", "0023xnam a2200073   4500", true, posRecordLength},
		{"non numeric base address", "00233nam a22000x3   4500", true, posBaseAddress},
		{"three indicators", "00233nam a3200073   4500", true, posIndicatorCount},
		{"zero subfield code length", "00233nam a2000073   4500", true, posSubfieldCodeLength},
		{"non numeric entry map", "00233nam a2200073   x500", true, posLengthOfField},
		{"zero length of field", "00233nam a2200073   0500", true, posLengthOfField},
		{"zero starting position", "00233nam a2200073   4000", true, posFieldLocation},
		{"control character", "00233nam\ta2200073   4500", true, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			l, err := ParseLeader([]byte(tt.leader))
			if tt.wantErr {
				assert.True(errors.Is(err, ErrInvalidLeader), "expected ErrInvalidLeader, got %v", err)
				var se *SyntaxError
				if assert.True(errors.As(err, &se)) {
					assert.Equal(tt.wantOffset, se.Offset())
				}
				return
			}
			assert.NoError(err)
			assert.Equal(tt.leader, l.String())
		})
	}
}

func TestLeader_Accessors(t *testing.T) {
	assert := assert.New(t)
	l, err := ParseLeader([]byte(testRecordLeader))
	assert.NoError(err)

	assert.Equal(233, l.RecordLength())
	assert.Equal(73, l.BaseAddress())
	assert.Equal(StatusNew, l.RecordStatus())
	assert.Equal(LanguageMaterial, l.RecordKind())
	assert.Equal(UTF8, l.RecordEncoding())
	assert.Equal(2, l.NumberOfIndicators())
	assert.Equal(2, l.LengthOfSubfieldCode())
	assert.Equal(4, l.LengthOfLengthOfField())
	assert.Equal(5, l.LengthOfFieldLocation())
	assert.Equal(0, l.LengthOfImplementationDefined())
	assert.Equal(12, l.directoryEntryLength())
	assert.Equal(FullLevel, l.EncodingLevel())

	level, ok := l.BibliographicLevel()
	assert.True(ok)
	assert.Equal(Monograph, level)
	_, ok = l.BibliographicControlType()
	assert.True(ok)
	_, ok = l.DescriptiveCatalogingForm()
	assert.True(ok)
	_, ok = l.MultipartResourceRecordLevel()
	assert.True(ok)

	b := l.Bytes()
	b[0] = 'x'
	assert.Equal(testRecordLeader, l.String(), "Bytes must return a copy")
}

func TestLeader_ReservedValues(t *testing.T) {
	assert := assert.New(t)
	l := NewLeader(AuthorityData)

	// Bibliographic positions are undefined for authority records
	_, ok := l.BibliographicLevel()
	assert.False(ok)
	assert.False(l.SetBibliographicLevel(Serial))

	for _, pos := range []int{7, 8, 17, 18, 19} {
		assert.True(l.SetReservedValue(pos, 'x'), "position %d", pos)
		v, ok := l.ReservedValue(pos)
		assert.True(ok)
		assert.Equal(byte('x'), v)
	}
	for _, pos := range []int{-1, 0, 5, 6, 9, 10, 16, 20, 23, 24} {
		assert.False(l.SetReservedValue(pos, 'x'), "position %d", pos)
		_, ok := l.ReservedValue(pos)
		assert.False(ok)
	}
	assert.False(l.SetReservedValue(7, 0x1f))

	assert.True(l.SetEncodingLevel(CompleteLevel))
	assert.Equal(CompleteLevel, l.EncodingLevel())
}

func TestLeader_SetRecordKind(t *testing.T) {
	assert := assert.New(t)
	l := NewLeader(LanguageMaterial)
	assert.False(l.SetRecordKind('b'))
	assert.Equal(LanguageMaterial, l.RecordKind())
	assert.True(l.SetRecordKind(SerialItemHoldings))
	assert.Equal(SerialItemHoldings, l.RecordKind())
	assert.True(l.RecordKind().IsHoldings())
}

func TestLeader_setRecordLength(t *testing.T) {
	assert := assert.New(t)
	l := NewLeader(LanguageMaterial)
	assert.NoError(l.setRecordLength(99999))
	assert.Equal(99999, l.RecordLength())
	assert.NoError(l.setRecordLength(42))
	assert.Equal("00042", l.String()[0:5])
	assert.True(errors.Is(l.setRecordLength(100000), ErrFieldTooLarge))
	assert.True(errors.Is(l.setBaseAddress(-1), ErrFieldTooLarge))
	assert.Equal(42, l.RecordLength())
}

func TestRecordKind_Format(t *testing.T) {
	tests := []struct {
		kind RecordKind
		want RecordFormat
	}{
		{LanguageMaterial, BibliographicFormat},
		{ManuscriptLanguageMaterial, BibliographicFormat},
		{ComputerFile, BibliographicFormat},
		{AuthorityData, AuthorityFormat},
		{UnknownHoldings, HoldingsFormat},
		{SerialItemHoldings, HoldingsFormat},
		{Classification, ClassificationFormat},
		{CommunityInformation, CommunityFormat},
		{'b', UnknownFormat},
		{' ', UnknownFormat},
	}
	for _, tt := range tests {
		t.Run(string(rune(tt.kind)), func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tt.want, tt.kind.Format())
			assert.Equal(tt.want != UnknownFormat, tt.kind.IsValid())
		})
	}
}
