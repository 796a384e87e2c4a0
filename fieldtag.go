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

// FieldTag identifies a field. It is exactly three ASCII digits.
//
// Tags 001-009 are control tags, every other valid tag except 000 is a data tag.
// Tag 000 is reserved for the leader and is neither.
type FieldTag string

// Well known tags
const (
	ControlNumberTag           FieldTag = "001"
	ControlNumberIdentifierTag FieldTag = "003"
	LatestTransactionTag       FieldTag = "005"
	FixedLengthDataTag         FieldTag = "008"
	ISBNTag                    FieldTag = "020"
	TitleStatementTag          FieldTag = "245"
)

const leaderTag FieldTag = "000"

// ParseFieldTag returns s as a FieldTag if it is three ASCII digits.
func ParseFieldTag(s string) (FieldTag, error) {
	t := FieldTag(s)
	if !t.IsValid() {
		return "", newFieldError(ErrInvalidTag, "", "tag '"+s+"' is not three digits")
	}
	return t, nil
}

// IsValid returns true if t is exactly three ASCII digits.
func (t FieldTag) IsValid() bool {
	if len(t) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if !isDigit(t[i]) {
			return false
		}
	}
	return true
}

// IsControlTag returns true for the tags 001-009.
func (t FieldTag) IsControlTag() bool {
	return t.IsValid() && t[0] == '0' && t[1] == '0' && t != leaderTag
}

// IsDataTag returns true for valid tags which are neither control tags nor 000.
func (t FieldTag) IsDataTag() bool {
	return t.IsValid() && t != leaderTag && !t.IsControlTag()
}

func (t FieldTag) String() string {
	return string(t)
}
