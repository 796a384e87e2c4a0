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
	"strconv"
	"strings"
)

// Validation contain validation results.
type Validation []error

func (v *Validation) String() string {
	if len(*v) == 0 {
		return ""
	}

	sb := strings.Builder{}
	sb.WriteString("gomarc: Validation errors:\n")
	for i, e := range *v {
		sb.WriteString("  ")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(": ")
		sb.WriteString(e.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (v *Validation) AddError(err error) {
	*v = append(*v, err)
}

// Valid returns true if no validation errors were collected.
func (v *Validation) Valid() bool {
	return v == nil || len(*v) == 0
}

// handle applies policy to err. It returns err if the policy is ErrFail, adds it to v if the policy is ErrWarn
// and returns nil otherwise.
func (v *Validation) handle(policy errorPolicy, err error) error {
	switch policy {
	case ErrFail:
		return err
	case ErrWarn:
		v.AddError(err)
	}
	return nil
}
