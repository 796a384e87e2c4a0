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

// Package timestamp formats the timestamps used in generated file names and in the 005 field
// (date and time of latest transaction).
package timestamp

import (
	"time"
)

const (
	layout14         = "20060102150405"
	layoutW3cIso8601 = "2006-01-02T15:04:05Z07:00"
	// layoutTransaction is the format of field 005: yyyymmddhhmmss.f
	layoutTransaction = "20060102150405.0"
)

// UTC returns t in UTC.
func UTC(t time.Time) time.Time {
	return t.In(time.UTC)
}

// UTC14 formats t as a 14 digit UTC timestamp.
func UTC14(t time.Time) string {
	return t.In(time.UTC).Format(layout14)
}

// UTCW3cIso8601 formats t as a W3C ISO 8601 UTC timestamp.
func UTCW3cIso8601(t time.Time) string {
	return t.In(time.UTC).Format(layoutW3cIso8601)
}

// To14 converts a W3C ISO 8601 timestamp to a 14 digit timestamp.
func To14(s string) (string, error) {
	t, err := time.Parse(layoutW3cIso8601, s)
	if err != nil {
		return "", err
	}
	return UTC14(t), nil
}

// From14ToTime parses a 14 digit timestamp.
func From14ToTime(s string) (time.Time, error) {
	return time.Parse(layout14, s)
}

// Transaction formats t the way field 005 holds the date and time of the latest transaction.
func Transaction(t time.Time) string {
	return t.In(time.UTC).Format(layoutTransaction)
}

// FromTransaction parses the content of field 005.
func FromTransaction(s string) (time.Time, error) {
	return time.Parse(layoutTransaction, s)
}
