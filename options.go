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

import "fmt"

type recordOptions struct {
	errSyntax    errorPolicy // How to handle bytes between records
	errSpec      errorPolicy // How to handle spec violations like a wrong record length
	errIndicator errorPolicy // How to handle visible indicators outside the nominal range
	workers      int         // Number of goroutines used by DecodeBatch
}

// The errorPolicy constants describe how to handle MARC record errors.
type errorPolicy int8

const (
	ErrIgnore errorPolicy = 0 // Ignore the given error.
	ErrWarn   errorPolicy = 1 // Ignore given error, but submit a warning.
	ErrFail   errorPolicy = 2 // Fail on given error.
)

func (p errorPolicy) String() string {
	switch p {
	case ErrIgnore:
		return "ignore"
	case ErrWarn:
		return "warn"
	case ErrFail:
		return "fail"
	}
	return fmt.Sprintf("errorPolicy(%d)", int8(p))
}

// RecordOption configures validation, serialization and deserialization of MARC records.
type RecordOption interface {
	apply(*recordOptions)
}

// funcRecordOption wraps a function that modifies recordOptions into an
// implementation of the RecordOption interface.
type funcRecordOption struct {
	f func(*recordOptions)
}

func (fo *funcRecordOption) apply(po *recordOptions) {
	fo.f(po)
}

func newFuncRecordOption(f func(*recordOptions)) *funcRecordOption {
	return &funcRecordOption{
		f: f,
	}
}

func defaultRecordOptions() recordOptions {
	return recordOptions{
		errSyntax:    ErrWarn,
		errSpec:      ErrWarn,
		errIndicator: ErrIgnore,
		workers:      4,
	}
}

func newOptions(opts ...RecordOption) *recordOptions {
	o := defaultRecordOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	return &o
}

// WithSyntaxErrorPolicy sets the policy for handling syntax errors, like junk between records in a stream.
// defaults to ErrWarn
func WithSyntaxErrorPolicy(policy errorPolicy) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.errSyntax = policy
	})
}

// WithSpecViolationPolicy sets the policy for handling violations of the MARC 21 format,
// like a record length in the leader which is shorter than the data.
// defaults to ErrWarn
func WithSpecViolationPolicy(policy errorPolicy) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.errSpec = policy
	})
}

// WithIndicatorPolicy sets the policy for handling indicators which are visible ASCII,
// but not a blank, a digit or a lowercase letter.
// defaults to ErrIgnore
func WithIndicatorPolicy(policy errorPolicy) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.errIndicator = policy
	})
}

// WithWorkers sets the number of goroutines used when decoding a batch of records.
// defaults to 4
func WithWorkers(n int) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		if n > 0 {
			o.workers = n
		}
	})
}

// WithStrictValidation sets the error policies to fail on every deviation from the format.
func WithStrictValidation() RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.errSyntax = ErrFail
		o.errSpec = ErrFail
		o.errIndicator = ErrFail
	})
}

// WithNoValidation sets the error policies to ignore every recoverable deviation from the format.
func WithNoValidation() RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.errSyntax = ErrIgnore
		o.errSpec = ErrIgnore
		o.errIndicator = ErrIgnore
	})
}
