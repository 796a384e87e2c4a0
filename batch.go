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
	"context"
	"fmt"
	"sync"
)

// SplitRecords returns the records in data, each ending with its record terminator.
//
// Boundaries are found by scanning for the record terminator. Bytes after the last terminator are reported as
// ErrTruncatedRecord unless they are only whitespace.
func SplitRecords(data []byte) ([][]byte, error) {
	var result [][]byte
	for len(data) > 0 {
		i := bytes.IndexByte(data, RecordTerminator)
		if i < 0 {
			if len(bytes.TrimSpace(data)) == 0 {
				break
			}
			return result, newSyntaxErrorf(ErrTruncatedRecord, -1, "%d bytes after the last record terminator", len(data))
		}
		// Skip line breaks some producers put between records
		rec := bytes.TrimLeft(data[:i+1], " \r\n")
		if len(rec) > 1 {
			result = append(result, rec)
		}
		data = data[i+1:]
	}
	return result, nil
}

// BatchResult holds the outcome of decoding one record in a batch.
type BatchResult struct {
	Record     *Record
	Validation *Validation
	Err        error
}

// DecodeBatch decodes every record in data.
//
// Record boundaries are located sequentially, then the records are decoded in parallel by the number of workers
// set with WithWorkers. The results are in the same order as the records in data. An error is only returned
// if the boundaries could not be found or ctx was cancelled. Errors for single records are in the results.
func DecodeBatch(ctx context.Context, data []byte, opts ...RecordOption) ([]BatchResult, error) {
	chunks, err := SplitRecords(data)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts...)
	decoder := &Decoder{opts: o}
	results := make([]BatchResult, len(chunks))

	indexes := make(chan int)
	wg := &sync.WaitGroup{}
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				r, v, err := decoder.Decode(chunks[i])
				results[i] = BatchResult{Record: r, Validation: v, Err: err}
			}
		}()
	}

	var cancelled error
feed:
	for i := range chunks {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	return results, nil
}

// DecodeAll decodes every record in data, failing on the first record which can not be decoded.
func DecodeAll(ctx context.Context, data []byte, opts ...RecordOption) ([]*Record, error) {
	results, err := DecodeBatch(ctx, data, opts...)
	if err != nil {
		return nil, err
	}
	records := make([]*Record, len(results))
	for i, r := range results {
		if r.Err != nil {
			return nil, fmt.Errorf("record %d: %w", i, r.Err)
		}
		records[i] = r.Record
	}
	return records, nil
}

// EncodeBatch encodes the records and concatenates them.
func EncodeBatch(records []*Record) ([]byte, error) {
	buf := &bytes.Buffer{}
	for i, r := range records {
		b, err := Encode(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		buf.Write(b)
	}
	return buf.Bytes(), nil
}
