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
	"os"
	"path/filepath"
)

func Example() {
	directory, err := os.MkdirTemp("", "example")
	if err != nil {
		panic(err)
	}
	defer func() { _ = os.RemoveAll(directory) }()

	nameGenerator := &PatternNameGenerator{Directory: directory, Prefix: "example-", Pattern: "%{prefix}s%04{serial}d.mrc"}
	w := NewMarcFileWriter(WithFileNameGenerator(nameGenerator))

	r := NewRecord(LanguageMaterial)
	_ = r.AddControlField(ControlNumberTag, "15434749")
	_ = r.AddDataField(TitleStatementTag, '1', '0', Subfield{"a", "In the land of invented languages"})

	res := w.Write(r, r)
	for _, wr := range res {
		fmt.Printf("%s %d %d\n", wr.FileName, wr.FileOffset, wr.BytesWritten)
	}
	_ = w.Close()

	reader, err := NewMarcFileReader(filepath.Join(directory, "example-0001.mrc"), res[1].FileOffset)
	if err != nil {
		panic(err)
	}
	defer func() { _ = reader.Close() }()
	if rec, offset, _, err := reader.Next(); err == nil {
		fmt.Printf("%d: %s", offset, rec)
	}
	// Output:
	// example-0001.mrc 0 97
	// example-0001.mrc 97 97
	// 97: MARC record: kind: language material, status: n, control number: 15434749, fields: 2
}
