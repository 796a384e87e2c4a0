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


package index

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/nlnwa/gomarc"
)

// RecordWriter is the interface that wraps the Write function.
//
// Write indexes one record found at offset in the named file.
type RecordWriter interface {
	Write(r *gomarc.Record, fileName string, offset int64) error
}

// DbWriter adds records to an index database.
type DbWriter struct {
	Db *Db
}

// JsonWriter writes one line per record with the control number, the storage reference and the entry as JSON.
// Only the base name of the file is used in the storage reference.
type JsonWriter struct {
	W io.Writer
}

func (w *DbWriter) Write(r *gomarc.Record, fileName string, offset int64) error {
	return w.Db.Add(r.ControlNumber(), fileName, offset)
}

func (w *JsonWriter) Write(r *gomarc.Record, fileName string, offset int64) error {
	e := NewEntry(r, filepath.Base(fileName), offset)
	j, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w.W, "%s %s %s\n", e.ControlNumber, e.Ref, j)
	return err
}
