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
	"strconv"

	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/internal/timestamp"
)

// Entry is a summary of a record and where it is stored.
type Entry struct {
	ControlNumber string   `json:"cn"`
	Ref           string   `json:"ref"`
	Format        string   `json:"fmt"`
	Kind          string   `json:"kind"`
	Status        string   `json:"sta"`
	Updated       string   `json:"upd,omitempty"`
	Isbn          []string `json:"isbn,omitempty"`
	Title         string   `json:"tit,omitempty"`
}

func NewEntry(r *gomarc.Record, fileName string, offset int64) *Entry {
	e := &Entry{
		ControlNumber: r.ControlNumber(),
		Ref:           StorageRefPrefix + fileName + ":" + strconv.FormatInt(offset, 10),
		Format:        r.Kind().Format().String(),
		Kind:          string(rune(r.Kind())),
		Status:        string(rune(r.Status())),
		Isbn:          r.ContentWith(gomarc.NewSubfieldPath(gomarc.ISBNTag, "a")),
	}
	if len(e.Isbn) == 0 {
		e.Isbn = nil
	}
	if title := r.ContentWith(gomarc.NewSubfieldPath(gomarc.TitleStatementTag, "a")); len(title) > 0 {
		e.Title = title[0]
	}
	if upd := r.ContentWith(gomarc.NewFieldPath(gomarc.LatestTransactionTag)); len(upd) > 0 {
		if t, err := timestamp.FromTransaction(upd[0]); err == nil {
			e.Updated = timestamp.UTC14(t)
		}
	}
	return e
}
