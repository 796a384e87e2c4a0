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
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nlnwa/gomarc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	tests := []struct {
		name   string
		record *gomarc.Record
		want   *Entry
	}{
		{
			"full record",
			testRecord("15434749"),
			&Entry{
				ControlNumber: "15434749",
				Ref:           "marcfile:a.mrc:233",
				Format:        "bibliographic",
				Kind:          "a",
				Status:        "n",
				Updated:       "20210304120000",
				Isbn:          []string{"0385527888"},
				Title:         "In the land of invented languages :",
			},
		},
		{
			"authority record",
			gomarc.NewRecord(gomarc.AuthorityData, gomarc.MustControlField(gomarc.ControlNumberTag, "n79021164")),
			&Entry{
				ControlNumber: "n79021164",
				Ref:           "marcfile:a.mrc:233",
				Format:        "authority",
				Kind:          "z",
				Status:        "n",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewEntry(tt.record, "a.mrc", 233))
		})
	}
}

func TestJsonWriter(t *testing.T) {
	assert := assert.New(t)
	buf := &bytes.Buffer{}
	w := &JsonWriter{W: buf}
	assert.NoError(w.Write(gomarc.NewRecord(gomarc.AuthorityData, gomarc.MustControlField(gomarc.ControlNumberTag, "n79021164")), "/data/a.mrc", 10))
	assert.Equal(`n79021164 marcfile:a.mrc:10 {"cn":"n79021164","ref":"marcfile:a.mrc:10","fmt":"authority","kind":"z","sta":"n"}`+"\n", buf.String())
}

func TestAutoIndexer(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := t.TempDir()
	subDir := filepath.Join(dir, "sub")
	require.NoError(os.Mkdir(subDir, 0755))
	writeTestFile(t, dir, "a.mrc", testRecord("1"))
	writeTestFile(t, subDir, "b.mrc", testRecord("2"))
	writeTestFile(t, dir, "c.mrc.open", testRecord("3"))

	opts := DefaultOptions().WithDir(t.TempDir()).WithBatchMaxWait(10 * time.Millisecond).WithIndexDelay(10 * time.Millisecond)
	db, err := NewIndexDb(opts)
	require.NoError(err)
	defer func() { assert.NoError(db.Close()) }()

	a, err := NewAutoIndexer(db, []string{dir}, opts)
	require.NoError(err)

	found := func(id string) func() bool {
		return func() bool {
			_, err := db.GetStorageRef(id)
			return err == nil
		}
	}
	assert.Eventually(found("1"), 5*time.Second, 10*time.Millisecond)
	assert.Eventually(found("2"), 5*time.Second, 10*time.Millisecond)

	// A file appearing after startup is picked up
	writeTestFile(t, dir, "d.mrc", testRecord("4"))
	assert.Eventually(found("4"), 5*time.Second, 10*time.Millisecond)

	a.Shutdown()

	_, err = db.GetStorageRef("3")
	assert.Error(err, "open files are not indexed")
}

func TestNewAutoIndexer_missingDir(t *testing.T) {
	opts := DefaultOptions().WithDir(t.TempDir())
	db, err := NewIndexDb(opts)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = NewAutoIndexer(db, []string{filepath.Join(t.TempDir(), "missing")}, opts)
	assert.Error(t, err)
}
