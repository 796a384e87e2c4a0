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
	"errors"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/nlnwa/gomarc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(controlNumber string) *gomarc.Record {
	r := gomarc.NewRecord(gomarc.LanguageMaterial,
		gomarc.MustControlField(gomarc.LatestTransactionTag, "20210304120000.0"),
		gomarc.MustDataField(gomarc.ISBNTag, gomarc.Blank, gomarc.Blank, gomarc.Subfield{Code: "a", Content: "0385527888"}),
		gomarc.MustDataField(gomarc.TitleStatementTag, '1', '0', gomarc.Subfield{Code: "a", Content: "In the land of invented languages :"}),
	)
	if controlNumber != "" {
		_ = r.InsertField(0, gomarc.MustControlField(gomarc.ControlNumberTag, controlNumber))
	}
	return r
}

// writeTestFile writes the records to a file in dir and returns its path and the offset of each record.
func writeTestFile(t *testing.T, dir, name string, records ...*gomarc.Record) (string, []int64) {
	buf := &bytes.Buffer{}
	var offsets []int64
	for _, r := range records {
		offsets = append(offsets, int64(buf.Len()))
		b, err := gomarc.Encode(r)
		require.NoError(t, err)
		buf.Write(b)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, buf.Bytes(), 0644))
	return path, offsets
}

func openTestDb(t *testing.T, opts Options) *Db {
	db, err := NewIndexDb(opts.WithDir(t.TempDir()))
	require.NoError(t, err)
	return db
}

func TestDb_AddAndGet(t *testing.T) {
	assert := assert.New(t)
	db := openTestDb(t, DefaultOptions().WithBatchMaxWait(0))
	defer func() { assert.NoError(db.Close()) }()

	assert.NoError(db.Add("15434749", "/data/a.mrc", 0))
	assert.NoError(db.Add("n79021164", "/data/a.mrc", 233))
	assert.NoError(db.Add("42", "/other/b.mrc", 100))
	assert.Error(db.Add("", "/data/a.mrc", 466))

	// Not visible before flush
	_, err := db.GetStorageRef("15434749")
	assert.True(errors.Is(err, ErrNotFound))

	assert.NoError(db.Flush())
	tests := []struct {
		id   string
		want string
	}{
		{"15434749", "marcfile:a.mrc:0"},
		{"n79021164", "marcfile:a.mrc:233"},
		{"42", "marcfile:b.mrc:100"},
	}
	for _, tt := range tests {
		ref, err := db.GetStorageRef(tt.id)
		assert.NoError(err)
		assert.Equal(tt.want, ref)
	}

	p, err := db.GetFilePath("a.mrc")
	assert.NoError(err)
	assert.Equal("/data/a.mrc", p)

	_, err = db.GetFilePath("c.mrc")
	assert.True(errors.Is(err, ErrNotFound))

	paths, err := db.ListFilePaths()
	assert.NoError(err)
	assert.Equal([]string{"/data/a.mrc", "/other/b.mrc"}, paths)
}

func TestDb_batchFull(t *testing.T) {
	assert := assert.New(t)
	db := openTestDb(t, DefaultOptions().WithBatchMaxSize(2).WithBatchMaxWait(0))
	defer func() { assert.NoError(db.Close()) }()

	assert.NoError(db.Add("1", "/data/a.mrc", 0))
	_, err := db.GetStorageRef("1")
	assert.True(errors.Is(err, ErrNotFound))

	assert.NoError(db.Add("2", "/data/a.mrc", 10))
	ref, err := db.GetStorageRef("1")
	assert.NoError(err)
	assert.Equal("marcfile:a.mrc:0", ref)
}

func TestDb_flushTimer(t *testing.T) {
	db := openTestDb(t, DefaultOptions().WithBatchMaxWait(10*time.Millisecond))
	defer func() { assert.NoError(t, db.Close()) }()

	assert.NoError(t, db.Add("1", "/data/a.mrc", 0))
	assert.Eventually(t, func() bool {
		_, err := db.GetStorageRef("1")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDb_closeFlushesAndPersists(t *testing.T) {
	assert := assert.New(t)
	opts := DefaultOptions().WithDir(t.TempDir()).WithSync(true)

	db, err := NewIndexDb(opts)
	require.NoError(t, err)
	assert.NoError(db.Add("1", "/data/a.mrc", 0))
	assert.NoError(db.Close())

	db, err = NewIndexDb(opts)
	require.NoError(t, err)
	ref, err := db.GetStorageRef("1")
	assert.NoError(err)
	assert.Equal("marcfile:a.mrc:0", ref)
	assert.NoError(db.Close())

	assert.NoError(db.Delete())
	assert.NoDirExists(filepath.Join(opts.Dir, "marcdb"))
}

type recordingWriter struct {
	mu      sync.Mutex
	entries []string
}

func (w *recordingWriter) Write(r *gomarc.Record, fileName string, offset int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, NewEntry(r, filepath.Base(fileName), offset).Ref+" "+r.ControlNumber())
	return nil
}

func (w *recordingWriter) get() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.entries...)
}

func TestIndexFile(t *testing.T) {
	assert := assert.New(t)
	path, offsets := writeTestFile(t, t.TempDir(), "a.mrc", testRecord("1"), testRecord(""), testRecord("3"))

	w := &recordingWriter{}
	count, err := IndexFile(w, path)
	assert.NoError(err)
	assert.Equal(2, count)
	assert.Equal([]string{
		"marcfile:a.mrc:0 1",
		"marcfile:a.mrc:" + itoa(offsets[2]) + " 3",
	}, w.get())

	_, err = IndexFile(w, filepath.Join(t.TempDir(), "missing.mrc"))
	assert.Error(err)
}

func TestIndexFile_brokenRecord(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	good, err := gomarc.Encode(testRecord("1"))
	require.NoError(t, err)
	broken := append([]byte(nil), good...)
	broken[6] = 'b'
	path := filepath.Join(dir, "broken.mrc")
	require.NoError(t, ioutil.WriteFile(path, append(broken, good...), 0644))

	w := &recordingWriter{}
	count, err := IndexFile(w, path)
	assert.NoError(err)
	assert.Equal(1, count)
	assert.Equal([]string{"marcfile:broken.mrc:" + itoa(int64(len(good))) + " 1"}, w.get())
}

func TestIndexWorker(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	p1, _ := writeTestFile(t, dir, "a.mrc", testRecord("1"))
	p2, _ := writeTestFile(t, dir, "b.mrc", testRecord("2"))

	w := &recordingWriter{}
	iw := NewIndexWorker(w, 2)
	iw.Queue(p1, 0)
	iw.Queue(p2, 20*time.Millisecond)
	iw.Queue(p2, 20*time.Millisecond)

	assert.Eventually(func() bool { return len(w.get()) == 2 }, 2*time.Second, 10*time.Millisecond)
	iw.Shutdown()
	assert.ElementsMatch([]string{"marcfile:a.mrc:0 1", "marcfile:b.mrc:0 2"}, w.get())
}

func TestIndexWorker_shutdownCancelsPending(t *testing.T) {
	dir := t.TempDir()
	p, _ := writeTestFile(t, dir, "a.mrc", testRecord("1"))

	w := &recordingWriter{}
	iw := NewIndexWorker(w, 1)
	iw.Queue(p, time.Hour)
	iw.Shutdown()
	assert.Empty(t, w.get())
}

func itoa(i int64) string {
	return strconv.FormatInt(i, 10)
}
