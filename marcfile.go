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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nlnwa/gomarc/internal"
	"github.com/nlnwa/gomarc/internal/countingreader"
	"github.com/nlnwa/gomarc/internal/timestamp"
	"github.com/prometheus/tsdb/fileutil"
	"github.com/segmentio/ksuid"
	log "github.com/sirupsen/logrus"
)

// MarcFileNameGenerator is the interface that wraps the NewMarcfileName function.
type MarcFileNameGenerator interface {
	// NewMarcfileName returns a directory (might be the empty string for current directory) and a file name
	NewMarcfileName() (string, string)
}

// PatternNameGenerator implements the MarcFileNameGenerator.
//
// The pattern may reference the parameters prefix, ts (14 digit UTC timestamp), serial, host, uuid and ksuid.
// A ksuid sorts by creation time.
type PatternNameGenerator struct {
	Directory string // Directory to store MARC files. Defaults to the empty string
	Prefix    string // Prefix available to be used in pattern. Defaults to the empty string
	Serial    int32  // Serial number available for use in pattern. It is atomically increased with every generated file name.
	Pattern   string // Pattern for generated file name. Defaults to: "%{prefix}s%{ts}s-%04{serial}d-%{host}s.mrc"
}

const defaultPattern = "%{prefix}s%{ts}s-%04{serial}d-%{host}s.mrc"

// Allow overriding of time.Now for tests
var now = time.Now

func (g *PatternNameGenerator) NewMarcfileName() (string, string) {
	pattern := g.Pattern
	if pattern == "" {
		pattern = defaultPattern
	}
	t := now()
	id, err := ksuid.NewRandomWithTime(t)
	if err != nil {
		id = ksuid.New()
	}
	params := map[string]interface{}{
		"prefix": g.Prefix,
		"ts":     timestamp.UTC14(t),
		"serial": atomic.AddInt32(&g.Serial, 1),
		"host":   internal.GetHostNameOrIP(),
		"uuid":   uuid.New().String(),
		"ksuid":  id.String(),
	}

	name := internal.Sprintt(pattern, params)
	return g.Directory, name
}

// MarcFileWriter writes records to one or more files, starting a new file when the current one is full.
type MarcFileWriter struct {
	opts        *marcFileWriterOptions
	writers     []*singleMarcFileWriter
	shutWriters *sync.WaitGroup
	jobs        chan *job
	middleCh    chan *job
	closing     chan struct{} // signal channel
	closed      chan struct{}
}

func (w *MarcFileWriter) String() string {
	return fmt.Sprintf("MarcFileWriter (%s)", w.opts)
}

// NewMarcFileWriter creates a new MarcFileWriter with the supplied options.
func NewMarcFileWriter(opts ...MarcFileWriterOption) *MarcFileWriter {
	o := defaultMarcFileWriterOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	w := &MarcFileWriter{opts: &o,
		closing:     make(chan struct{}),
		closed:      make(chan struct{}),
		middleCh:    make(chan *job),
		jobs:        make(chan *job),
		shutWriters: &sync.WaitGroup{},
	}
	w.shutWriters.Add(o.maxConcurrentWriters)

	// the middle layer
	go func() {
		exit := func(v *job, needSend bool) {
			close(w.closed)
			if needSend {
				w.jobs <- v
			}
			close(w.jobs)
		}

		for {
			select {
			case <-w.closing:
				exit(nil, false)
				return
			case v := <-w.middleCh:
				select {
				case <-w.closing:
					exit(v, true)
					return
				case w.jobs <- v:
				}
			}
		}
	}()

	for i := 0; i < o.maxConcurrentWriters; i++ {
		writer := &singleMarcFileWriter{opts: &o, shutWriters: w.shutWriters}
		w.writers = append(w.writers, writer)
		go worker(writer, w.jobs)
	}
	return w
}

func worker(w *singleMarcFileWriter, jobs <-chan *job) {
	defer func() {
		if err := w.Close(); err != nil {
			log.Error(err)
		}
		w.shutWriters.Done()
	}()

	for j := range jobs {
		res := make([]WriteResponse, len(j.records))
		for i, r := range j.records {
			res[i] = w.Write(r)
		}
		j.responses <- res
	}
}

type job struct {
	records   []*Record
	responses chan<- []WriteResponse
}

// WriteResponse is returned for every record written by MarcFileWriter.
type WriteResponse struct {
	FileName     string // filename
	FileOffset   int64  // the offset in file
	BytesWritten int64  // number of bytes written
	Err          error  // eventual error
}

// Write marshals one or more records to file.
//
// If more than one is written, then those will be written sequentially to the same file if size permits.
//
// Returns a slice with one WriteResponse for each record written, or nil if the writer is closed.
func (w *MarcFileWriter) Write(record ...*Record) []WriteResponse {
	select {
	case <-w.closed:
		return nil
	default:
	}

	result := make(chan []WriteResponse)
	j := &job{
		records:   record,
		responses: result,
	}
	select {
	case <-w.closed:
		return nil
	case w.middleCh <- j:
		return <-result
	}
}

// Rotate closes the current files being written to.
// A call to Write after Rotate creates new files.
func (w *MarcFileWriter) Rotate() error {
	var err multiErr
	for _, writer := range w.writers {
		if e := writer.Close(); e != nil {
			err = append(err, e)
		}
	}
	if err != nil {
		return fmt.Errorf("closing error: %w", err)
	}
	return nil
}

// Close closes the current file(s) being written to and then releases all resources used by the MarcFileWriter.
// Calling Write after Close returns nil.
func (w *MarcFileWriter) Close() error {
	select {
	case w.closing <- struct{}{}:
		<-w.closed
	case <-w.closed:
	}

	w.shutWriters.Wait()
	return nil
}

type singleMarcFileWriter struct {
	opts            *marcFileWriterOptions
	currentFileName string
	currentFile     *os.File
	currentFileSize int64
	writeLock       sync.Mutex
	shutWriters     *sync.WaitGroup
	buf             bytes.Buffer
}

func (w *singleMarcFileWriter) Write(record *Record) (response WriteResponse) {
	w.writeLock.Lock()
	defer w.writeLock.Unlock()

	w.buf.Reset()
	size, err := w.opts.marshaler.Marshal(&w.buf, record)
	if err != nil {
		response.Err = err
		return
	}

	// Check if the current file has space for the new record
	if w.currentFile != nil && w.opts.maxFileSize > 0 {
		if w.currentFileSize > 0 && (w.currentFileSize+size) > w.opts.maxFileSize {
			// Not enough space in file, close it so a new will be created
			if err := w.close(); err != nil {
				response.Err = err
				return
			}
		}
	}

	// Create new file if necessary
	if w.currentFile == nil {
		if err := w.createFile(); err != nil {
			response.Err = err
			return
		}
	}

	response.FileOffset = w.currentFileSize
	response.FileName = w.currentFileName
	response.BytesWritten, response.Err = w.buf.WriteTo(w.currentFile)
	w.currentFileSize += response.BytesWritten
	if response.Err != nil {
		return
	}
	if w.opts.flush {
		// sync file to reduce possibility of half written records in case of crash
		response.Err = w.currentFile.Sync()
	}
	return
}

func (w *singleMarcFileWriter) createFile() error {
	dir, fileName := w.opts.nameGenerator.NewMarcfileName()
	path := filepath.Join(dir, fileName+w.opts.openFileSuffix)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0666)
	if err != nil {
		return err
	}
	log.Debugf("created file %s", path)
	w.currentFileName = fileName
	w.currentFile = file
	w.currentFileSize = 0
	return nil
}

// Close closes the current file being written to.
// It is legal to call Write after close, but then a new file will be opened.
func (w *singleMarcFileWriter) Close() error {
	w.writeLock.Lock()
	defer w.writeLock.Unlock()
	return w.close()
}

func (w *singleMarcFileWriter) close() error {
	if w.currentFile != nil {
		f := w.currentFile
		w.currentFile = nil
		w.currentFileName = ""
		w.currentFileSize = 0
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close file: %s: %w", f.Name(), err)
		}
		if err := fileutil.Rename(f.Name(), strings.TrimSuffix(f.Name(), w.opts.openFileSuffix)); err != nil {
			return fmt.Errorf("failed to rename file: %s: %w", f.Name(), err)
		}
	}
	return nil
}

// MarcFileReader reads records from a file.
type MarcFileReader struct {
	file           *os.File
	offset         int64
	unmarshaler    Unmarshaler
	countingReader *countingreader.Reader
	bufferedReader *bufio.Reader
}

// NewMarcFileReader opens filename and positions the reader at offset.
func NewMarcFileReader(filename string, offset int64, opts ...RecordOption) (*MarcFileReader, error) {
	file, err := os.Open(filename) // For read access.
	if err != nil {
		return nil, err
	}

	if _, err = file.Seek(offset, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, err
	}

	mf := &MarcFileReader{
		file:        file,
		offset:      offset,
		unmarshaler: NewUnmarshaler(opts...),
	}
	mf.countingReader = countingreader.NewAt(file, offset)
	mf.bufferedReader = bufio.NewReaderSize(mf.countingReader, 64*1024)
	return mf, nil
}

// Next reads the next record from the MarcFileReader.
//
// Returned values depends on the errorPolicy options set on MarcFileReader:
//
// If set to ErrIgnore for all errors, a record and its offset is returned without any validation. Error is only returned
// if the record is too broken to be decoded.
//
// If set to ErrWarn for all errors, the same as with ErrIgnore is returned, but all recoverable deviations are
// collected in a Validation object which can be examined.
//
// If set to ErrFail for all errors, an error is returned in case of validation error and the record is nil.
//
// The record will always be nil if error is returned.
//
// When at end of file only io.EOF is returned.
func (mf *MarcFileReader) Next() (*Record, int64, *Validation, error) {
	mf.offset = mf.countingReader.Offset() - int64(mf.bufferedReader.Buffered())

	record, skipped, validation, err := mf.unmarshaler.Unmarshal(mf.bufferedReader)
	return record, mf.offset + skipped, validation, err
}

// Close closes the MarcFileReader.
func (mf *MarcFileReader) Close() error {
	return mf.file.Close()
}

// Options for MARC file writer
type marcFileWriterOptions struct {
	maxFileSize          int64
	openFileSuffix       string
	nameGenerator        MarcFileNameGenerator
	marshaler            Marshaler
	maxConcurrentWriters int
	flush                bool
}

func (w *marcFileWriterOptions) String() string {
	return fmt.Sprintf("File size: %d, Num writers: %d", w.maxFileSize, w.maxConcurrentWriters)
}

// MarcFileWriterOption configures how to write MARC files.
type MarcFileWriterOption interface {
	apply(*marcFileWriterOptions)
}

// funcMarcFileWriterOption wraps a function that modifies marcFileWriterOptions into an
// implementation of the MarcFileWriterOption interface.
type funcMarcFileWriterOption struct {
	f func(*marcFileWriterOptions)
}

func (fo *funcMarcFileWriterOption) apply(po *marcFileWriterOptions) {
	fo.f(po)
}

func newFuncMarcFileOption(f func(*marcFileWriterOptions)) *funcMarcFileWriterOption {
	return &funcMarcFileWriterOption{
		f: f,
	}
}

func defaultMarcFileWriterOptions() marcFileWriterOptions {
	return marcFileWriterOptions{
		maxFileSize:          1024 * 1024 * 1024, // 1 GiB
		openFileSuffix:       ".open",
		nameGenerator:        &PatternNameGenerator{},
		marshaler:            &defaultMarshaler{},
		maxConcurrentWriters: 1,
	}
}

// WithMaxFileSize sets the max size of the MARC file before creating a new one. A size of zero means no limit.
// defaults to 1 GiB
func WithMaxFileSize(size int64) MarcFileWriterOption {
	return newFuncMarcFileOption(func(o *marcFileWriterOptions) {
		o.maxFileSize = size
	})
}

// WithFlush sets if writer should commit each record to stable storage.
// defaults to false
func WithFlush(flush bool) MarcFileWriterOption {
	return newFuncMarcFileOption(func(o *marcFileWriterOptions) {
		o.flush = flush
	})
}

// WithOpenFileSuffix sets a suffix to be added to the file name while the file is open for writing.
// The suffix is automatically removed when the file is closed.
// defaults to ".open"
func WithOpenFileSuffix(suffix string) MarcFileWriterOption {
	return newFuncMarcFileOption(func(o *marcFileWriterOptions) {
		o.openFileSuffix = suffix
	})
}

// WithFileNameGenerator sets the MarcFileNameGenerator to use for generating new file names.
// defaults to a PatternNameGenerator with the default pattern
func WithFileNameGenerator(generator MarcFileNameGenerator) MarcFileWriterOption {
	return newFuncMarcFileOption(func(o *marcFileWriterOptions) {
		o.nameGenerator = generator
	})
}

// WithMarshaler sets the record marshaler to use.
// defaults to the ISO 2709 marshaler
func WithMarshaler(marshaler Marshaler) MarcFileWriterOption {
	return newFuncMarcFileOption(func(o *marcFileWriterOptions) {
		o.marshaler = marshaler
	})
}

// WithMaxConcurrentWriters sets the maximum number of files that can be written to simultaneously.
// defaults to one
func WithMaxConcurrentWriters(count int) MarcFileWriterOption {
	return newFuncMarcFileOption(func(o *marcFileWriterOptions) {
		o.maxConcurrentWriters = count
	})
}
