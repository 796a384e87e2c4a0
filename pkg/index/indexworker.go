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
	"io"
	"sync"
	"time"

	"github.com/nlnwa/gomarc"
	log "github.com/sirupsen/logrus"
)

// IndexFile reads every record in the file at path and passes it to w. Records without a control number are skipped.
// It returns the number of records written.
func IndexFile(w RecordWriter, path string, opts ...gomarc.RecordOption) (int, error) {
	r, err := gomarc.NewMarcFileReader(path, 0, opts...)
	if err != nil {
		return 0, err
	}
	defer func() { _ = r.Close() }()

	count := 0
	lastErrOffset := int64(-1)
	for {
		rec, offset, validation, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if offset == lastErrOffset {
				// No progress since the last error
				return count, err
			}
			lastErrOffset = offset
			log.Warnf("skipping broken record in %s at offset %d: %v", path, offset, err)
			continue
		}
		if !validation.Valid() {
			log.Debugf("%s at offset %d: %s", path, offset, validation)
		}
		if rec.ControlNumber() == "" {
			log.Debugf("skipping record without control number in %s at offset %d", path, offset)
			continue
		}
		if err := w.Write(rec, path, offset); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// indexWorker indexes files in the background. A file queued with a delay is indexed when it has not been queued
// again for that long, so a file which is still being written is only indexed once.
type indexWorker struct {
	writer  RecordWriter
	opts    []gomarc.RecordOption
	jobs    chan string
	done    chan struct{}
	wg      *sync.WaitGroup
	mu      sync.Mutex
	pending map[string]*time.Timer
}

func NewIndexWorker(w RecordWriter, workers int, opts ...gomarc.RecordOption) *indexWorker {
	iw := &indexWorker{
		writer:  w,
		opts:    opts,
		jobs:    make(chan string),
		done:    make(chan struct{}),
		wg:      &sync.WaitGroup{},
		pending: make(map[string]*time.Timer),
	}
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		iw.wg.Add(1)
		go iw.run()
	}
	return iw
}

func (iw *indexWorker) run() {
	defer iw.wg.Done()
	for {
		select {
		case <-iw.done:
			return
		case path := <-iw.jobs:
			count, err := IndexFile(iw.writer, path, iw.opts...)
			if err != nil {
				log.Errorf("failed indexing %s: %v", path, err)
			}
			log.Infof("indexed %d records from %s", count, path)
		}
	}
}

// Queue schedules path for indexing after delay.
func (iw *indexWorker) Queue(path string, delay time.Duration) {
	if delay <= 0 {
		iw.send(path)
		return
	}

	iw.mu.Lock()
	defer iw.mu.Unlock()
	if t, ok := iw.pending[path]; ok {
		t.Stop()
	}
	iw.pending[path] = time.AfterFunc(delay, func() {
		iw.mu.Lock()
		delete(iw.pending, path)
		iw.mu.Unlock()
		iw.send(path)
	})
}

func (iw *indexWorker) send(path string) {
	select {
	case <-iw.done:
	case iw.jobs <- path:
	}
}

// Shutdown cancels pending jobs and waits for running jobs to finish.
func (iw *indexWorker) Shutdown() {
	iw.mu.Lock()
	for p, t := range iw.pending {
		t.Stop()
		delete(iw.pending, p)
	}
	iw.mu.Unlock()
	close(iw.done)
	iw.wg.Wait()
}
