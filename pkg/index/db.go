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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	log "github.com/sirupsen/logrus"
)

// ErrNotFound is returned when a key is not in the index.
var ErrNotFound = errors.New("not found")

// StorageRefPrefix is the scheme of storage references pointing into MARC files.
const StorageRefPrefix = "marcfile:"

type item struct {
	id, filePath string
	offset       int64
}

// Db maps control numbers to storage references and file names to file paths.
//
// Additions are batched and written when the batch is full, when BatchMaxWait has passed or when Flush is called.
type Db struct {
	dbDir     string
	idIndex   *pebble.DB
	fileIndex *pebble.DB
	writeOpts *pebble.WriteOptions

	// batch settings
	batchMaxSize int
	batchMaxWait time.Duration
	batchItems   []*item
	batchMutex   *sync.Mutex
	flushMutex   *sync.Mutex
	done         chan struct{}
	wg           *sync.WaitGroup
}

func NewIndexDb(opts Options) (*Db, error) {
	dbDir := filepath.Join(opts.Dir, "marcdb")
	idIndexDir := filepath.Join(dbDir, "id-index")
	fileIndexDir := filepath.Join(dbDir, "file-index")

	d := &Db{
		dbDir:        dbDir,
		writeOpts:    pebble.NoSync,
		batchMaxSize: opts.BatchMaxSize,
		batchMaxWait: opts.BatchMaxWait,
		batchItems:   make([]*item, 0, opts.BatchMaxSize),
		batchMutex:   &sync.Mutex{},
		flushMutex:   &sync.Mutex{},
		done:         make(chan struct{}),
		wg:           &sync.WaitGroup{},
	}
	if opts.Sync {
		d.writeOpts = pebble.Sync
	}

	var err error
	d.idIndex, err = openIndex(idIndexDir)
	if err != nil {
		return nil, err
	}
	d.fileIndex, err = openIndex(fileIndexDir)
	if err != nil {
		_ = d.idIndex.Close()
		return nil, err
	}

	if d.batchMaxWait > 0 {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			ticker := time.NewTicker(d.batchMaxWait)
			defer ticker.Stop()
			for {
				select {
				case <-d.done:
					return
				case <-ticker.C:
					if err := d.Flush(); err != nil {
						log.Errorf("failed flushing index batch: %v", err)
					}
				}
			}
		}()
	}

	return d, nil
}

func openIndex(indexDir string) (*pebble.DB, error) {
	if err := os.MkdirAll(indexDir, 0777); err != nil {
		return nil, err
	}
	return pebble.Open(indexDir, &pebble.Options{Logger: log.StandardLogger()})
}

// Delete removes the database files. The Db must be closed first.
func (d *Db) Delete() error {
	return os.RemoveAll(d.dbDir)
}

// Close flushes outstanding additions and closes the database.
func (d *Db) Close() error {
	close(d.done)
	d.wg.Wait()
	err := d.Flush()
	if e := d.idIndex.Close(); e != nil && err == nil {
		err = e
	}
	if e := d.fileIndex.Close(); e != nil && err == nil {
		err = e
	}
	return err
}

// Add queues a record for indexing. id is the control number of the record, filePath the file it is stored in
// and offset the position of the record within the file.
func (d *Db) Add(id, filePath string, offset int64) error {
	if id == "" {
		return fmt.Errorf("cannot index record at %s:%d: missing control number", filePath, offset)
	}

	d.batchMutex.Lock()
	d.batchItems = append(d.batchItems, &item{
		id:       id,
		filePath: filePath,
		offset:   offset,
	})
	full := len(d.batchItems) >= d.batchMaxSize
	d.batchMutex.Unlock()

	if full {
		return d.Flush()
	}
	return nil
}

// Flush writes all queued additions to the database.
func (d *Db) Flush() error {
	d.flushMutex.Lock()
	defer d.flushMutex.Unlock()

	d.batchMutex.Lock()
	if len(d.batchItems) == 0 {
		d.batchMutex.Unlock()
		return nil
	}
	items := make([]*item, len(d.batchItems))
	copy(items, d.batchItems)
	d.batchItems = d.batchItems[:0]
	d.batchMutex.Unlock()

	return d.addBatch(items)
}

func (d *Db) addBatch(items []*item) error {
	log.Debugf("flushing batch of %d records to index", len(items))
	filepaths := make(map[string]string)

	for _, r := range items {
		if abs, err := filepath.Abs(r.filePath); err == nil {
			r.filePath = abs
		} else {
			log.Errorf("%v", err)
		}
		if _, ok := filepaths[r.filePath]; !ok {
			filepaths[r.filePath] = filepath.Base(r.filePath)
		}
	}

	fb := d.fileIndex.NewBatch()
	defer func() { _ = fb.Close() }()
	for filePath, fileName := range filepaths {
		if err := fb.Set([]byte(fileName), []byte(filePath), nil); err != nil {
			return err
		}
	}
	if err := fb.Commit(d.writeOpts); err != nil {
		return err
	}

	ib := d.idIndex.NewBatch()
	defer func() { _ = ib.Close() }()
	for _, r := range items {
		storageRef := fmt.Sprintf("%s%s:%d", StorageRefPrefix, filepaths[r.filePath], r.offset)
		if err := ib.Set([]byte(r.id), []byte(storageRef), nil); err != nil {
			return err
		}
	}
	return ib.Commit(d.writeOpts)
}

// GetStorageRef returns the storage reference for a control number.
func (d *Db) GetStorageRef(id string) (string, error) {
	return get(d.idIndex, id)
}

// GetFilePath returns the absolute path of an indexed file.
func (d *Db) GetFilePath(fileName string) (string, error) {
	return get(d.fileIndex, fileName)
}

func get(db *pebble.DB, key string) (string, error) {
	val, closer, err := db.Get([]byte(key))
	if err == pebble.ErrNotFound {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return "", err
	}
	defer func() { _ = closer.Close() }()
	return string(val), nil
}

// ListFilePaths returns the paths of all indexed files ordered by file name.
func (d *Db) ListFilePaths() ([]string, error) {
	it, err := d.fileIndex.NewIter(nil)
	if err != nil {
		return nil, err
	}
	var result []string
	for it.First(); it.Valid(); it.Next() {
		result = append(result, string(it.Value()))
	}
	if err := it.Close(); err != nil {
		return nil, err
	}
	return result, nil
}
