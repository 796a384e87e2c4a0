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
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/nlnwa/gomarc"
	log "github.com/sirupsen/logrus"
)

type autoindexer struct {
	watcher     *fsnotify.Watcher
	indexWorker *indexWorker
	opts        Options
	done        chan struct{}
}

// NewAutoIndexer indexes the MARC files in dirs and keeps watching them for new and modified files.
// Subdirectories are followed to opts.WatchDepth levels.
func NewAutoIndexer(db *Db, dirs []string, opts Options, recordOpts ...gomarc.RecordOption) (*autoindexer, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	a := &autoindexer{
		watcher:     watcher,
		indexWorker: NewIndexWorker(&DbWriter{Db: db}, opts.Workers, recordOpts...),
		opts:        opts,
		done:        make(chan struct{}),
	}
	go a.fileWatcher()

	for _, dir := range dirs {
		if err := a.addAndIndexDir(dir, 0); err != nil {
			a.Shutdown()
			return nil, err
		}
	}
	return a, nil
}

func (a *autoindexer) Shutdown() {
	_ = a.watcher.Close()
	<-a.done
	a.indexWorker.Shutdown()
}

func (a *autoindexer) fileWatcher() {
	defer close(a.done)
	for {
		select {
		case event, ok := <-a.watcher.Events:
			if !ok {
				return
			}

			if ignored(event.Name) {
				continue
			}

			if event.Op&fsnotify.Write == fsnotify.Write {
				log.Debugf("modified file: %v", event.Name)
				a.indexWorker.Queue(event.Name, a.opts.IndexDelay)
			} else if event.Op&fsnotify.Create == fsnotify.Create {
				fStat, err := os.Stat(event.Name)
				if err != nil {
					log.Error(err)
					continue
				}

				if !fStat.Mode().IsDir() {
					a.indexWorker.Queue(event.Name, a.opts.IndexDelay)
					continue
				}

				if err := a.watcher.Add(event.Name); err != nil {
					log.Errorf("Error occurred when trying to listen to new directory '%v', err: %v", event.Name, err)
				}
			}

		case err, ok := <-a.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("file watcher: %v", err)
		}
	}
}

// addAndIndexDir recursively adds a directory to the watcher and queues its files for indexing.
func (a *autoindexer) addAndIndexDir(path string, currentDepth int) error {
	if err := a.watcher.Add(path); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	files, err := f.Readdir(-1)
	_ = f.Close()
	if err != nil {
		return err
	}

	for _, file := range files {
		if ignored(file.Name()) {
			continue
		}

		if !file.IsDir() {
			a.indexWorker.Queue(filepath.Join(path, file.Name()), 0)
		} else if currentDepth < a.opts.WatchDepth {
			if err := a.addAndIndexDir(filepath.Join(path, file.Name()), currentDepth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// ignored returns true for backup files and files still being written.
func ignored(name string) bool {
	return strings.HasSuffix(name, "~") || strings.HasSuffix(name, ".open")
}
