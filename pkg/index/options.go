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
	"time"
)

// Options configures the index database and the auto indexer.
type Options struct {
	Dir          string
	BatchMaxSize int
	BatchMaxWait time.Duration
	Sync         bool
	WatchDepth   int
	Workers      int
	IndexDelay   time.Duration
}

func DefaultOptions() Options {
	return Options{
		Dir:          "",
		BatchMaxSize: 10000,
		BatchMaxWait: 5 * time.Second,
		Sync:         false,
		WatchDepth:   4,
		Workers:      8,
		IndexDelay:   10 * time.Second,
	}
}

func (opt Options) WithDir(val string) Options {
	opt.Dir = val
	return opt
}
func (opt Options) WithBatchMaxSize(val int) Options {
	opt.BatchMaxSize = val
	return opt
}
func (opt Options) WithBatchMaxWait(val time.Duration) Options {
	opt.BatchMaxWait = val
	return opt
}
func (opt Options) WithSync(val bool) Options {
	opt.Sync = val
	return opt
}
func (opt Options) WithWatchDepth(val int) Options {
	opt.WatchDepth = val
	return opt
}
func (opt Options) WithWorkers(val int) Options {
	opt.Workers = val
	return opt
}
func (opt Options) WithIndexDelay(val time.Duration) Options {
	opt.IndexDelay = val
	return opt
}
