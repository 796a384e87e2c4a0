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


package loader

import (
	"context"
	"fmt"

	"github.com/nlnwa/gomarc"
	log "github.com/sirupsen/logrus"
)

type StorageRefResolver interface {
	Resolve(controlNumber string) (storageRef string, err error)
}

type StorageLoader interface {
	Load(ctx context.Context, storageRef string) (record *gomarc.Record, err error)
}

// Loader looks up records by control number.
type Loader struct {
	Resolver StorageRefResolver
	Loader   StorageLoader
	NoVerify bool // Skip checking that the loaded record has the requested control number
}

func (l *Loader) Get(ctx context.Context, controlNumber string) (record *gomarc.Record, err error) {
	storageRef, err := l.Resolver.Resolve(controlNumber)
	if err != nil {
		return
	}
	record, err = l.Loader.Load(ctx, storageRef)
	if err != nil {
		return
	}

	if l.NoVerify {
		return
	}

	if record.ControlNumber() != controlNumber {
		log.Debugf("index is stale: %s points to a record with control number %s", storageRef, record.ControlNumber())
		return nil, fmt.Errorf("%w: %s resolved to %s which holds %s", ErrStaleIndex, controlNumber, storageRef, record.ControlNumber())
	}
	return
}
