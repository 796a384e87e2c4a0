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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/pkg/index"
	log "github.com/sirupsen/logrus"
)

var (
	ErrUnknownStorageRef = errors.New("storage ref can't be handled")
	ErrStaleIndex        = errors.New("stale index")
)

// FileStorageLoader loads records from MARC files using storage refs on the form marcfile:<file name>:<offset>.
type FileStorageLoader struct {
	FilePathResolver func(fileName string) (filePath string, err error)
	Options          []gomarc.RecordOption
}

func (f *FileStorageLoader) Load(ctx context.Context, storageRef string) (record *gomarc.Record, err error) {
	filePath, offset, err := f.parseStorageRef(storageRef)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Debugf("loading record from file: %s, offset: %v", filePath, offset)

	mf, err := gomarc.NewMarcFileReader(filePath, offset, f.Options...)
	if err != nil {
		return
	}
	defer func() { _ = mf.Close() }()

	record, recordOffset, _, err := mf.Next()
	if err != nil {
		return nil, fmt.Errorf("%s at offset %d: %w", filePath, offset, err)
	}
	if recordOffset != offset {
		return nil, fmt.Errorf("%w: no record at offset %d in %s", ErrStaleIndex, offset, filePath)
	}
	return
}

func (f *FileStorageLoader) parseStorageRef(storageRef string) (fileName string, offset int64, err error) {
	p := strings.SplitN(storageRef, ":", 3)
	if len(p) != 3 || p[0]+":" != index.StorageRefPrefix {
		return "", 0, fmt.Errorf("%w: '%s'", ErrUnknownStorageRef, storageRef)
	}
	fileName = p[1]
	offset, err = strconv.ParseInt(p[2], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: '%s': %v", ErrUnknownStorageRef, storageRef, err)
	}

	if f.FilePathResolver != nil {
		fileName, err = f.FilePathResolver(fileName)
	}
	return
}

// DbResolver resolves control numbers with an index database.
type DbResolver struct {
	Db *index.Db
}

func (r *DbResolver) Resolve(controlNumber string) (string, error) {
	return r.Db.GetStorageRef(controlNumber)
}
