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


package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/pkg/index"
	"github.com/nlnwa/gomarc/pkg/loader"
	log "github.com/sirupsen/logrus"
)

type searchResult struct {
	*index.Entry
	Content map[string][]string `json:"content,omitempty"`
}

type searchHandler struct {
	loader *loader.Loader
	db     *index.Db
}

func (h *searchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ids := q["id"]
	if len(ids) == 0 {
		http.Error(w, "Missing id", http.StatusBadRequest)
		return
	}
	var paths []gomarc.FieldPath
	for _, p := range q["path"] {
		fp, err := gomarc.ParseFieldPath(p)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		paths = append(paths, fp)
	}
	log.Infof("search ids: %v, paths: %v", ids, q["path"])

	w.Header().Set("Content-Type", "application/x-ndjson")
	enc := json.NewEncoder(w)
	for _, id := range ids {
		ref, err := h.db.GetStorageRef(id)
		if errors.Is(err, index.ErrNotFound) {
			continue
		}
		if err != nil {
			log.Errorf("search %s: %v", id, err)
			continue
		}
		record, err := h.loader.Get(r.Context(), id)
		if err != nil {
			log.Warnf("search %s: %v", id, err)
			continue
		}

		res := searchResult{Entry: index.NewEntry(record, "", 0)}
		res.Ref = ref
		if len(paths) > 0 {
			res.Content = make(map[string][]string, len(paths))
			for _, p := range paths {
				res.Content[p.String()] = record.ContentWith(p)
			}
		}
		if err := enc.Encode(res); err != nil {
			return
		}
	}
}
