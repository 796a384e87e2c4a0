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
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nlnwa/gomarc/pkg/index"
	"github.com/nlnwa/gomarc/pkg/loader"
	log "github.com/sirupsen/logrus"
)

// Handler returns a http.Handler serving the records found in db.
//
// Routes:
//
//	GET /id/{id}    the record with control number id. The format query parameter selects marc (default), xml or text
//	GET /search     one JSON line per id query parameter. Field paths in the path query parameter are added as content
//	GET /files      the indexed files as a JSON array
func Handler(db *index.Db, middleware ...mux.MiddlewareFunc) http.Handler {
	l := &loader.Loader{
		Resolver: &loader.DbResolver{Db: db},
		Loader:   &loader.FileStorageLoader{FilePathResolver: db.GetFilePath},
	}

	r := mux.NewRouter()
	r.Use(middleware...)
	r.Handle("/id/{id}", &contentHandler{loader: l}).Methods(http.MethodGet)
	r.Handle("/search", &searchHandler{loader: l, db: db}).Methods(http.MethodGet)
	r.Handle("/files", &fileHandler{db: db}).Methods(http.MethodGet)
	return r
}

type fileHandler struct {
	db *index.Db
}

func (h *fileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	files, err := h.db.ListFilePaths()
	if err != nil {
		log.Errorf("listing indexed files failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if files == nil {
		files = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(files)
}
