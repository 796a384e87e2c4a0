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
	"bytes"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/pkg/index"
	"github.com/nlnwa/gomarc/pkg/loader"
	log "github.com/sirupsen/logrus"
)

const (
	contentTypeMarc    = "application/marc"
	contentTypeMarcXML = "application/marcxml+xml"
)

type contentHandler struct {
	loader *loader.Loader
}

func (h *contentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Debugf("request id: %v", id)

	record, err := h.loader.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, index.ErrNotFound) || errors.Is(err, loader.ErrStaleIndex) {
			if errors.Is(err, loader.ErrStaleIndex) {
				log.Warn(err)
			}
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("Document not found\n"))
			return
		}
		log.Errorf("loading %s failed: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	buf := &bytes.Buffer{}
	var contentType string
	switch format := r.URL.Query().Get("format"); format {
	case "", "marc":
		contentType = contentTypeMarc
		_, err = gomarc.NewMarshaler().Marshal(buf, record)
	case "xml":
		contentType = contentTypeMarcXML
		_, err = gomarc.NewXMLMarshaler().Marshal(buf, record)
	case "text":
		contentType = "text/plain; charset=utf-8"
		_, err = buf.WriteString(record.Text())
	default:
		http.Error(w, "Unknown format: "+format, http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("encoding %s failed: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = buf.WriteTo(w)
}
