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
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/pkg/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(controlNumber string) *gomarc.Record {
	return gomarc.NewRecord(gomarc.LanguageMaterial,
		gomarc.MustControlField(gomarc.ControlNumberTag, controlNumber),
		gomarc.MustDataField(gomarc.ISBNTag, gomarc.Blank, gomarc.Blank, gomarc.Subfield{Code: "a", Content: "978038552788" + controlNumber}),
		gomarc.MustDataField(gomarc.TitleStatementTag, '1', '0', gomarc.Subfield{Code: "a", Content: "Title " + controlNumber}))
}

// newTestHandler writes and indexes a file with records 1 and 2 and returns a handler for the index.
func newTestHandler(t *testing.T) (http.Handler, string) {
	dir := t.TempDir()
	data, err := gomarc.EncodeBatch([]*gomarc.Record{testRecord("1"), testRecord("2")})
	require.NoError(t, err)
	path := filepath.Join(dir, "records.mrc")
	require.NoError(t, ioutil.WriteFile(path, data, 0644))

	db, err := index.NewIndexDb(index.DefaultOptions().WithDir(filepath.Join(dir, "index")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	n, err := index.IndexFile(&index.DbWriter{Db: db}, path)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.NoError(t, db.Flush())

	return Handler(db), path
}

func get(h http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestContentHandler(t *testing.T) {
	h, _ := newTestHandler(t)
	wantMarc, err := gomarc.Encode(testRecord("2"))
	require.NoError(t, err)

	tests := []struct {
		name            string
		method          string
		target          string
		wantStatus      int
		wantContentType string
		wantBody        string
		wantContains    []string
	}{
		{"marc", http.MethodGet, "/id/2", http.StatusOK, "application/marc", string(wantMarc), nil},
		{"explicit marc", http.MethodGet, "/id/2?format=marc", http.StatusOK, "application/marc", string(wantMarc), nil},
		{"xml", http.MethodGet, "/id/1?format=xml", http.StatusOK, "application/marcxml+xml", "", []string{
			`<record xmlns="http://www.loc.gov/MARC21/slim">`,
			`<controlfield tag="001">1</controlfield>`,
			`<datafield tag="245" ind1="1" ind2="0"><subfield code="a">Title 1</subfield></datafield>`,
		}},
		{"text", http.MethodGet, "/id/1?format=text", http.StatusOK, "text/plain; charset=utf-8", "", []string{
			"001    1\n",
			"245 10 $aTitle 1\n",
		}},
		{"unknown format", http.MethodGet, "/id/1?format=pdf", http.StatusBadRequest, "", "", nil},
		{"not found", http.MethodGet, "/id/3", http.StatusNotFound, "text/plain", "Document not found\n", nil},
		{"wrong method", http.MethodPost, "/id/1", http.StatusMethodNotAllowed, "", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			w := get(h, tt.method, tt.target)
			assert.Equal(tt.wantStatus, w.Code)
			if tt.wantContentType != "" {
				assert.Equal(tt.wantContentType, w.Header().Get("Content-Type"))
			}
			if tt.wantBody != "" {
				assert.Equal(tt.wantBody, w.Body.String())
			}
			for _, s := range tt.wantContains {
				assert.Contains(w.Body.String(), s)
			}
		})
	}
}

func TestContentHandler_roundTrip(t *testing.T) {
	h, _ := newTestHandler(t)
	assert := assert.New(t)

	w := get(h, http.MethodGet, "/id/1?format=xml")
	require.Equal(t, http.StatusOK, w.Code)
	fromXML, err := gomarc.NewXMLDecoder(w.Body).Decode()
	require.NoError(t, err)

	w = get(h, http.MethodGet, "/id/1")
	require.Equal(t, http.StatusOK, w.Code)
	fromMarc, _, err := gomarc.Decode(w.Body.Bytes())
	require.NoError(t, err)

	assert.True(fromMarc.Equal(fromXML), "expected %s, got %s", fromMarc.Text(), fromXML.Text())
}

func TestSearchHandler(t *testing.T) {
	h, path := newTestHandler(t)
	assert := assert.New(t)

	q := url.Values{"id": {"2", "3", "1"}, "path": {"245$a", "020"}}
	w := get(h, http.MethodGet, "/search?"+q.Encode())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal("application/x-ndjson", w.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)

	var results []map[string]interface{}
	for _, l := range lines {
		var res map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(l), &res))
		results = append(results, res)
	}
	assert.Equal("2", results[0]["cn"])
	assert.Equal("1", results[1]["cn"])
	assert.Equal("marcfile:"+filepath.Base(path)+":0", results[1]["ref"])
	assert.Equal("Title 1", results[1]["tit"])
	assert.Equal(map[string]interface{}{
		"245$a": []interface{}{"Title 2"},
		"020":   []interface{}{"9780385527882"},
	}, results[0]["content"])
}

func TestSearchHandler_badRequest(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name   string
		target string
	}{
		{"missing id", "/search"},
		{"invalid path", "/search?id=1&path=" + url.QueryEscape("001$a")},
		{"missing subfield code", "/search?id=1&path=" + url.QueryEscape("245$")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(h, http.MethodGet, tt.target)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestFileHandler(t *testing.T) {
	h, path := newTestHandler(t)
	assert := assert.New(t)

	w := get(h, http.MethodGet, "/files")
	assert.Equal(http.StatusOK, w.Code)
	var files []string
	assert.NoError(json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&files))
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	assert.Equal([]string{abs}, files)
}

func TestHandler_middleware(t *testing.T) {
	dir := t.TempDir()
	db, err := index.NewIndexDb(index.DefaultOptions().WithDir(dir))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var seen []string
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = append(seen, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
	h := Handler(db, mw)

	w := get(h, http.MethodGet, "/files")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
	get(h, http.MethodGet, "/id/1")
	assert.Equal(t, []string{"/files", "/id/1"}, seen)
}
