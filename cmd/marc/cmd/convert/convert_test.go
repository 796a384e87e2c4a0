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


package convert

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nlnwa/gomarc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData(t *testing.T) []byte {
	var records []*gomarc.Record
	for _, cn := range []string{"1", "2"} {
		records = append(records, gomarc.NewRecord(gomarc.LanguageMaterial,
			gomarc.MustControlField(gomarc.ControlNumberTag, cn),
			gomarc.MustDataField(gomarc.TitleStatementTag, '1', '0',
				gomarc.Subfield{Code: "a", Content: "Blåbær & <syltetøy>"},
				gomarc.Subfield{Code: "c", Content: "Ola Nordmann."})))
	}
	data, err := gomarc.EncodeBatch(records)
	require.NoError(t, err)
	return data
}

func run(args ...string) (string, error) {
	out := &bytes.Buffer{}
	cmd := NewCommand()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func TestConvert_roundTrip(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	data := testData(t)
	marcFile := filepath.Join(dir, "in.mrc")
	xmlFile := filepath.Join(dir, "out.xml")
	backFile := filepath.Join(dir, "back.mrc")
	require.NoError(t, ioutil.WriteFile(marcFile, data, 0644))

	_, err := run(marcFile, xmlFile)
	require.NoError(t, err)
	xmlData, err := ioutil.ReadFile(xmlFile)
	require.NoError(t, err)
	assert.True(strings.HasPrefix(string(xmlData), `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Equal(2, strings.Count(string(xmlData), "<record>"))
	assert.Contains(string(xmlData), `<subfield code="a">Blåbær &amp; &lt;syltetøy&gt;</subfield>`)

	_, err = run(xmlFile, backFile)
	require.NoError(t, err)
	back, err := ioutil.ReadFile(backFile)
	require.NoError(t, err)
	assert.Equal(data, back)
}

func TestConvert_formats(t *testing.T) {
	dir := t.TempDir()
	data := testData(t)
	marcFile := filepath.Join(dir, "in.mrc")
	require.NoError(t, ioutil.WriteFile(marcFile, append([]byte("\n"), data...), 0644))

	tests := []struct {
		name         string
		args         []string
		wantErr      bool
		wantPrefix   string
		wantFileName string
	}{
		{"marc to stdout", []string{marcFile, "-"}, false, string(data[:24]), ""},
		{"xml to stdout", []string{marcFile, "-", "--to", "xml"}, false, "<?xml", ""},
		{"explicit marc to xml file name", []string{marcFile, filepath.Join(dir, "out.xml"), "-t", "marc"}, false, "", "out.xml"},
		{"unknown format", []string{marcFile, "-", "--to", "json"}, true, "", ""},
		{"missing output", []string{marcFile}, true, "", ""},
		{"missing input", []string{filepath.Join(dir, "missing.mrc"), "-"}, true, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			out, err := run(tt.args...)
			if tt.wantErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.True(strings.HasPrefix(out, tt.wantPrefix), "got %q", out)
			if tt.wantFileName != "" {
				b, err := ioutil.ReadFile(filepath.Join(dir, tt.wantFileName))
				assert.NoError(err)
				assert.Equal(data, b)
			}
		})
	}
}

func TestConvert_brokenInput(t *testing.T) {
	dir := t.TempDir()
	data := testData(t)
	in := filepath.Join(dir, "in.mrc")
	require.NoError(t, ioutil.WriteFile(in, data[:len(data)-10], 0644))

	_, err := run(in, filepath.Join(dir, "out.xml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")
}
