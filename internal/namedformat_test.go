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

package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSprintt(t *testing.T) {
	params := map[string]interface{}{
		"prefix": "bib-",
		"ts":     "20010912053020",
		"serial": int32(7),
		"host":   "example",
	}
	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"all params", "%{prefix}s%{ts}s-%04{serial}d-%{host}s.mrc", "bib-20010912053020-0007-example.mrc"},
		{"reordered", "%{host}s-%{prefix}s", "example-bib-"},
		{"repeated", "%{host}s/%{host}s", "example/example"},
		{"unused params", "%04{serial}d.mrc", "0007.mrc"},
		{"no params", "plain.mrc", "plain.mrc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sprintt(tt.format, params))
		})
	}
}

func TestContains(t *testing.T) {
	assert := assert.New(t)
	assert.True(Contains([]string{"a", "b"}, "b"))
	assert.False(Contains([]string{"a", "b"}, "c"))
	assert.False(Contains(nil, "a"))
}

func TestCropString(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("short", CropString("short", 10))
	assert.Equal("In the ...", CropString("In the land of invented languages", 10))
}
