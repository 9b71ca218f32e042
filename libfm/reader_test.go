// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package libfm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestLoadLibFMFile(t *testing.T) {
	features, targets, maxLabel, err := LoadLibFMFile(strings.NewReader(
		"1 0:1 3:1 6:0.5\n" +
			"-1.0  4:1\n"))
	assert.NoError(t, err)
	assert.Equal(t, []float64{1, -1}, targets)
	assert.Equal(t, [][]Feature{
		{lo.T2(int32(0), 1.0), lo.T2(int32(3), 1.0), lo.T2(int32(6), 0.5)},
		{lo.T2(int32(4), 1.0)},
	}, features)
	assert.Equal(t, int32(6), maxLabel)

	_, _, _, err = LoadLibFMFile(strings.NewReader("x 0:1\n"))
	assert.Error(t, err)
	_, _, _, err = LoadLibFMFile(strings.NewReader("1 0\n"))
	assert.Error(t, err)
	_, _, _, err = LoadLibFMFile(strings.NewReader("1 0:y\n"))
	assert.Error(t, err)
}

func TestLoadLibFMFile_RoundTrip(t *testing.T) {
	index := NewIndex([]string{"u1", "u2", "u3"}, []string{"i1", "i2", "i3"}, []string{"i4"})
	similarItems := map[string][]Feature{
		"u1": {lo.T2(int32(10), 0.5773502691896258), lo.T2(int32(11), 0.5773502691896258), lo.T2(int32(12), 0.5773502691896258)},
		"u3": {lo.T2(int32(13), 1.0)},
	}
	examples := BuildTestSet(index, similarItems)
	var buf bytes.Buffer
	assert.NoError(t, (&Writer{Strict: true}).WriteTable(&buf, "test", examples))

	features, targets, _, err := LoadLibFMFile(&buf)
	assert.NoError(t, err)
	assert.Len(t, targets, len(examples))
	for i, example := range examples {
		assert.Equal(t, example.Target, targets[i])
		expected := append([]Feature{lo.T2(example.UserIndex, 1.0), lo.T2(example.ItemIndex, 1.0)}, example.SimilarItems...)
		assert.Equal(t, expected, features[i])
	}
}
