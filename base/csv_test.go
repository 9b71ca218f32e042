// Copyright 2021 gorse Project Authors
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

package base

import (
	"bufio"
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	assert.Equal(t, "123", Escape("123"))
	assert.Equal(t, "\"\"\"123\"\"\"", Escape("\"123\""))
	assert.Equal(t, "\"1,2,3\"", Escape("1,2,3"))
	assert.Equal(t, "\"\"\",\"\"\"", Escape("\",\""))
	assert.Equal(t, "\"1\r\n2\r\n3\"", Escape("1\r\n2\r\n3"))
}

func splitLines(t *testing.T, text string) [][]string {
	sc := bufio.NewScanner(strings.NewReader(text))
	lines := make([][]string, 0)
	err := ReadLines(sc, ",", func(i int, i2 []string) bool {
		lines = append(lines, i2)
		return i2[0] != "STOP"
	})
	assert.NoError(t, err)
	return lines
}

func TestReadLines(t *testing.T) {
	assert.Equal(t, [][]string{{"1", "2", "3"}, {"4", "5", "6"}},
		splitLines(t, "1,2,3\r\n4,5,6\r\n"))
	assert.Equal(t, [][]string{{"1,2", "3,4", "5,6"}, {"2,3", "4,6", "6,9"}},
		splitLines(t, "\"1,2\",\"3,4\",\"5,6\"\r\n\"2,3\",\"4,6\",\"6,9\""))
	assert.Equal(t, [][]string{{"1\r\n2", "3\r\n4", "5\r\n6"}, {"2\r\n3", "4\r\n6", "6\r\n9"}},
		splitLines(t, "\"1\r\n2\",\"3\r\n4\",\"5\r\n6\"\r\n\"2\r\n3\",\"4\r\n6\",\"6\r\n9\""))
	assert.Equal(t, [][]string{{"1", "2", "3"}, {"4", "5", "6"}, {"STOP"}},
		splitLines(t, "1,2,3\r\n4,5,6\r\nSTOP\r\n7,8,9"))
}

func TestReadTable(t *testing.T) {
	text := "\ufeffI_DATE,PURCHASE_FLG,USER_ID_hash,VIEW_COUPON_ID_hash\n" +
		"2012-03-28 14:15:00,0,u1,\"c,1\"\n" +
		"\n" +
		"2012-03-28 14:17:28, 1 ,u2,c2\n"
	var rows [][]string
	var lines []int
	err := ReadTable(strings.NewReader(text), []string{"USER_ID_hash", "VIEW_COUPON_ID_hash", "PURCHASE_FLG"},
		func(line int, fields []string) error {
			lines = append(lines, line)
			rows = append(rows, fields)
			return nil
		})
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 3}, lines)
	assert.Equal(t, [][]string{{"u1", "c,1", "0"}, {"u2", "c2", "1"}}, rows)
}

func TestReadTable_Error(t *testing.T) {
	noop := func(int, []string) error { return nil }
	// missing column
	err := ReadTable(strings.NewReader("USER_ID_hash\nu1\n"), []string{"USER_ID_hash", "PROB_PURCHASE"}, noop)
	assert.True(t, errors.Is(err, errors.NotFound))
	// short line
	err = ReadTable(strings.NewReader("a,b\n1,2\n3\n"), []string{"b"}, noop)
	assert.True(t, errors.Is(err, errors.NotValid))
	// empty table
	err = ReadTable(strings.NewReader(""), []string{"a"}, noop)
	assert.True(t, errors.Is(err, errors.NotValid))
	// handler error
	err = ReadTable(strings.NewReader("a\n1\n"), []string{"a"}, func(int, []string) error {
		return errors.New("stop")
	})
	assert.EqualError(t, err, "stop")
}
