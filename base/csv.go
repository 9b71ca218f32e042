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
	"io"
	"strings"

	"github.com/juju/errors"
)

const maxLineSize = 16 * 1024 * 1024

// Escape text for csv.
func Escape(text string) string {
	// check if need escape
	if !strings.Contains(text, ",") &&
		!strings.Contains(text, "\"") &&
		!strings.Contains(text, "\n") &&
		!strings.Contains(text, "\r") {
		return text
	}
	// start to encode
	builder := strings.Builder{}
	builder.WriteRune('"')
	for _, c := range text {
		if c == '"' {
			builder.WriteString("\"\"")
		} else {
			builder.WriteRune(c)
		}
	}
	builder.WriteRune('"')
	return builder.String()
}

// ReadLines parse fields of each line for csv file.
func ReadLines(sc *bufio.Scanner, sep string, handler func(int, []string) bool) error {
	lineCount := 0               // line number of current position
	fields := make([]string, 0)  // fields for current line
	builder := strings.Builder{} // string builder for current field
	quoted := false              // whether current position in quote
	for sc.Scan() {
		lineStr := sc.Text()
		line := []rune(lineStr)
		// start of line
		if quoted {
			builder.WriteString("\r\n")
		}
		for i := 0; i < len(line); i++ {
			if string(line[i]) == sep && !quoted {
				// end of field
				fields = append(fields, builder.String())
				builder.Reset()
			} else if line[i] == '"' {
				if quoted {
					if i+1 >= len(line) || line[i+1] != '"' {
						// end of quoted
						quoted = false
					} else {
						i++
						builder.WriteRune('"')
					}
				} else {
					// start of quoted
					quoted = true
				}
			} else {
				builder.WriteRune(line[i])
			}
		}
		// end of line
		if !quoted {
			fields = append(fields, builder.String())
			builder.Reset()
			if !handler(lineCount, fields) {
				return nil
			}
			fields = []string{}
		}
		lineCount++
	}
	return sc.Err()
}

// ReadTable reads a comma separated table with a header row. Only the named
// columns are passed to the handler, in the order they are requested. Blank
// lines are skipped. Line numbers passed to the handler count the header as
// line 0.
func ReadTable(r io.Reader, columns []string, handler func(int, []string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var (
		positions []int
		width     int
		err       error
	)
	readErr := ReadLines(sc, ",", func(lineNumber int, fields []string) bool {
		if positions == nil {
			// resolve header
			header := make(map[string]int, len(fields))
			for i, field := range fields {
				name := strings.TrimSpace(strings.TrimPrefix(field, "\ufeff"))
				if _, exist := header[name]; !exist {
					header[name] = i
				}
			}
			positions = make([]int, len(columns))
			for i, column := range columns {
				pos, exist := header[column]
				if !exist {
					err = errors.NotFoundf("column %v", column)
					return false
				}
				positions[i] = pos
				width = max(width, pos+1)
			}
			return true
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			return true
		}
		if len(fields) < width {
			err = errors.NotValidf("line %d with %d fields (expect at least %d)", lineNumber, len(fields), width)
			return false
		}
		projected := make([]string, len(positions))
		for i, pos := range positions {
			projected[i] = strings.TrimSpace(fields[pos])
		}
		if err = handler(lineNumber, projected); err != nil {
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	if readErr != nil {
		return errors.Trace(readErr)
	}
	if positions == nil {
		return errors.NotValidf("table without header")
	}
	return nil
}
