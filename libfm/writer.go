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
	"bufio"
	"io"

	"github.com/gorse-io/gorse-libfm/base"
	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
)

// Writer serializes index dictionaries and libFM tables.
type Writer struct {
	UserColumn string
	ItemColumn string
	// Strict rejects examples without user or item index.
	Strict bool
	// Progress shows a progress bar while writing tables.
	Progress bool
}

// WriteUserDict writes the user dictionary as CSV: user_index,<user column>.
func (w *Writer) WriteUserDict(out io.Writer, index *Index) error {
	bw := bufio.NewWriter(out)
	if _, err := bw.WriteString("user_index," + base.Escape(w.UserColumn) + "\n"); err != nil {
		return errors.Trace(err)
	}
	for userIndex, userId := range index.Users.GetNames() {
		if _, err := bw.WriteString(formatIndicator(int32(userIndex)) + "," + base.Escape(userId) + "\n"); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(bw.Flush())
}

// WriteItemDict writes the item dictionary as CSV: <item column>,item_index.
func (w *Writer) WriteItemDict(out io.Writer, index *Index) error {
	bw := bufio.NewWriter(out)
	if _, err := bw.WriteString(base.Escape(w.ItemColumn) + ",item_index\n"); err != nil {
		return errors.Trace(err)
	}
	for row, itemId := range index.Items.GetNames() {
		if _, err := bw.WriteString(base.Escape(itemId) + "," + formatIndicator(index.NumUsers+int32(row)) + "\n"); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(bw.Flush())
}

// WriteTable writes examples in libFM format, one per line without header. The
// parts are written one after another.
func (w *Writer) WriteTable(out io.Writer, name string, parts ...[]Example) error {
	total := 0
	for _, part := range parts {
		total += len(part)
	}
	var bar *progressbar.ProgressBar
	if w.Progress {
		bar = progressbar.Default(int64(total), "write "+name)
	}
	bw := bufio.NewWriter(out)
	buf := make([]byte, 0, 256)
	for _, part := range parts {
		for i := range part {
			if w.Strict {
				if err := part[i].validate(); err != nil {
					return errors.Annotatef(err, "write %s", name)
				}
			}
			buf = part[i].AppendLine(buf[:0])
			if _, err := bw.Write(buf); err != nil {
				return errors.Trace(err)
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return errors.Trace(bw.Flush())
}
