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
	"strconv"
	"strings"

	"github.com/gorse-io/gorse-libfm/base"
	"github.com/juju/errors"
)

// Example is a row of a libFM table. A missing index is base.NotId.
type Example struct {
	UserId       string
	ItemId       string
	Target       float64
	UserIndex    int32
	ItemIndex    int32
	SimilarItems []Feature
}

// AppendLine appends the example in libFM format:
//
//	target user:1 item:1 [slot:weight ...]
//
// A missing index is written as an empty field.
func (e *Example) AppendLine(b []byte) []byte {
	b = append(b, base.FormatFloat(e.Target)...)
	b = append(b, ' ')
	b = appendIndicator(b, e.UserIndex)
	b = append(b, ' ')
	b = appendIndicator(b, e.ItemIndex)
	for _, feature := range e.SimilarItems {
		b = append(b, ' ')
		b = strconv.AppendInt(b, int64(feature.A), 10)
		b = append(b, ':')
		b = append(b, base.FormatFloat(feature.B)...)
	}
	return append(b, '\n')
}

// String returns the example in libFM format without line break.
func (e *Example) String() string {
	return strings.TrimSuffix(string(e.AppendLine(nil)), "\n")
}

func appendIndicator(b []byte, index int32) []byte {
	if index == base.NotId {
		return b
	}
	b = strconv.AppendInt(b, int64(index), 10)
	return append(b, ":1"...)
}

func formatIndicator(index int32) string {
	return string(appendIndicator(nil, index))
}

func (e *Example) validate() error {
	if e.UserIndex == base.NotId {
		return errors.NotFoundf("index of user %v", e.UserId)
	}
	if e.ItemIndex == base.NotId {
		return errors.NotFoundf("index of item %v", e.ItemId)
	}
	return nil
}
