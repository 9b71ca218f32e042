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
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/samber/lo"
	"modernc.org/mathutil"
)

// LoadLibFMFile loads a libFM table. Empty fields are skipped.
func LoadLibFMFile(r io.Reader) (features [][]Feature, targets []float64, maxLabel int32, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		fields := strings.Split(scanner.Text(), " ")
		// fetch target
		target, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, nil, 0, errors.Annotatef(err, "line %d", lineNumber)
		}
		targets = append(targets, target)
		// fetch features
		lineFeatures := make([]Feature, 0, len(fields[1:]))
		for _, field := range fields[1:] {
			if len(strings.TrimSpace(field)) == 0 {
				continue
			}
			k, v, found := strings.Cut(field, ":")
			if !found {
				return nil, nil, 0, errors.NotValidf("feature %q at line %d", field, lineNumber)
			}
			feature, err := strconv.ParseInt(k, 10, 32)
			if err != nil {
				return nil, nil, 0, errors.Annotatef(err, "line %d", lineNumber)
			}
			value, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, nil, 0, errors.Annotatef(err, "line %d", lineNumber)
			}
			lineFeatures = append(lineFeatures, lo.T2(int32(feature), value))
			maxLabel = mathutil.MaxInt32Val(maxLabel, int32(feature))
		}
		features = append(features, lineFeatures)
	}
	// check error
	if err = scanner.Err(); err != nil {
		return nil, nil, 0, errors.Trace(err)
	}
	return
}
