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

package blob

import (
	"io"
	"os"
	"path/filepath"

	"github.com/juju/errors"
)

type POSIX struct {
	dir string
}

func NewPOSIX(dir string) *POSIX {
	return &POSIX{dir: dir}
}

// Open a file for reading.
func (p *POSIX) Open(name string) (io.ReadCloser, error) {
	fullPath := filepath.Join(p.dir, name)
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return file, nil
}

// Create a new file for writing. Missing parent directories are created.
func (p *POSIX) Create(name string) (io.WriteCloser, error) {
	fullPath := filepath.Join(p.dir, name)
	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return nil, errors.Trace(err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return file, nil
}
