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
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/gorse-io/gorse-libfm/config"
	"github.com/juju/errors"
)

const (
	S3Prefix    = "s3://"
	GCSPrefix   = "gs://"
	AzurePrefix = "azblob://"
	FilePrefix  = "file://"
)

// Store is a flat namespace of files.
type Store interface {
	// Open a file for reading.
	Open(name string) (io.ReadCloser, error)
	// Create a file for writing. The file is complete once Close returns without
	// error.
	Create(name string) (io.WriteCloser, error)
}

// Resolve splits a file location into the store holding it and the name of the
// file inside the store. Locations starting with s3://, gs:// or azblob:// are
// object URLs of the form scheme://bucket/prefix/name. Anything else is a local
// path.
func Resolve(cfg config.StorageConfig, location string) (Store, string, error) {
	switch {
	case strings.HasPrefix(location, S3Prefix):
		bucket, prefix, name, err := splitURL(location)
		if err != nil {
			return nil, "", errors.Trace(err)
		}
		store, err := NewS3(cfg.S3, bucket, prefix)
		if err != nil {
			return nil, "", errors.Trace(err)
		}
		return store, name, nil
	case strings.HasPrefix(location, GCSPrefix):
		bucket, prefix, name, err := splitURL(location)
		if err != nil {
			return nil, "", errors.Trace(err)
		}
		store, err := NewGCS(cfg.GCS, bucket, prefix)
		if err != nil {
			return nil, "", errors.Trace(err)
		}
		return store, name, nil
	case strings.HasPrefix(location, AzurePrefix):
		container, prefix, name, err := splitURL(location)
		if err != nil {
			return nil, "", errors.Trace(err)
		}
		store, err := NewAzureBlob(cfg.Azure, container, prefix)
		if err != nil {
			return nil, "", errors.Trace(err)
		}
		return store, name, nil
	default:
		location = strings.TrimPrefix(location, FilePrefix)
		if location == "" {
			return nil, "", errors.NotValidf("empty path")
		}
		return NewPOSIX(filepath.Dir(location)), filepath.Base(location), nil
	}
}

// OpenFile opens the file at location for reading.
func OpenFile(cfg config.StorageConfig, location string) (io.ReadCloser, error) {
	store, name, err := Resolve(cfg, location)
	if err != nil {
		return nil, errors.Trace(err)
	}
	r, err := store.Open(name)
	if err != nil {
		return nil, errors.Annotatef(err, "open %s", location)
	}
	return r, nil
}

// CreateFile creates the file at location for writing.
func CreateFile(cfg config.StorageConfig, location string) (io.WriteCloser, error) {
	store, name, err := Resolve(cfg, location)
	if err != nil {
		return nil, errors.Trace(err)
	}
	w, err := store.Create(name)
	if err != nil {
		return nil, errors.Annotatef(err, "create %s", location)
	}
	return w, nil
}

func splitURL(location string) (bucket, prefix, name string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", "", errors.Trace(err)
	}
	bucket = u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", "", errors.NotValidf("object url %s", location)
	}
	prefix, name = path.Split(key)
	return bucket, strings.TrimSuffix(prefix, "/"), name, nil
}

// pipeWriter streams written bytes into an upload running in the background.
type pipeWriter struct {
	*io.PipeWriter
	done chan error
}

func newPipeWriter(upload func(r io.Reader) error) *pipeWriter {
	pr, pw := io.Pipe()
	w := &pipeWriter{PipeWriter: pw, done: make(chan error, 1)}
	go func() {
		err := upload(pr)
		// unblock the writer if the upload stopped early
		_ = pr.CloseWithError(err)
		w.done <- err
	}()
	return w
}

// Close waits for the upload to finish.
func (w *pipeWriter) Close() error {
	if err := w.PipeWriter.Close(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(<-w.done)
}
