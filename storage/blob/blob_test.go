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
	"path/filepath"
	"testing"

	"github.com/gorse-io/gorse-libfm/config"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitURL(t *testing.T) {
	bucket, prefix, name, err := splitURL("s3://coupon/raw_data/user_list.csv")
	assert.NoError(t, err)
	assert.Equal(t, "coupon", bucket)
	assert.Equal(t, "raw_data", prefix)
	assert.Equal(t, "user_list.csv", name)

	bucket, prefix, name, err = splitURL("gs://coupon/a/b/prob_purchase.txt")
	assert.NoError(t, err)
	assert.Equal(t, "coupon", bucket)
	assert.Equal(t, "a/b", prefix)
	assert.Equal(t, "prob_purchase.txt", name)

	bucket, prefix, name, err = splitURL("azblob://coupon/train.libfm")
	assert.NoError(t, err)
	assert.Equal(t, "coupon", bucket)
	assert.Empty(t, prefix)
	assert.Equal(t, "train.libfm", name)

	_, _, _, err = splitURL("s3://coupon/")
	assert.True(t, errors.Is(err, errors.NotValid))
	_, _, _, err = splitURL("s3:///user_list.csv")
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestResolve(t *testing.T) {
	store, name, err := Resolve(config.StorageConfig{}, "raw_data/user_list.csv")
	assert.NoError(t, err)
	assert.Equal(t, NewPOSIX("raw_data"), store)
	assert.Equal(t, "user_list.csv", name)

	store, name, err = Resolve(config.StorageConfig{}, "file:///data/train.libfm")
	assert.NoError(t, err)
	assert.Equal(t, NewPOSIX("/data"), store)
	assert.Equal(t, "train.libfm", name)

	_, _, err = Resolve(config.StorageConfig{}, "")
	assert.Error(t, err)

	// s3 requires an endpoint
	_, _, err = Resolve(config.StorageConfig{}, "s3://coupon/raw_data/user_list.csv")
	assert.Error(t, err)
	store, name, err = Resolve(config.StorageConfig{S3: config.S3Config{Endpoint: "localhost:9000"}}, "s3://coupon/raw_data/user_list.csv")
	assert.NoError(t, err)
	assert.IsType(t, &S3{}, store)
	assert.Equal(t, "coupon", store.(*S3).bucket)
	assert.Equal(t, "raw_data", store.(*S3).prefix)
	assert.Equal(t, "user_list.csv", name)

	// azure requires credentials
	_, _, err = Resolve(config.StorageConfig{}, "azblob://coupon/raw_data/user_list.csv")
	assert.Error(t, err)
}

func TestOpenCreateFile(t *testing.T) {
	location := filepath.Join(t.TempDir(), "datalibfm", "user_dict.txt")
	w, err := CreateFile(config.StorageConfig{}, location)
	require.NoError(t, err)
	_, err = w.Write([]byte("user_index,USER_ID_hash\n"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	r, err := OpenFile(config.StorageConfig{}, location)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, "user_index,USER_ID_hash\n", string(data))
	assert.NoError(t, r.Close())

	_, err = OpenFile(config.StorageConfig{}, filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestPipeWriter(t *testing.T) {
	var received []byte
	w := newPipeWriter(func(r io.Reader) error {
		var err error
		received, err = io.ReadAll(r)
		return err
	})
	_, err := w.Write([]byte("hello world"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.Equal(t, "hello world", string(received))

	// upload failure is reported by Close
	w = newPipeWriter(func(r io.Reader) error {
		return errors.New("upload failed")
	})
	_, _ = w.Write([]byte("hello world"))
	assert.EqualError(t, w.Close(), "upload failed")
}
