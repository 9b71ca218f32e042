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
	"context"
	"io"
	"path"

	"github.com/gorse-io/gorse-libfm/base/log"
	"github.com/gorse-io/gorse-libfm/config"
	"github.com/juju/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type S3 struct {
	*minio.Client
	bucket string
	prefix string
}

func NewS3(cfg config.S3Config, bucket, prefix string) (*S3, error) {
	if cfg.Endpoint == "" {
		return nil, errors.NotValidf("empty s3 endpoint")
	}
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &S3{
		Client: minioClient,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// Open an object in S3 for reading.
func (s *S3) Open(name string) (io.ReadCloser, error) {
	fullPath := path.Join(s.prefix, name)
	object, err := s.Client.GetObject(context.Background(), s.bucket, fullPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Trace(err)
	}
	// GetObject is lazy, so a missing object is only found by Stat.
	if _, err = object.Stat(); err != nil {
		_ = object.Close()
		return nil, errors.Trace(err)
	}
	return object, nil
}

// Create a new object in S3 for writing. The object is uploaded while it is
// written.
func (s *S3) Create(name string) (io.WriteCloser, error) {
	fullPath := path.Join(s.prefix, name)
	return newPipeWriter(func(r io.Reader) error {
		_, err := s.Client.PutObject(context.Background(), s.bucket, fullPath, r, -1, minio.PutObjectOptions{})
		if err != nil {
			log.Logger().Error("failed to upload file to S3", zap.String("file", fullPath), zap.Error(err))
		}
		return err
	}), nil
}
