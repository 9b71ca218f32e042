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
	"os"
	"path"

	"cloud.google.com/go/storage"
	"github.com/gorse-io/gorse-libfm/config"
	"github.com/juju/errors"
	"google.golang.org/api/option"
)

// GCSEmulatorEndpoint points the client to a GCS emulator.
const GCSEmulatorEndpoint = "GCS_EMULATOR_ENDPOINT"

type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCS(cfg config.GCSConfig, bucket, prefix string) (*GCS, error) {
	var opts []option.ClientOption
	if endpoint := os.Getenv(GCSEmulatorEndpoint); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
		opts = append(opts, option.WithoutAuthentication())
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &GCS{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (g *GCS) Open(name string) (io.ReadCloser, error) {
	fullPath := path.Join(g.prefix, name)
	r, err := g.client.Bucket(g.bucket).Object(fullPath).NewReader(context.Background())
	if err != nil {
		return nil, errors.Trace(err)
	}
	return r, nil
}

// Create returns the object writer. GCS commits the object on Close.
func (g *GCS) Create(name string) (io.WriteCloser, error) {
	fullPath := path.Join(g.prefix, name)
	return g.client.Bucket(g.bucket).Object(fullPath).NewWriter(context.Background()), nil
}
