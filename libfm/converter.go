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
	"io"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/gorse-libfm/base/log"
	"github.com/gorse-io/gorse-libfm/config"
	"github.com/gorse-io/gorse-libfm/dataset"
	"github.com/gorse-io/gorse-libfm/storage/blob"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Summary counts the rows produced by a conversion.
type Summary struct {
	Users            int
	TrainItems       int
	TestItems        int
	Positives        int
	Negatives        int
	SkippedNegatives int
	TestRows         int
}

// Converter converts coupon tables to libFM training and test tables.
type Converter struct {
	Index        *Index
	SimilarItems map[string][]Feature
	Positives    []Example
	Negatives    []Example
	TestSet      []Example

	// Progress shows progress bars while writing tables.
	Progress bool

	config  *config.Config
	tables  *dataset.Tables
	skipped int
}

func NewConverter(cfg *config.Config, tables *dataset.Tables) *Converter {
	return &Converter{config: cfg, tables: tables}
}

// Convert builds the training examples (positives then negatives) and the test
// examples. The index is built once and shared by all builders.
func (c *Converter) Convert() error {
	log.Logger().Info("assign user and item indices")
	c.Index = NewIndex(c.tables.Users, c.tables.TrainItems, c.tables.TestItems)

	log.Logger().Info("build similar item features")
	trainItems := mapset.NewThreadUnsafeSet(c.tables.TrainItems...)
	testItems := mapset.NewThreadUnsafeSet(c.tables.TestItems...)
	c.SimilarItems = BuildSimilarItems(c.tables.Visits, c.tables.Purchases, trainItems, c.Index)

	log.Logger().Info("build positive examples")
	c.Positives = BuildPositives(c.tables.Purchases, c.Index, c.SimilarItems)

	log.Logger().Info("build negative examples")
	var err error
	c.Negatives, c.skipped, err = BuildNegatives(c.tables.Visits, c.tables.Probabilities, testItems, c.Index, c.SimilarItems, c.config.Convert)
	if err != nil {
		return errors.Trace(err)
	}
	if c.skipped > 0 {
		log.Logger().Warn("skip negative examples without purchase probability", zap.Int("examples", c.skipped))
	}

	log.Logger().Info("build test examples")
	c.TestSet = BuildTestSet(c.Index, c.SimilarItems)
	return nil
}

// Write writes the user and item dictionaries to the configured locations and
// the training and test tables to the given locations.
func (c *Converter) Write(trainPath, testPath string) error {
	if c.Index == nil {
		return errors.New("write before convert")
	}
	w := &Writer{
		UserColumn: c.config.Columns.UserId,
		ItemColumn: c.config.Columns.ItemId,
		Strict:     c.config.Convert.Strict,
		Progress:   c.Progress,
	}
	log.Logger().Info("write user and item dictionaries")
	if err := c.writeFile(c.config.Output.UserDict, func(out io.Writer) error {
		return w.WriteUserDict(out, c.Index)
	}); err != nil {
		return err
	}
	if err := c.writeFile(c.config.Output.ItemDict, func(out io.Writer) error {
		return w.WriteItemDict(out, c.Index)
	}); err != nil {
		return err
	}
	log.Logger().Info("write training and test tables")
	if err := c.writeFile(trainPath, func(out io.Writer) error {
		return w.WriteTable(out, "train", c.Positives, c.Negatives)
	}); err != nil {
		return err
	}
	return c.writeFile(testPath, func(out io.Writer) error {
		return w.WriteTable(out, "test", c.TestSet)
	})
}

func (c *Converter) writeFile(location string, write func(io.Writer) error) error {
	out, err := blob.CreateFile(c.config.Storage, location)
	if err != nil {
		return errors.Trace(err)
	}
	if err = write(out); err != nil {
		_ = out.Close()
		return errors.Annotatef(err, "write %s", location)
	}
	if err = out.Close(); err != nil {
		return errors.Annotatef(err, "close %s", location)
	}
	log.Logger().Info("write file", zap.String("path", log.RedactURL(location)))
	return nil
}

// Summary returns row counts of the last conversion.
func (c *Converter) Summary() Summary {
	s := Summary{
		Positives:        len(c.Positives),
		Negatives:        len(c.Negatives),
		SkippedNegatives: c.skipped,
		TestRows:         len(c.TestSet),
	}
	if c.Index != nil {
		s.Users = int(c.Index.NumUsers)
		s.TrainItems = int(c.Index.NumTrainItems)
		s.TestItems = int(c.Index.NumTestItems)
	}
	return s
}
