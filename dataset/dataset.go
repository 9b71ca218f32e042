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

package dataset

import (
	"io"
	"math"
	"strconv"

	"github.com/gorse-io/gorse-libfm/base"
	"github.com/gorse-io/gorse-libfm/base/log"
	"github.com/gorse-io/gorse-libfm/config"
	"github.com/gorse-io/gorse-libfm/storage/blob"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Purchase is a user buying an item.
type Purchase struct {
	UserId string
	ItemId string
}

// Visit is a user viewing an item, possibly followed by a purchase.
type Visit struct {
	UserId    string
	ItemId    string
	Purchased bool
}

// Tables holds the raw tables of a coupon dataset. Rows keep their file order.
type Tables struct {
	Users         []string
	TrainItems    []string
	TestItems     []string
	Purchases     []Purchase
	Visits        []Visit
	Probabilities map[string]float64
}

// LoadTables loads all tables located by the configuration.
func LoadTables(cfg *config.Config) (*Tables, error) {
	tables := &Tables{}
	columns := cfg.Columns
	if err := loadTable(cfg, "users", cfg.Input.Users, func(r io.Reader) (n int, err error) {
		tables.Users, err = LoadIds(r, columns.UserId)
		return len(tables.Users), err
	}); err != nil {
		return nil, err
	}
	if err := loadTable(cfg, "train items", cfg.Input.TrainItems, func(r io.Reader) (n int, err error) {
		tables.TrainItems, err = LoadIds(r, columns.ItemId)
		return len(tables.TrainItems), err
	}); err != nil {
		return nil, err
	}
	if err := loadTable(cfg, "test items", cfg.Input.TestItems, func(r io.Reader) (n int, err error) {
		tables.TestItems, err = LoadIds(r, columns.ItemId)
		return len(tables.TestItems), err
	}); err != nil {
		return nil, err
	}
	if err := loadTable(cfg, "purchases", cfg.Input.Purchases, func(r io.Reader) (n int, err error) {
		tables.Purchases, err = LoadPurchases(r, columns)
		return len(tables.Purchases), err
	}); err != nil {
		return nil, err
	}
	if err := loadTable(cfg, "visits", cfg.Input.Visits, func(r io.Reader) (n int, err error) {
		tables.Visits, err = LoadVisits(r, columns)
		return len(tables.Visits), err
	}); err != nil {
		return nil, err
	}
	if err := loadTable(cfg, "probabilities", cfg.Input.Probabilities, func(r io.Reader) (n int, err error) {
		tables.Probabilities, err = LoadProbabilities(r, columns)
		return len(tables.Probabilities), err
	}); err != nil {
		return nil, err
	}
	return tables, nil
}

func loadTable(cfg *config.Config, table, location string, load func(io.Reader) (int, error)) error {
	r, err := blob.OpenFile(cfg.Storage, location)
	if err != nil {
		return errors.Annotatef(err, "load %s", table)
	}
	defer r.Close()
	n, err := load(r)
	if err != nil {
		return errors.Annotatef(err, "load %s from %s", table, location)
	}
	log.Logger().Info("load table",
		zap.String("table", table),
		zap.String("path", log.RedactURL(location)),
		zap.Int("rows", n))
	return nil
}

// LoadIds reads the id column of a user or item table.
func LoadIds(r io.Reader, column string) ([]string, error) {
	var ids []string
	err := base.ReadTable(r, []string{column}, func(_ int, fields []string) error {
		ids = append(ids, fields[0])
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return ids, nil
}

// LoadPurchases reads (user, item) pairs from a purchase detail table.
func LoadPurchases(r io.Reader, columns config.ColumnsConfig) ([]Purchase, error) {
	var purchases []Purchase
	err := base.ReadTable(r, []string{columns.UserId, columns.ItemId}, func(_ int, fields []string) error {
		purchases = append(purchases, Purchase{UserId: fields[0], ItemId: fields[1]})
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return purchases, nil
}

// LoadVisits reads (user, viewed item, purchased) triples from a visit log.
func LoadVisits(r io.Reader, columns config.ColumnsConfig) ([]Visit, error) {
	var visits []Visit
	err := base.ReadTable(r, []string{columns.UserId, columns.ViewItemId, columns.PurchaseFlag}, func(line int, fields []string) error {
		purchased, err := parseFlag(fields[2])
		if err != nil {
			return errors.Annotatef(err, "line %d", line)
		}
		visits = append(visits, Visit{UserId: fields[0], ItemId: fields[1], Purchased: purchased})
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return visits, nil
}

// LoadProbabilities reads the purchase probability of each user. A probability
// must lie in [0, 1] and a user must not appear twice.
func LoadProbabilities(r io.Reader, columns config.ColumnsConfig) (map[string]float64, error) {
	probabilities := make(map[string]float64)
	err := base.ReadTable(r, []string{columns.UserId, columns.Probability}, func(line int, fields []string) error {
		userId := fields[0]
		probability, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return errors.NewNotValid(err, "probability at line "+strconv.Itoa(line))
		}
		if math.IsNaN(probability) || probability < 0 || probability > 1 {
			return errors.NotValidf("probability %v of user %v at line %d", fields[1], userId, line)
		}
		if _, exist := probabilities[userId]; exist {
			return errors.NotValidf("duplicate probability of user %v at line %d", userId, line)
		}
		probabilities[userId] = probability
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return probabilities, nil
}

func parseFlag(s string) (bool, error) {
	if flag, err := strconv.ParseBool(s); err == nil {
		return flag, nil
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false, errors.NotValidf("purchase flag %q", s)
	}
	return value != 0, nil
}
