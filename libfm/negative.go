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
	"math"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/gorse-libfm/config"
	"github.com/gorse-io/gorse-libfm/dataset"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

// NegativeTarget computes the target of a viewed but unpurchased item from the
// purchase probability of the user. Test items are boosted by a cube root.
func NegativeTarget(probability float64, testItem bool) float64 {
	if testItem {
		return math.Cbrt(probability)
	}
	return probability
}

// BuildNegatives creates one example per distinct visit without purchase to an
// indexed item, in order of first occurrence. The target comes from the purchase
// probability of the user. A user without probability is handled by the
// missing probability policy: fail returns an error, skip drops the example
// and default uses the default probability. It returns the examples and the
// number of skipped examples.
func BuildNegatives(
	visits []dataset.Visit,
	probabilities map[string]float64,
	testItems mapset.Set[string],
	index *Index,
	similarItems map[string][]Feature,
	cfg config.ConvertConfig,
) ([]Example, int, error) {
	pairs := lo.Uniq(lo.FilterMap(visits, func(visit dataset.Visit, _ int) (pair, bool) {
		return lo.T2(visit.UserId, visit.ItemId), index.HasItem(visit.ItemId) && !visit.Purchased
	}))
	examples := make([]Example, 0, len(pairs))
	skipped := 0
	for _, p := range pairs {
		probability, exist := probabilities[p.A]
		if !exist {
			switch cfg.MissingProbability {
			case config.MissingSkip:
				skipped++
				continue
			case config.MissingDefault:
				probability = cfg.DefaultProbability
			default:
				return nil, 0, errors.NotFoundf("purchase probability of user %v", p.A)
			}
		}
		examples = append(examples, Example{
			UserId:       p.A,
			ItemId:       p.B,
			Target:       NegativeTarget(probability, testItems.Contains(p.B)),
			UserIndex:    index.UserIndex(p.A),
			ItemIndex:    index.ItemIndex(p.B),
			SimilarItems: similarItems[p.A],
		})
	}
	return examples, skipped, nil
}
