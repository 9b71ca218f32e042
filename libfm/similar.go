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
	"github.com/gorse-io/gorse-libfm/base"
	"github.com/gorse-io/gorse-libfm/base/log"
	"github.com/gorse-io/gorse-libfm/dataset"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Feature is a (slot, weight) pair of a sparse row.
type Feature = lo.Tuple2[int32, float64]

type pair = lo.Tuple2[string, string]

// BuildSimilarItems encodes the items each user viewed in the train partition or
// purchased as a sparse vector over similar-item slots. Each of the k distinct
// items of a user weighs 1/sqrt(k), so the squared weights sum to one. Users
// without such items are absent from the result.
func BuildSimilarItems(visits []dataset.Visit, purchases []dataset.Purchase, trainItems mapset.Set[string], index *Index) map[string][]Feature {
	references := make([]pair, 0, len(visits)+len(purchases))
	for _, visit := range visits {
		if trainItems.Contains(visit.ItemId) {
			references = append(references, lo.T2(visit.UserId, visit.ItemId))
		}
	}
	for _, purchase := range purchases {
		references = append(references, lo.T2(purchase.UserId, purchase.ItemId))
	}
	references = lo.Uniq(references)

	// slots of a user keep the order of first reference
	var (
		slots     = make(map[string][]int32)
		unindexed int
	)
	for _, ref := range references {
		slot := index.SimilarItemIndex(ref.B)
		if slot == base.NotId {
			unindexed++
			continue
		}
		slots[ref.A] = append(slots[ref.A], slot)
	}
	if unindexed > 0 {
		log.Logger().Warn("drop similar items without index", zap.Int("references", unindexed))
	}

	features := make(map[string][]Feature, len(slots))
	for userId, userSlots := range slots {
		weight := 1 / math.Sqrt(float64(len(userSlots)))
		features[userId] = lo.Map(userSlots, func(slot int32, _ int) Feature {
			return lo.T2(slot, weight)
		})
	}
	return features
}
