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
	"github.com/gorse-io/gorse-libfm/dataset"
	"github.com/samber/lo"
)

// PositiveTarget is the target of a purchased item.
const PositiveTarget = 1.0

// BuildPositives creates one example per distinct purchase in order of first
// occurrence.
func BuildPositives(purchases []dataset.Purchase, index *Index, similarItems map[string][]Feature) []Example {
	purchases = lo.Uniq(purchases)
	examples := make([]Example, 0, len(purchases))
	for _, purchase := range purchases {
		examples = append(examples, Example{
			UserId:       purchase.UserId,
			ItemId:       purchase.ItemId,
			Target:       PositiveTarget,
			UserIndex:    index.UserIndex(purchase.UserId),
			ItemIndex:    index.ItemIndex(purchase.ItemId),
			SimilarItems: similarItems[purchase.UserId],
		})
	}
	return examples
}
